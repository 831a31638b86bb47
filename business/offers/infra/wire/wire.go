// Package wire holds helpers shared by the provider adapters for
// decoding heterogeneous quote payloads.
package wire

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Decimal decodes a JSON number or numeric string into a decimal.
// Providers are inconsistent about quoting their amounts; both forms
// appear in the wild. Null and empty decode to zero.
type Decimal struct {
	decimal.Decimal
}

func (d *Decimal) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		d.Decimal = decimal.Zero
		return nil
	}

	v, err := decimal.NewFromString(string(data))
	if err != nil {
		return err
	}
	d.Decimal = v
	return nil
}

// Zero reports whether the value is absent or zero.
func (d Decimal) Zero() bool {
	return d.Decimal.IsZero()
}

// Unwrap peels a `{"body": ...}` or `{"data": ...}` envelope off a
// response, returning the payload unchanged when no envelope is
// present. Some provider endpoints wrap responses inconsistently.
func Unwrap(raw []byte) []byte {
	var envelope struct {
		Body json.RawMessage `json:"body"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return raw
	}
	if len(envelope.Body) > 0 && !bytes.Equal(envelope.Body, []byte("null")) {
		return envelope.Body
	}
	if len(envelope.Data) > 0 && !bytes.Equal(envelope.Data, []byte("null")) {
		return envelope.Data
	}
	return raw
}
