package currency

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FromBaseUnits converts an integer base-unit string (e.g. wei,
// satoshi) to a decimal amount using the currency's precision. Some
// providers quote crypto amounts this way on the wire.
func FromBaseUnits(raw string, decimals uint8) (decimal.Decimal, error) {
	units, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("currency: invalid base-unit amount %q: %w", raw, err)
	}
	return units.Shift(-int32(decimals)), nil
}

// ToBaseUnits converts a decimal amount to an integer base-unit string
// using the currency's precision. Fractional base units are truncated.
func ToBaseUnits(amount decimal.Decimal, decimals uint8) string {
	return amount.Shift(int32(decimals)).Truncate(0).String()
}
