// Package domain contains the fiat rate model for the rates context.
package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Rate is one BTC cross rate: how many units of a fiat currency one
// bitcoin buys.
type Rate struct {
	Code string
	Name string
	Rate decimal.Decimal
}

// Table is an immutable snapshot of BTC cross rates keyed by fiat code.
// A refresh builds a new Table; in-flight readers keep the old one.
type Table struct {
	rates     map[string]decimal.Decimal
	updatedAt time.Time
}

// NewTable builds a snapshot from a list of rates. Zero and negative
// rates are dropped, they cannot be used as divisors.
func NewTable(rates []Rate, updatedAt time.Time) *Table {
	byCode := make(map[string]decimal.Decimal, len(rates))
	for _, r := range rates {
		if r.Rate.IsPositive() {
			byCode[strings.ToUpper(r.Code)] = r.Rate
		}
	}
	return &Table{rates: byCode, updatedAt: updatedAt}
}

// Rate returns the BTC rate for a fiat code.
func (t *Table) Rate(code string) (decimal.Decimal, bool) {
	r, ok := t.rates[strings.ToUpper(code)]
	return r, ok
}

// UpdatedAt returns when the snapshot was taken.
func (t *Table) UpdatedAt() time.Time {
	return t.updatedAt
}

// IsStale reports whether the snapshot is older than maxAge.
func (t *Table) IsStale(maxAge time.Duration) bool {
	return time.Since(t.updatedAt) > maxAge
}

// Len returns the number of rates in the snapshot.
func (t *Table) Len() int {
	return len(t.rates)
}
