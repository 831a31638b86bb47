// Package currency provides a type-safe model for the crypto and fiat
// currencies the engine quotes. Amounts are carried as decimal.Decimal;
// base-unit integer strings only appear at provider boundaries.
package currency

import (
	"fmt"
	"strings"
)

// ID uniquely identifies a currency by coin symbol and chain.
// The chain is empty for fiat and for UTXO coins that live on their
// own chain (BTC, BCH, DOGE, LTC, XRP).
type ID struct {
	coin  string
	chain string
}

// NewID creates an ID from a coin symbol and chain, both normalized
// to lowercase.
func NewID(coin, chain string) ID {
	return ID{
		coin:  strings.ToLower(coin),
		chain: strings.ToLower(chain),
	}
}

// NewFiatID creates an ID for a fiat currency.
func NewFiatID(code string) ID {
	return ID{coin: strings.ToLower(code)}
}

// Coin returns the lowercase coin symbol (e.g. "btc", "usdc").
func (id ID) Coin() string {
	return id.coin
}

// Chain returns the lowercase chain name, empty when the coin is fiat
// or lives on its own chain.
func (id ID) Chain() string {
	return id.chain
}

// String returns a human-readable representation.
func (id ID) String() string {
	if id.chain == "" || id.chain == id.coin {
		return id.coin
	}
	return fmt.Sprintf("%s_%s", id.coin, id.chain)
}

// Equals compares two IDs for equality.
func (id ID) Equals(other ID) bool {
	return id.coin == other.coin && id.chain == other.chain
}

// Currency holds the metadata of a crypto or fiat currency. It is a
// reference entity: identity is the ID, the name is display metadata.
type Currency struct {
	id       ID
	name     string
	decimals uint8
	fiat     bool
}

// New creates a crypto currency with the given parameters.
func New(id ID, name string, decimals uint8) *Currency {
	if id.coin == "" {
		panic("currency: empty coin")
	}
	if decimals > 30 {
		panic("currency: suspicious decimals (>30)")
	}

	return &Currency{
		id:       id,
		name:     name,
		decimals: decimals,
	}
}

// NewFiat creates a fiat currency.
func NewFiat(code, name string) *Currency {
	c := New(NewFiatID(code), name, 2)
	c.fiat = true
	return c
}

// ID returns the unique identifier for this currency.
func (c *Currency) ID() ID {
	return c.id
}

// Coin returns the coin symbol (e.g. "btc").
func (c *Currency) Coin() string {
	return c.id.coin
}

// Chain returns the chain the currency lives on.
func (c *Currency) Chain() string {
	return c.id.chain
}

// Name returns the human-readable name (e.g. "Bitcoin").
func (c *Currency) Name() string {
	if c.name == "" {
		return strings.ToUpper(c.id.coin)
	}
	return c.name
}

// Decimals returns the number of decimal places.
func (c *Currency) Decimals() uint8 {
	return c.decimals
}

// IsFiat returns true if this is a fiat currency.
func (c *Currency) IsFiat() bool {
	return c.fiat
}

// String returns a human-readable representation.
func (c *Currency) String() string {
	return c.id.String()
}

// Equals compares two Currencies by their ID.
func (c *Currency) Equals(other *Currency) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.id.Equals(other.id)
}
