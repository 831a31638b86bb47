package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProviderConfig is the remote-config kill switch snapshot for one
// provider. Read-only for the lifetime of a generation.
type ProviderConfig struct {
	Disabled        bool
	DisabledMessage string
}

// ConfigSnapshot is the per-request view of all provider configs.
// Refreshing the underlying config only affects the next generation.
type ConfigSnapshot map[ProviderKey]ProviderConfig

// Provider returns the config for a provider, zero value when absent.
func (s ConfigSnapshot) Provider(key ProviderKey) ProviderConfig {
	if s == nil {
		return ProviderConfig{}
	}
	return s[key]
}

// QuoteRequest is the immutable input for one generation of quote
// fetches. A new generation is minted whenever the user-visible
// amount, payment method, or wallet changes.
type QuoteRequest struct {
	Generation uint64
	RequestID  uuid.UUID
	Side       TradeSide

	// Amount is fiat spent for buys, crypto sold for sells.
	Amount        decimal.Decimal
	FiatCurrency  string
	Coin          string
	Chain         string
	Country       string
	PaymentMethod PaymentMethodKey
	WalletRef     string

	Config ConfigSnapshot
}

// WithGeneration returns a copy tagged with a generation and a fresh
// request ID.
func (r QuoteRequest) WithGeneration(generation uint64) QuoteRequest {
	r.Generation = generation
	r.RequestID = uuid.New()
	return r
}

// SameInput reports whether two requests describe the same user input,
// ignoring generation and request identity.
func (r QuoteRequest) SameInput(other QuoteRequest) bool {
	return r.Side == other.Side &&
		r.Amount.Equal(other.Amount) &&
		r.FiatCurrency == other.FiatCurrency &&
		r.Coin == other.Coin &&
		r.Chain == other.Chain &&
		r.Country == other.Country &&
		r.PaymentMethod == other.PaymentMethod &&
		r.WalletRef == other.WalletRef
}
