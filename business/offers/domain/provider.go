// Package domain contains the offer aggregation domain model: quote
// requests, per-provider offers, and the aggregate view.
package domain

// ProviderKey identifies one of the supported exchange providers.
type ProviderKey string

const (
	Banxa   ProviderKey = "banxa"
	MoonPay ProviderKey = "moonpay"
	Ramp    ProviderKey = "ramp"
	Sardine ProviderKey = "sardine"
	Simplex ProviderKey = "simplex"
	Transak ProviderKey = "transak"
)

// TradeSide distinguishes buying crypto with fiat from selling it.
type TradeSide string

const (
	Buy  TradeSide = "buy"
	Sell TradeSide = "sell"
)

// BuyProviders is the stable enumeration of providers queried for buy
// quotes. Order matters: when two offers tie on amount receiving, the
// first-seen provider in this order wins.
var BuyProviders = []ProviderKey{Banxa, MoonPay, Ramp, Sardine, Simplex, Transak}

// SellProviders is the stable enumeration of providers queried for sell
// quotes, with the same ordering contract as BuyProviders.
var SellProviders = []ProviderKey{MoonPay, Ramp, Simplex}

// ProvidersFor returns the provider enumeration for a trade side.
func ProvidersFor(side TradeSide) []ProviderKey {
	if side == Sell {
		return SellProviders
	}
	return BuyProviders
}

var displayNames = map[ProviderKey]string{
	Banxa:   "Banxa",
	MoonPay: "MoonPay",
	Ramp:    "Ramp Network",
	Sardine: "Sardine",
	Simplex: "Simplex",
	Transak: "Transak",
}

// DisplayName returns the user-facing provider name.
func (k ProviderKey) DisplayName() string {
	if name, ok := displayNames[k]; ok {
		return name
	}
	return string(k)
}

// Valid reports whether the key is one of the known providers.
func (k ProviderKey) Valid() bool {
	_, ok := displayNames[k]
	return ok
}
