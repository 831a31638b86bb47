package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// OfferState is the lifecycle state of one provider's offer within a
// generation. Every offer transitions at most once, from Pending to a
// terminal state; Ineligible offers are born terminal.
type OfferState string

const (
	StateIneligible OfferState = "ineligible"
	StatePending    OfferState = "pending"
	StateQuoted     OfferState = "quoted"
	StateOutOfLimit OfferState = "outOfLimit"
	StateErrored    OfferState = "errored"
)

// Terminal reports whether the state is final.
func (s OfferState) Terminal() bool {
	return s != StatePending
}

// Limits is a provider's transactable fiat range. Nil bounds mean the
// bound is unknown; unknown is never treated as a violation.
type Limits struct {
	Min *decimal.Decimal
	Max *decimal.Decimal
}

// Violates reports whether the amount falls outside the known bounds.
func (l Limits) Violates(amount decimal.Decimal) bool {
	if l.Min != nil && amount.LessThan(*l.Min) {
		return true
	}
	if l.Max != nil && amount.GreaterThan(*l.Max) {
		return true
	}
	return false
}

// Known reports whether at least one bound is known.
func (l Limits) Known() bool {
	return l.Min != nil || l.Max != nil
}

// NewLimits builds Limits from plain values.
func NewLimits(min, max decimal.Decimal) Limits {
	return Limits{Min: &min, Max: &max}
}

// QuoteResult is the normalized outcome of one adapter fetch.
type QuoteResult struct {
	// AmountReceiving is crypto received for buys, fiat received for sells.
	AmountReceiving decimal.Decimal
	// FiatCost is the total fiat charged including fees (buy side).
	FiatCost decimal.Decimal
	// BuyAmount is the fiat amount exchanged excluding fees.
	BuyAmount decimal.Decimal
	Fee       decimal.Decimal
	// UnitPrice is the provider's fee-free exchange rate where exposed.
	UnitPrice decimal.Decimal
	// Limits carries bounds some providers return as a quote side effect.
	Limits     Limits
	RawPayload json.RawMessage
}

// Offer is one provider's normalized quote plus lifecycle state.
// Offers are replaced, never patched: state transitions produce a new
// value through the transition methods below.
type Offer struct {
	Provider        ProviderKey
	State           OfferState
	FiatCurrency    string
	FiatAmount      decimal.Decimal
	AmountReceiving decimal.Decimal
	BuyAmount       decimal.Decimal
	Fee             decimal.Decimal
	UnitPrice       decimal.Decimal
	AmountLimits    Limits
	QuotePayload    json.RawMessage
	ErrorMessage    string
}

// NewPendingOffer creates the initial offer for an eligible provider.
func NewPendingOffer(provider ProviderKey, req QuoteRequest) Offer {
	return Offer{
		Provider:     provider,
		State:        StatePending,
		FiatCurrency: req.FiatCurrency,
		FiatAmount:   req.Amount,
	}
}

// NewIneligibleOffer creates a born-terminal offer for a provider that
// was filtered out before any network call.
func NewIneligibleOffer(provider ProviderKey, req QuoteRequest, reason string) Offer {
	o := NewPendingOffer(provider, req)
	o.State = StateIneligible
	o.ErrorMessage = reason
	return o
}

// Quoted returns a copy in the Quoted terminal state carrying the
// normalized result.
func (o Offer) Quoted(result QuoteResult) Offer {
	o.State = StateQuoted
	o.AmountReceiving = result.AmountReceiving
	o.BuyAmount = result.BuyAmount
	o.Fee = result.Fee
	o.UnitPrice = result.UnitPrice
	o.QuotePayload = result.RawPayload
	if result.FiatCost.IsPositive() {
		o.FiatAmount = result.FiatCost
	}
	if result.Limits.Known() {
		o.AmountLimits = result.Limits
	}
	o.ErrorMessage = ""
	return o
}

// OutOfLimit returns a copy rejected for violating the given limits,
// echoing them back for messaging.
func (o Offer) OutOfLimit(limits Limits) Offer {
	o.State = StateOutOfLimit
	o.AmountLimits = limits
	return o
}

// Errored returns a copy in the Errored terminal state.
func (o Offer) Errored(message string) Offer {
	o.State = StateErrored
	o.ErrorMessage = message
	return o
}

// SelectedOffer is the derived best offer. It is recomputed per
// generation, never cached across them.
type SelectedOffer struct {
	Provider        ProviderKey
	AmountReceiving decimal.Decimal
	FiatAmount      decimal.Decimal
	Fee             decimal.Decimal
	// Label is the decorated selection text, e.g.
	// "Banxa using Debit Card" or "MoonPay paid to ACH Bank Transfer".
	Label string
}

// SelectionLabel builds the decorated label for a winning provider.
func SelectionLabel(provider ProviderKey, side TradeSide, method PaymentMethodKey) string {
	if side == Sell {
		return provider.DisplayName() + " paid to " + MethodLabel(method)
	}
	return provider.DisplayName() + " using " + MethodLabel(method)
}

// AggregateResult is the reconciler's externally visible state for one
// generation. AllSettled is true iff every offer is terminal.
type AggregateResult struct {
	Generation uint64
	Side       TradeSide
	Offers     map[ProviderKey]Offer
	AllSettled bool

	// Selected is set once selection has run, nil when no Quoted offer
	// exists. Message carries the user-facing no-offers text.
	Selected *SelectedOffer
	Message  string
}

// Clone returns a deep-enough copy safe to hand to subscribers.
func (a AggregateResult) Clone() AggregateResult {
	offers := make(map[ProviderKey]Offer, len(a.Offers))
	for k, v := range a.Offers {
		offers[k] = v
	}
	a.Offers = offers
	if a.Selected != nil {
		sel := *a.Selected
		a.Selected = &sel
	}
	return a
}

// SettledNow recomputes AllSettled from the offer states.
func (a *AggregateResult) SettledNow() bool {
	for _, o := range a.Offers {
		if !o.State.Terminal() {
			return false
		}
	}
	return true
}
