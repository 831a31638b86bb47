package app

import (
	"github.com/bitpay/offer-engine/business/offers/domain"
)

// Verdict is the eligibility outcome for one provider.
type Verdict struct {
	Eligible bool
	// Reason is the human-readable ineligibility reason, empty when
	// eligible.
	Reason string
}

// EligibilityFilter decides, per provider, whether it should be queried
// at all. It is a pure function over the request and the static support
// tables: no I/O, no side effects. Filtering impossible combinations
// here is the primary cost control, it keeps a keystroke from costing
// six HTTP calls.
type EligibilityFilter struct {
	tables domain.SupportTables
}

// NewEligibilityFilter creates a filter over the given support tables.
func NewEligibilityFilter(tables domain.SupportTables) *EligibilityFilter {
	return &EligibilityFilter{tables: tables}
}

// Evaluate returns a verdict for every provider enumerated for the
// request's trade side, in enumeration order.
func (f *EligibilityFilter) Evaluate(req domain.QuoteRequest) map[domain.ProviderKey]Verdict {
	verdicts := make(map[domain.ProviderKey]Verdict)
	for _, provider := range domain.ProvidersFor(req.Side) {
		verdicts[provider] = f.check(provider, req)
	}
	return verdicts
}

// Eligible returns the eligible providers in stable enumeration order.
func (f *EligibilityFilter) Eligible(req domain.QuoteRequest) []domain.ProviderKey {
	verdicts := f.Evaluate(req)
	var eligible []domain.ProviderKey
	for _, provider := range domain.ProvidersFor(req.Side) {
		if verdicts[provider].Eligible {
			eligible = append(eligible, provider)
		}
	}
	return eligible
}

func (f *EligibilityFilter) check(provider domain.ProviderKey, req domain.QuoteRequest) Verdict {
	cfg := req.Config.Provider(provider)
	if cfg.Disabled {
		msg := cfg.DisabledMessage
		if msg == "" {
			msg = "exchange disabled by config"
		}
		return Verdict{Reason: msg}
	}

	support, ok := f.tables[provider]
	if !ok {
		return Verdict{Reason: "exchange not supported"}
	}

	if !support.SupportsCountry(req.Country) {
		return Verdict{Reason: "country not supported"}
	}

	if !support.SupportsAsset(req.Side, req.Coin, req.Chain) {
		return Verdict{Reason: "coin not supported"}
	}

	if !support.SupportsFiat(req.FiatCurrency) {
		return Verdict{Reason: "currency not supported"}
	}

	method, ok := domain.PaymentMethods[req.PaymentMethod]
	if !ok {
		return Verdict{Reason: "payment method not supported"}
	}
	if !method.AvailableInCountry(req.Country) {
		return Verdict{Reason: "payment method not available in country"}
	}
	if !method.SupportsProvider(provider, req.Side) {
		return Verdict{Reason: "payment method not supported"}
	}

	return Verdict{Eligible: true}
}
