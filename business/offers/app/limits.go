package app

import (
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/bitpay/offer-engine/business/offers/domain"
)

func usd(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// defaultLimitsUSD are the shipped per-provider transactable ranges in
// USD equivalent, used until live limits arrive.
func defaultLimitsUSD() map[domain.ProviderKey]domain.Limits {
	return map[domain.ProviderKey]domain.Limits{
		domain.Banxa:   {Min: usd(35), Max: usd(14000)},
		domain.MoonPay: {Min: usd(30), Max: usd(30000)},
		domain.Ramp:    {Min: usd(20), Max: usd(5500)},
		domain.Sardine: {Min: usd(50), Max: usd(3000)},
		domain.Simplex: {Min: usd(50), Max: usd(20000)},
		domain.Transak: {Min: usd(30), Max: usd(3000)},
	}
}

// LimitValidator short-circuits quote fetches whose amount is already
// known to be out of a provider's range, without a network call.
// Limits are cached in USD; requests in other fiats are converted for
// comparison. Unknown limits never reject, and a failed conversion
// passes the request through rather than blocking it.
type LimitValidator struct {
	rates RateConverter
	log   *slog.Logger

	mu     sync.RWMutex
	limits map[domain.ProviderKey]domain.Limits
}

// NewLimitValidator creates a validator seeded with the default limits.
func NewLimitValidator(rates RateConverter, log *slog.Logger) *LimitValidator {
	return &LimitValidator{
		rates:  rates,
		log:    log,
		limits: defaultLimitsUSD(),
	}
}

// Check reports whether the request violates the provider's known
// limits. The returned limits are denominated in the request's fiat
// currency for messaging; zero Limits when unknown.
func (v *LimitValidator) Check(req domain.QuoteRequest, provider domain.ProviderKey) (bool, domain.Limits) {
	v.mu.RLock()
	usdLimits, ok := v.limits[provider]
	v.mu.RUnlock()

	if !ok || !usdLimits.Known() {
		return false, domain.Limits{}
	}

	amountUSD := req.Amount
	if req.FiatCurrency != "" && req.FiatCurrency != "USD" {
		converted, err := v.rates.AltFiatToUSD(req.Amount, req.FiatCurrency)
		if err != nil {
			// no rate, no verdict: let the provider decide
			v.log.Debug("limit check skipped, rate unavailable",
				"provider", provider, "fiat", req.FiatCurrency)
			return false, domain.Limits{}
		}
		amountUSD = converted
	}

	if !usdLimits.Violates(amountUSD) {
		return false, domain.Limits{}
	}

	return true, v.inFiat(usdLimits, req.FiatCurrency)
}

// Update replaces the cached limits for a provider with live values.
// The fiatCode declares the denomination of the incoming limits; they
// are stored in USD. Takes effect for subsequent generations only.
func (v *LimitValidator) Update(provider domain.ProviderKey, limits domain.Limits, fiatCode string) {
	if !limits.Known() {
		return
	}

	if fiatCode != "" && fiatCode != "USD" {
		converted := domain.Limits{}
		if limits.Min != nil {
			if m, err := v.rates.AltFiatToUSD(*limits.Min, fiatCode); err == nil {
				converted.Min = &m
			}
		}
		if limits.Max != nil {
			if m, err := v.rates.AltFiatToUSD(*limits.Max, fiatCode); err == nil {
				converted.Max = &m
			}
		}
		if !converted.Known() {
			return
		}
		limits = converted
	}

	v.mu.Lock()
	v.limits[provider] = limits
	v.mu.Unlock()

	v.log.Debug("provider limits updated", "provider", provider)
}

// Known returns the cached USD limits for a provider.
func (v *LimitValidator) Known(provider domain.ProviderKey) domain.Limits {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.limits[provider]
}

func (v *LimitValidator) inFiat(usdLimits domain.Limits, fiatCode string) domain.Limits {
	if fiatCode == "" || fiatCode == "USD" {
		return usdLimits
	}

	out := usdLimits
	if usdLimits.Min != nil {
		if m, err := v.rates.USDToAltFiat(*usdLimits.Min, fiatCode); err == nil {
			out.Min = &m
		}
	}
	if usdLimits.Max != nil {
		if m, err := v.rates.USDToAltFiat(*usdLimits.Max, fiatCode); err == nil {
			out.Max = &m
		}
	}
	return out
}
