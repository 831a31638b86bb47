package app

import (
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitpay/offer-engine/business/offers/domain"
	"github.com/bitpay/offer-engine/internal/apperror"
)

// fakeRates converts using fixed fiat-per-USD rates. Unknown fiats
// return a rate-unavailable error, like the real service.
type fakeRates struct {
	perUSD map[string]decimal.Decimal
}

func (f *fakeRates) AltFiatToUSD(amount decimal.Decimal, fiatCode string) (decimal.Decimal, error) {
	rate, ok := f.perUSD[fiatCode]
	if !ok {
		return decimal.Zero, apperror.New(apperror.CodeRateUnavailable)
	}
	return amount.Div(rate), nil
}

func (f *fakeRates) USDToAltFiat(amount decimal.Decimal, fiatCode string) (decimal.Decimal, error) {
	rate, ok := f.perUSD[fiatCode]
	if !ok {
		return decimal.Zero, apperror.New(apperror.CodeRateUnavailable)
	}
	return amount.Mul(rate), nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRates() *fakeRates {
	return &fakeRates{perUSD: map[string]decimal.Decimal{
		"USD": decimal.NewFromInt(1),
		"EUR": decimal.RequireFromString("0.5"),
	}}
}

func usdReq(amount int64) domain.QuoteRequest {
	req := buyRequest()
	req.Amount = decimal.NewFromInt(amount)
	return req
}

func TestLimitValidator_Check(t *testing.T) {
	tests := []struct {
		name     string
		amount   int64
		fiat     string
		provider domain.ProviderKey
		violated bool
	}{
		{name: "below minimum", amount: 40, fiat: "USD", provider: domain.Sardine, violated: true},
		{name: "inside range", amount: 100, fiat: "USD", provider: domain.Sardine, violated: false},
		{name: "above maximum", amount: 5000, fiat: "USD", provider: domain.Transak, violated: true},
		{name: "at minimum", amount: 50, fiat: "USD", provider: domain.Sardine, violated: false},
		{name: "alt fiat converted before comparison", amount: 20, fiat: "EUR", provider: domain.Sardine, violated: true},
		{name: "alt fiat inside range", amount: 100, fiat: "EUR", provider: domain.Sardine, violated: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewLimitValidator(newTestRates(), testLogger())

			req := usdReq(tt.amount)
			req.FiatCurrency = tt.fiat

			violated, _ := v.Check(req, tt.provider)
			assert.Equal(t, tt.violated, violated)
		})
	}
}

func TestLimitValidator_EchoesLimitsInRequestFiat(t *testing.T) {
	v := NewLimitValidator(newTestRates(), testLogger())

	// 20 EUR is 40 USD, below Sardine's 50 USD floor; the echoed range
	// must come back in EUR for messaging.
	req := usdReq(20)
	req.FiatCurrency = "EUR"

	violated, limits := v.Check(req, domain.Sardine)
	require.True(t, violated)
	require.NotNil(t, limits.Min)
	require.NotNil(t, limits.Max)
	assert.True(t, limits.Min.Equal(decimal.NewFromInt(25)), "min = %s", limits.Min)
	assert.True(t, limits.Max.Equal(decimal.NewFromInt(1500)), "max = %s", limits.Max)
}

func TestLimitValidator_RateUnavailablePassesThrough(t *testing.T) {
	v := NewLimitValidator(newTestRates(), testLogger())

	req := usdReq(5)
	req.FiatCurrency = "BRL"

	violated, limits := v.Check(req, domain.Sardine)
	assert.False(t, violated, "no rate must never reject a request")
	assert.False(t, limits.Known())
}

func TestLimitValidator_Update(t *testing.T) {
	v := NewLimitValidator(newTestRates(), testLogger())

	v.Update(domain.Transak, domain.NewLimits(decimal.NewFromInt(30), decimal.NewFromInt(300)), "USD")

	violated, limits := v.Check(usdReq(400), domain.Transak)
	require.True(t, violated)
	assert.True(t, limits.Max.Equal(decimal.NewFromInt(300)))

	// limits declared in EUR are stored in USD
	v.Update(domain.Banxa, domain.NewLimits(decimal.NewFromInt(10), decimal.NewFromInt(100)), "EUR")
	known := v.Known(domain.Banxa)
	require.True(t, known.Known())
	assert.True(t, known.Min.Equal(decimal.NewFromInt(20)), "min = %s", known.Min)
	assert.True(t, known.Max.Equal(decimal.NewFromInt(200)), "max = %s", known.Max)

	// unknown limits never clobber the cache
	v.Update(domain.Banxa, domain.Limits{}, "USD")
	assert.True(t, v.Known(domain.Banxa).Known())
}
