package app

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitpay/offer-engine/business/offers/domain"
)

func buyRequest() domain.QuoteRequest {
	return domain.QuoteRequest{
		Side:          domain.Buy,
		Amount:        decimal.NewFromInt(100),
		FiatCurrency:  "USD",
		Coin:          "BTC",
		Chain:         "BTC",
		Country:       "US",
		PaymentMethod: domain.MethodDebitCard,
	}
}

func TestEligibilityFilter_Evaluate(t *testing.T) {
	filter := NewEligibilityFilter(domain.DefaultSupportTables())

	tests := []struct {
		name       string
		mutate     func(*domain.QuoteRequest)
		eligible   []domain.ProviderKey
		ineligible map[domain.ProviderKey]string
	}{
		{
			name:     "debit card buy in US",
			mutate:   func(r *domain.QuoteRequest) {},
			eligible: []domain.ProviderKey{domain.Banxa, domain.MoonPay, domain.Sardine, domain.Simplex, domain.Transak},
			ineligible: map[domain.ProviderKey]string{
				domain.Ramp: "payment method not supported",
			},
		},
		{
			name: "sardine is US only",
			mutate: func(r *domain.QuoteRequest) {
				r.Country = "DE"
				r.FiatCurrency = "EUR"
			},
			ineligible: map[domain.ProviderKey]string{
				domain.Sardine: "country not supported",
			},
		},
		{
			name: "sepa outside the EU",
			mutate: func(r *domain.QuoteRequest) {
				r.PaymentMethod = domain.MethodSEPABankTransfer
			},
			ineligible: map[domain.ProviderKey]string{
				domain.Banxa:   "payment method not available in country",
				domain.MoonPay: "payment method not available in country",
			},
		},
		{
			name: "unsupported fiat",
			mutate: func(r *domain.QuoteRequest) {
				r.FiatCurrency = "JPY"
			},
			eligible: []domain.ProviderKey{domain.MoonPay, domain.Simplex},
			ineligible: map[domain.ProviderKey]string{
				domain.Banxa:   "currency not supported",
				domain.Transak: "currency not supported",
			},
		},
		{
			name: "unsupported coin",
			mutate: func(r *domain.QuoteRequest) {
				r.Coin = "SHIB"
				r.Chain = "eth"
			},
			ineligible: map[domain.ProviderKey]string{
				domain.Banxa:   "coin not supported",
				domain.MoonPay: "coin not supported",
				domain.Simplex: "coin not supported",
			},
		},
		{
			name: "unknown payment method",
			mutate: func(r *domain.QuoteRequest) {
				r.PaymentMethod = "carrierPigeon"
			},
			eligible: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := buyRequest()
			tt.mutate(&req)

			verdicts := filter.Evaluate(req)
			require.Len(t, verdicts, len(domain.BuyProviders))

			for _, provider := range tt.eligible {
				assert.True(t, verdicts[provider].Eligible, "expected %s eligible, got %q", provider, verdicts[provider].Reason)
			}
			for provider, reason := range tt.ineligible {
				assert.False(t, verdicts[provider].Eligible, "expected %s ineligible", provider)
				assert.Equal(t, reason, verdicts[provider].Reason)
			}
		})
	}
}

func TestEligibilityFilter_DisabledProvider(t *testing.T) {
	filter := NewEligibilityFilter(domain.DefaultSupportTables())

	req := buyRequest()
	req.Config = domain.ConfigSnapshot{
		domain.Simplex: {Disabled: true, DisabledMessage: "Simplex is under maintenance"},
		domain.Transak: {Disabled: true},
	}

	verdicts := filter.Evaluate(req)
	assert.False(t, verdicts[domain.Simplex].Eligible)
	assert.Equal(t, "Simplex is under maintenance", verdicts[domain.Simplex].Reason)
	assert.False(t, verdicts[domain.Transak].Eligible)
	assert.Equal(t, "exchange disabled by config", verdicts[domain.Transak].Reason)
	assert.True(t, verdicts[domain.Banxa].Eligible)
}

func TestEligibilityFilter_SellSide(t *testing.T) {
	filter := NewEligibilityFilter(domain.DefaultSupportTables())

	req := buyRequest()
	req.Side = domain.Sell
	req.PaymentMethod = domain.MethodOther

	eligible := filter.Eligible(req)
	assert.Equal(t, []domain.ProviderKey{domain.MoonPay, domain.Ramp, domain.Simplex}, eligible)

	// only MoonPay pays sells out to ACH
	req.PaymentMethod = domain.MethodACH
	eligible = filter.Eligible(req)
	assert.Equal(t, []domain.ProviderKey{domain.MoonPay}, eligible)
}

func TestEligibilityFilter_EnumerationOrderStable(t *testing.T) {
	filter := NewEligibilityFilter(domain.DefaultSupportTables())
	req := buyRequest()
	req.PaymentMethod = domain.MethodOther

	first := filter.Eligible(req)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, filter.Eligible(req))
	}
}
