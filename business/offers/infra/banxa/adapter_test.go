package banxa

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitpay/offer-engine/business/offers/domain"
	"github.com/bitpay/offer-engine/internal/apperror"
	"github.com/bitpay/offer-engine/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAdapter(t *testing.T, handler http.HandlerFunc) *Adapter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	adapter, err := New(config.ProviderConfig{
		BaseURL:           server.URL,
		APIKey:            "test-key",
		RequestsPerMinute: 600,
	}, testLogger())
	require.NoError(t, err)
	return adapter
}

func quoteRequest() domain.QuoteRequest {
	return domain.QuoteRequest{
		Side:          domain.Buy,
		Amount:        decimal.NewFromInt(400),
		FiatCurrency:  "USD",
		Coin:          "BTC",
		Chain:         "BTC",
		Country:       "US",
		PaymentMethod: domain.MethodDebitCard,
	}
}

func TestFetchQuote(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/prices", r.URL.Path)
		assert.Equal(t, "USD", r.URL.Query().Get("source"))
		assert.Equal(t, "400", r.URL.Query().Get("source_amount"))
		assert.Equal(t, "BTC", r.URL.Query().Get("target"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"prices":[{
			"payment_method_id": 6047,
			"fiat_code": "USD",
			"fiat_amount": "400",
			"coin_code": "BTC",
			"coin_amount": "0.00812",
			"fee_amount": "10.5",
			"network_fee": "1.5",
			"spot_price_including_fee": "49261.08"
		}]}}`))
	})

	result, err := adapter.FetchQuote(context.Background(), quoteRequest())
	require.NoError(t, err)

	assert.True(t, result.AmountReceiving.Equal(decimal.RequireFromString("0.00812")))
	assert.True(t, result.FiatCost.Equal(decimal.NewFromInt(400)))
	assert.True(t, result.Fee.Equal(decimal.NewFromInt(12)), "fee must include the network fee")
	assert.True(t, result.BuyAmount.Equal(decimal.NewFromInt(388)))
	assert.NotEmpty(t, result.RawPayload)
}

func TestFetchQuote_NumbersWithoutQuotes(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"prices":[{
			"fiat_amount": 100,
			"coin_amount": 0.002,
			"fee_amount": 3,
			"network_fee": 0
		}]}}`))
	})

	result, err := adapter.FetchQuote(context.Background(), quoteRequest())
	require.NoError(t, err)
	assert.True(t, result.AmountReceiving.Equal(decimal.RequireFromString("0.002")))
	assert.True(t, result.Fee.Equal(decimal.NewFromInt(3)))
}

func TestFetchQuote_EmptyPrices(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"prices":[]}}`))
	})

	_, err := adapter.FetchQuote(context.Background(), quoteRequest())
	require.Error(t, err)
	assert.Equal(t, apperror.CodeQuoteUnavailable, apperror.GetCode(err))
}

func TestFetchQuote_UpstreamError(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := adapter.FetchQuote(context.Background(), quoteRequest())
	require.Error(t, err)
	assert.Equal(t, apperror.CodeAdapterError, apperror.GetCode(err))
}

func TestFetchLimits(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/payment-methods", r.URL.Path)
		w.Write([]byte(`{"data":{"payment_methods":[{
			"id": 6047,
			"transaction_limits": [
				{"fiat_code": "EUR", "min": "20", "max": "12000"},
				{"fiat_code": "USD", "min": "35", "max": "14000"}
			]
		}]}}`))
	})

	limits, err := adapter.FetchLimits(context.Background(), quoteRequest())
	require.NoError(t, err)
	require.True(t, limits.Known())
	assert.True(t, limits.Min.Equal(decimal.NewFromInt(35)))
	assert.True(t, limits.Max.Equal(decimal.NewFromInt(14000)))
}
