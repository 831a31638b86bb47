package simplex

import (
	"context"
	"encoding/json"
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

func buyQuoteRequest() domain.QuoteRequest {
	return domain.QuoteRequest{
		Side:         domain.Buy,
		Amount:       decimal.NewFromInt(400),
		FiatCurrency: "USD",
		Coin:         "BTC",
		Chain:        "BTC",
		WalletRef:    "wallet-123",
	}
}

func TestFetchQuote_Buy(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wallet/merchant/v2/quote", r.URL.Path)

		var body quoteRequestBody
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "wallet-123", body.EndUserID)
		assert.Equal(t, "BTC", body.DigitalCurrency)
		assert.Equal(t, "USD", body.FiatCurrency)
		assert.Equal(t, "USD", body.RequestedCurrency, "buy amounts are denominated in fiat")
		assert.Equal(t, "400", body.RequestedAmount)

		w.Write([]byte(`{
			"quote_id": "q-1",
			"fiat_money": {"currency": "USD", "total_amount": 400, "base_amount": 380},
			"digital_money": {"currency": "BTC", "amount": 0.0081}
		}`))
	})

	result, err := adapter.FetchQuote(context.Background(), buyQuoteRequest())
	require.NoError(t, err)
	assert.True(t, result.AmountReceiving.Equal(decimal.RequireFromString("0.0081")))
	assert.True(t, result.FiatCost.Equal(decimal.NewFromInt(400)))
	assert.True(t, result.BuyAmount.Equal(decimal.NewFromInt(380)))
	assert.True(t, result.Fee.Equal(decimal.NewFromInt(20)))
}

func TestFetchQuote_Sell(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		var body quoteRequestBody
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "BTC", body.RequestedCurrency, "sell amounts are denominated in crypto")

		w.Write([]byte(`{
			"quote_id": "q-2",
			"fiat_money": {"currency": "USD", "total_amount": 400, "base_amount": 392},
			"digital_money": {"currency": "BTC", "amount": 0.0081}
		}`))
	})

	req := buyQuoteRequest()
	req.Side = domain.Sell
	req.Amount = decimal.RequireFromString("0.0081")

	result, err := adapter.FetchQuote(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, result.AmountReceiving.Equal(decimal.NewFromInt(392)))
	assert.True(t, result.Fee.Equal(decimal.NewFromInt(8)))
}

func TestFetchQuote_ErrorEmbeddedIn200(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": "Amount is below the minimum"}`))
	})

	_, err := adapter.FetchQuote(context.Background(), buyQuoteRequest())
	require.Error(t, err)
	assert.Equal(t, apperror.CodeProviderRejected, apperror.GetCode(err))
}

func TestFetchQuote_MissingAmounts(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quote_id": "q-3", "fiat_money": {}, "digital_money": {}}`))
	})

	_, err := adapter.FetchQuote(context.Background(), buyQuoteRequest())
	require.Error(t, err)
	assert.Equal(t, apperror.CodeQuoteMalformed, apperror.GetCode(err))
}
