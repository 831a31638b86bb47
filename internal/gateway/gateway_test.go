package gateway

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitpay/offer-engine/business/offers/app"
	"github.com/bitpay/offer-engine/business/offers/domain"
	"github.com/bitpay/offer-engine/internal/apperror"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

type identityRates struct{}

func (identityRates) AltFiatToUSD(amount decimal.Decimal, fiatCode string) (decimal.Decimal, error) {
	return amount, nil
}

func (identityRates) USDToAltFiat(amount decimal.Decimal, fiatCode string) (decimal.Decimal, error) {
	return amount, nil
}

type emptyConfig struct{}

func (emptyConfig) GetProviderConfig() domain.ConfigSnapshot { return nil }

func newTestServer(t *testing.T) *Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	orch := app.NewOrchestrator(
		app.OrchestratorConfig{SettleGrace: 50 * time.Millisecond, RequestTimeout: time.Second},
		nil,
		app.NewEligibilityFilter(domain.DefaultSupportTables()),
		app.NewLimitValidator(identityRates{}, log),
		app.NewReconciler(log),
		emptyConfig{},
		log,
	)
	return NewServer(0, orch, log)
}

func do(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleRequest(t *testing.T) {
	s := newTestServer(t)

	rec := do(s, http.MethodPost, "/v1/offers", `{
		"side": "buy",
		"amount": "400",
		"fiatCurrency": "USD",
		"coin": "BTC",
		"chain": "BTC",
		"country": "US",
		"paymentMethod": "debitCard",
		"walletRef": "wallet-1"
	}`)

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, float64(1), decodeBody(t, rec)["generation"])
}

func TestHandleRequest_BadAmount(t *testing.T) {
	s := newTestServer(t)

	rec := do(s, http.MethodPost, "/v1/offers", `{"side": "buy", "amount": "four hundred"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(apperror.CodeInvalidInput), decodeBody(t, rec)["code"])
}

func TestHandleCurrent(t *testing.T) {
	s := newTestServer(t)

	do(s, http.MethodPost, "/v1/offers", `{"side": "buy", "amount": "0"}`)

	rec := do(s, http.MethodGet, "/v1/offers/current", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["generation"])
	assert.Equal(t, true, body["allSettled"])
}

func TestHandleCancel(t *testing.T) {
	s := newTestServer(t)

	do(s, http.MethodPost, "/v1/offers", `{"side": "buy", "amount": "0"}`)

	rec := do(s, http.MethodDelete, "/v1/offers/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// generation 1 is now superseded
	rec = do(s, http.MethodDelete, "/v1/offers/1", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, string(apperror.CodeGenerationSuperseded), decodeBody(t, rec)["code"])

	rec = do(s, http.MethodDelete, "/v1/offers/notanumber", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
