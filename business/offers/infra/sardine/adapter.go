// Package sardine implements the Sardine quote adapter.
package sardine

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/bitpay/offer-engine/business/offers/domain"
	"github.com/bitpay/offer-engine/business/offers/infra/wire"
	"github.com/bitpay/offer-engine/internal/apperror"
	"github.com/bitpay/offer-engine/internal/circuitbreaker"
	"github.com/bitpay/offer-engine/internal/config"
	"github.com/bitpay/offer-engine/internal/httpclient"
	"github.com/bitpay/offer-engine/internal/ratelimit"
)

// quoteResponse is the /v1/quotes payload. Subtotal is the fiat
// exchanged before fees; Total includes them.
type quoteResponse struct {
	AssetType string       `json:"assetType"`
	Network   string       `json:"network"`
	Quantity  wire.Decimal `json:"quantity"`
	Total     wire.Decimal `json:"total"`
	Subtotal  wire.Decimal `json:"subtotal"`
	Price     wire.Decimal `json:"price"`
}

var networkNames = map[string]string{
	"btc":   "bitcoin",
	"eth":   "ethereum",
	"matic": "polygon",
	"sol":   "solana",
}

// Adapter fetches Sardine buy quotes.
type Adapter struct {
	client  httpclient.Client
	limiter *ratelimit.Limiter
	breaker *circuitbreaker.Breaker[domain.QuoteResult]
	log     *slog.Logger
}

// New creates the adapter from provider config.
func New(cfg config.ProviderConfig, log *slog.Logger) (*Adapter, error) {
	client, err := httpclient.New(
		httpclient.WithProviderName(string(domain.Sardine)),
		httpclient.WithBaseURL(cfg.BaseURL),
		httpclient.WithHeaders(map[string]string{
			"Authorization": "Basic " + cfg.APIKey,
		}),
	)
	if err != nil {
		return nil, err
	}

	return &Adapter{
		client:  client,
		limiter: ratelimit.New(cfg.RequestsPerMinute),
		breaker: circuitbreaker.New[domain.QuoteResult](circuitbreaker.DefaultConfig(string(domain.Sardine))),
		log:     log,
	}, nil
}

func (a *Adapter) Key() domain.ProviderKey {
	return domain.Sardine
}

func (a *Adapter) FetchQuote(ctx context.Context, req domain.QuoteRequest) (domain.QuoteResult, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return domain.QuoteResult{}, err
	}
	return a.breaker.Execute(func() (domain.QuoteResult, error) {
		return a.fetchQuote(ctx, req)
	})
}

func (a *Adapter) fetchQuote(ctx context.Context, req domain.QuoteRequest) (domain.QuoteResult, error) {
	resp, err := a.client.NewRequest().
		SetQueryParam("asset_type", strings.ToUpper(req.Coin)).
		SetQueryParam("network", network(req.Chain)).
		SetQueryParam("total", req.Amount.String()).
		SetQueryParam("currency", strings.ToUpper(req.FiatCurrency)).
		SetQueryParam("paymentType", paymentType(req.PaymentMethod)).
		Get(ctx, "/v1/quotes")
	if err != nil {
		return domain.QuoteResult{}, apperror.Wrap(err, apperror.CodeAdapterError, "sardine quotes")
	}
	if resp.IsError() {
		return domain.QuoteResult{}, apperror.New(apperror.CodeAdapterError,
			apperror.WithProvider(string(domain.Sardine)),
			apperror.WithStatusCode(resp.StatusCode),
			apperror.WithContext("quotes returned "+resp.Status))
	}

	var payload quoteResponse
	if err := json.Unmarshal(wire.Unwrap(resp.Body()), &payload); err != nil {
		return domain.QuoteResult{}, apperror.New(apperror.CodeQuoteMalformed,
			apperror.WithProvider(string(domain.Sardine)),
			apperror.WithCause(err))
	}

	if payload.Quantity.Zero() || payload.Total.Zero() {
		return domain.QuoteResult{}, apperror.New(apperror.CodeQuoteMalformed,
			apperror.WithProvider(string(domain.Sardine)),
			apperror.WithContext("missing quantity or total"))
	}

	return domain.QuoteResult{
		AmountReceiving: payload.Quantity.Decimal,
		FiatCost:        payload.Total.Decimal,
		BuyAmount:       payload.Subtotal.Decimal,
		Fee:             payload.Total.Sub(payload.Subtotal.Decimal),
		UnitPrice:       payload.Price.Decimal,
		RawPayload:      resp.Body(),
	}, nil
}

func network(chain string) string {
	if name, ok := networkNames[strings.ToLower(chain)]; ok {
		return name
	}
	return strings.ToLower(chain)
}

func paymentType(key domain.PaymentMethodKey) string {
	switch key {
	case domain.MethodACH:
		return "ach"
	case domain.MethodApplePay:
		return "apple_pay"
	case domain.MethodGooglePay:
		return "google_pay"
	default:
		return "debit"
	}
}
