// Package simplex implements the Simplex quote adapter. Simplex embeds
// business errors in 200 responses; the response error handler turns
// those into typed failures.
package simplex

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

type quoteRequestBody struct {
	EndUserID         string `json:"end_user_id"`
	DigitalCurrency   string `json:"digital_currency"`
	FiatCurrency      string `json:"fiat_currency"`
	RequestedCurrency string `json:"requested_currency"`
	RequestedAmount   string `json:"requested_amount"`
}

type money struct {
	Currency    string       `json:"currency"`
	TotalAmount wire.Decimal `json:"total_amount"`
	BaseAmount  wire.Decimal `json:"base_amount"`
	Amount      wire.Decimal `json:"amount"`
}

type quoteResponse struct {
	QuoteID      string `json:"quote_id"`
	FiatMoney    money  `json:"fiat_money"`
	DigitalMoney money  `json:"digital_money"`
	Error        string `json:"error"`
}

// Adapter fetches Simplex buy and sell quotes.
type Adapter struct {
	client  httpclient.Client
	limiter *ratelimit.Limiter
	breaker *circuitbreaker.Breaker[domain.QuoteResult]
	log     *slog.Logger
}

// New creates the adapter from provider config.
func New(cfg config.ProviderConfig, log *slog.Logger) (*Adapter, error) {
	client, err := httpclient.New(
		httpclient.WithProviderName(string(domain.Simplex)),
		httpclient.WithBaseURL(cfg.BaseURL),
		httpclient.WithHeaders(map[string]string{
			"Authorization": "ApiKey " + cfg.APIKey,
		}),
	)
	if err != nil {
		return nil, err
	}

	return &Adapter{
		client:  client,
		limiter: ratelimit.New(cfg.RequestsPerMinute),
		breaker: circuitbreaker.New[domain.QuoteResult](circuitbreaker.DefaultConfig(string(domain.Simplex))),
		log:     log,
	}, nil
}

func (a *Adapter) Key() domain.ProviderKey {
	return domain.Simplex
}

func (a *Adapter) FetchQuote(ctx context.Context, req domain.QuoteRequest) (domain.QuoteResult, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return domain.QuoteResult{}, err
	}
	return a.breaker.Execute(func() (domain.QuoteResult, error) {
		return a.fetchQuote(ctx, req)
	})
}

// rejectEmbeddedError flags business errors Simplex returns with a 200.
func rejectEmbeddedError(statusCode int, body []byte) error {
	var probe struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(wire.Unwrap(body), &probe); err == nil && probe.Error != "" {
		return apperror.New(apperror.CodeProviderRejected,
			apperror.WithProvider(string(domain.Simplex)),
			apperror.WithContext(probe.Error))
	}
	return nil
}

func (a *Adapter) fetchQuote(ctx context.Context, req domain.QuoteRequest) (domain.QuoteResult, error) {
	// requested_currency declares which side the amount is denominated
	// in: fiat for buys, crypto for sells.
	requested := strings.ToUpper(req.FiatCurrency)
	if req.Side == domain.Sell {
		requested = strings.ToUpper(req.Coin)
	}

	body := quoteRequestBody{
		EndUserID:         req.WalletRef,
		DigitalCurrency:   strings.ToUpper(req.Coin),
		FiatCurrency:      strings.ToUpper(req.FiatCurrency),
		RequestedCurrency: requested,
		RequestedAmount:   req.Amount.String(),
	}

	resp, err := a.client.
		NewRequest(httpclient.WithResponseErrorHandler(rejectEmbeddedError)).
		SetBody(body).
		Post(ctx, "/wallet/merchant/v2/quote")
	if err != nil {
		return domain.QuoteResult{}, apperror.Wrap(err, apperror.CodeAdapterError, "simplex quote")
	}
	if resp.IsError() {
		return domain.QuoteResult{}, apperror.New(apperror.CodeAdapterError,
			apperror.WithProvider(string(domain.Simplex)),
			apperror.WithStatusCode(resp.StatusCode),
			apperror.WithContext("quote returned "+resp.Status))
	}

	var payload quoteResponse
	if err := json.Unmarshal(wire.Unwrap(resp.Body()), &payload); err != nil {
		return domain.QuoteResult{}, apperror.New(apperror.CodeQuoteMalformed,
			apperror.WithProvider(string(domain.Simplex)),
			apperror.WithCause(err))
	}

	if req.Side == domain.Sell {
		if payload.FiatMoney.BaseAmount.Zero() {
			return domain.QuoteResult{}, apperror.New(apperror.CodeQuoteMalformed,
				apperror.WithProvider(string(domain.Simplex)),
				apperror.WithContext("missing fiat_money.base_amount"))
		}
		return domain.QuoteResult{
			AmountReceiving: payload.FiatMoney.BaseAmount.Decimal,
			BuyAmount:       payload.DigitalMoney.Amount.Decimal,
			Fee:             payload.FiatMoney.TotalAmount.Sub(payload.FiatMoney.BaseAmount.Decimal),
			RawPayload:      resp.Body(),
		}, nil
	}

	if payload.DigitalMoney.Amount.Zero() || payload.FiatMoney.TotalAmount.Zero() {
		return domain.QuoteResult{}, apperror.New(apperror.CodeQuoteMalformed,
			apperror.WithProvider(string(domain.Simplex)),
			apperror.WithContext("missing digital_money.amount or fiat_money.total_amount"))
	}

	return domain.QuoteResult{
		AmountReceiving: payload.DigitalMoney.Amount.Decimal,
		FiatCost:        payload.FiatMoney.TotalAmount.Decimal,
		BuyAmount:       payload.FiatMoney.BaseAmount.Decimal,
		Fee:             payload.FiatMoney.TotalAmount.Sub(payload.FiatMoney.BaseAmount.Decimal),
		RawPayload:      resp.Body(),
	}, nil
}
