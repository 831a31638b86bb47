package banxa

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

// Adapter fetches Banxa buy quotes. Banxa returns transaction limits
// as a side effect of the payment-methods call, so the adapter also
// implements the dedicated limits fetch.
type Adapter struct {
	client  httpclient.Client
	limiter *ratelimit.Limiter
	breaker *circuitbreaker.Breaker[domain.QuoteResult]
	log     *slog.Logger
}

// New creates the adapter from provider config.
func New(cfg config.ProviderConfig, log *slog.Logger) (*Adapter, error) {
	client, err := httpclient.New(
		httpclient.WithProviderName(string(domain.Banxa)),
		httpclient.WithBaseURL(cfg.BaseURL),
		httpclient.WithHeaders(map[string]string{
			"Authorization": "Bearer " + cfg.APIKey,
		}),
	)
	if err != nil {
		return nil, err
	}

	return &Adapter{
		client:  client,
		limiter: ratelimit.New(cfg.RequestsPerMinute),
		breaker: circuitbreaker.New[domain.QuoteResult](circuitbreaker.DefaultConfig(string(domain.Banxa))),
		log:     log,
	}, nil
}

func (a *Adapter) Key() domain.ProviderKey {
	return domain.Banxa
}

// FetchQuote retrieves a price for the requested amount.
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
		SetQueryParam("source", strings.ToUpper(req.FiatCurrency)).
		SetQueryParam("source_amount", req.Amount.String()).
		SetQueryParam("target", strings.ToUpper(req.Coin)).
		SetQueryParam("blockchain", strings.ToUpper(req.Chain)).
		Get(ctx, "/api/prices")
	if err != nil {
		return domain.QuoteResult{}, apperror.Wrap(err, apperror.CodeAdapterError, "banxa prices")
	}
	if resp.IsError() {
		return domain.QuoteResult{}, apperror.New(apperror.CodeAdapterError,
			apperror.WithProvider(string(domain.Banxa)),
			apperror.WithStatusCode(resp.StatusCode),
			apperror.WithContext("prices returned "+resp.Status))
	}

	var payload pricesResponse
	if err := json.Unmarshal(wire.Unwrap(resp.Body()), &payload); err != nil {
		return domain.QuoteResult{}, apperror.New(apperror.CodeQuoteMalformed,
			apperror.WithProvider(string(domain.Banxa)),
			apperror.WithCause(err))
	}
	if len(payload.Prices) == 0 {
		return domain.QuoteResult{}, apperror.New(apperror.CodeQuoteUnavailable,
			apperror.WithProvider(string(domain.Banxa)),
			apperror.WithContext("empty prices list"))
	}

	best := payload.Prices[0]
	if best.CoinAmount.Zero() || best.FiatAmount.Zero() {
		return domain.QuoteResult{}, apperror.New(apperror.CodeQuoteMalformed,
			apperror.WithProvider(string(domain.Banxa)),
			apperror.WithContext("missing coin_amount or fiat_amount"))
	}

	fee := best.FeeAmount.Add(best.NetworkFee.Decimal)

	return domain.QuoteResult{
		AmountReceiving: best.CoinAmount.Decimal,
		FiatCost:        best.FiatAmount.Decimal,
		BuyAmount:       best.FiatAmount.Sub(fee),
		Fee:             fee,
		UnitPrice:       best.SpotPrice.Decimal,
		RawPayload:      resp.Body(),
	}, nil
}

// FetchLimits pulls the transaction limits off the payment-methods
// endpoint for the request's fiat currency.
func (a *Adapter) FetchLimits(ctx context.Context, req domain.QuoteRequest) (domain.Limits, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return domain.Limits{}, err
	}

	resp, err := a.client.NewRequest().
		SetQueryParam("source", strings.ToUpper(req.FiatCurrency)).
		SetQueryParam("target", strings.ToUpper(req.Coin)).
		Get(ctx, "/api/payment-methods")
	if err != nil {
		return domain.Limits{}, apperror.Wrap(err, apperror.CodeAdapterError, "banxa payment-methods")
	}
	if resp.IsError() {
		return domain.Limits{}, apperror.New(apperror.CodeAdapterError,
			apperror.WithProvider(string(domain.Banxa)),
			apperror.WithStatusCode(resp.StatusCode))
	}

	var payload paymentMethodsResponse
	if err := json.Unmarshal(wire.Unwrap(resp.Body()), &payload); err != nil {
		return domain.Limits{}, apperror.New(apperror.CodeQuoteMalformed,
			apperror.WithProvider(string(domain.Banxa)),
			apperror.WithCause(err))
	}

	fiat := strings.ToUpper(req.FiatCurrency)
	for _, method := range payload.PaymentMethods {
		for _, limit := range method.TransactionLimits {
			if strings.ToUpper(limit.FiatCode) != fiat {
				continue
			}
			limits := domain.Limits{}
			if !limit.Min.Zero() {
				min := limit.Min.Decimal
				limits.Min = &min
			}
			if !limit.Max.Zero() {
				max := limit.Max.Decimal
				limits.Max = &max
			}
			if limits.Known() {
				return limits, nil
			}
		}
	}

	return domain.Limits{}, nil
}
