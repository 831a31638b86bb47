package moonpay

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

// chainSuffixes maps the engine's chain names to MoonPay currency code
// suffixes for coins that exist on several networks.
var chainSuffixes = map[string]string{
	"arb":   "_arbitrum",
	"base":  "_base",
	"op":    "_optimism",
	"matic": "_polygon",
	"sol":   "_sol",
}

var methodNames = map[domain.PaymentMethodKey]string{
	domain.MethodACH:              "ach_bank_transfer",
	domain.MethodCreditCard:       "credit_debit_card",
	domain.MethodDebitCard:        "credit_debit_card",
	domain.MethodSEPABankTransfer: "sepa_bank_transfer",
	domain.MethodApplePay:         "mobile_wallet",
	domain.MethodGooglePay:        "mobile_wallet",
	domain.MethodPix:              "pix_instant_payment",
	domain.MethodPayPal:           "paypal",
	domain.MethodVenmo:            "venmo",
}

// Adapter fetches MoonPay buy and sell quotes.
type Adapter struct {
	apiKey  string
	client  httpclient.Client
	limiter *ratelimit.Limiter
	breaker *circuitbreaker.Breaker[domain.QuoteResult]
	log     *slog.Logger
}

// New creates the adapter from provider config.
func New(cfg config.ProviderConfig, log *slog.Logger) (*Adapter, error) {
	client, err := httpclient.New(
		httpclient.WithProviderName(string(domain.MoonPay)),
		httpclient.WithBaseURL(cfg.BaseURL),
	)
	if err != nil {
		return nil, err
	}

	return &Adapter{
		apiKey:  cfg.APIKey,
		client:  client,
		limiter: ratelimit.New(cfg.RequestsPerMinute),
		breaker: circuitbreaker.New[domain.QuoteResult](circuitbreaker.DefaultConfig(string(domain.MoonPay))),
		log:     log,
	}, nil
}

func (a *Adapter) Key() domain.ProviderKey {
	return domain.MoonPay
}

func (a *Adapter) FetchQuote(ctx context.Context, req domain.QuoteRequest) (domain.QuoteResult, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return domain.QuoteResult{}, err
	}
	return a.breaker.Execute(func() (domain.QuoteResult, error) {
		if req.Side == domain.Sell {
			return a.fetchSellQuote(ctx, req)
		}
		return a.fetchBuyQuote(ctx, req)
	})
}

func (a *Adapter) fetchBuyQuote(ctx context.Context, req domain.QuoteRequest) (domain.QuoteResult, error) {
	resp, err := a.client.NewRequest().
		SetQueryParam("apiKey", a.apiKey).
		SetQueryParam("baseCurrencyCode", strings.ToLower(req.FiatCurrency)).
		SetQueryParam("baseCurrencyAmount", req.Amount.String()).
		SetQueryParam("paymentMethod", methodName(req.PaymentMethod)).
		Get(ctx, "/v3/currencies/"+currencyCode(req.Coin, req.Chain)+"/buy_quote")
	if err != nil {
		return domain.QuoteResult{}, apperror.Wrap(err, apperror.CodeAdapterError, "moonpay buy_quote")
	}

	var payload buyQuoteResponse
	if err := json.Unmarshal(wire.Unwrap(resp.Body()), &payload); err != nil {
		return domain.QuoteResult{}, apperror.New(apperror.CodeQuoteMalformed,
			apperror.WithProvider(string(domain.MoonPay)),
			apperror.WithCause(err))
	}

	if resp.IsError() || payload.Message != "" {
		return domain.QuoteResult{}, apperror.New(apperror.CodeProviderRejected,
			apperror.WithProvider(string(domain.MoonPay)),
			apperror.WithStatusCode(resp.StatusCode),
			apperror.WithContext(payload.Message))
	}

	if payload.QuoteCurrencyAmount.Zero() {
		return domain.QuoteResult{}, apperror.New(apperror.CodeQuoteMalformed,
			apperror.WithProvider(string(domain.MoonPay)),
			apperror.WithContext("missing quoteCurrencyAmount"))
	}

	fee := payload.FeeAmount.
		Add(payload.ExtraFeeAmount.Decimal).
		Add(payload.NetworkFeeAmount.Decimal)

	return domain.QuoteResult{
		AmountReceiving: payload.QuoteCurrencyAmount.Decimal,
		FiatCost:        payload.TotalAmount.Decimal,
		BuyAmount:       payload.BaseCurrencyAmount.Decimal,
		Fee:             fee,
		UnitPrice:       payload.QuoteCurrencyPrice.Decimal,
		RawPayload:      resp.Body(),
	}, nil
}

func (a *Adapter) fetchSellQuote(ctx context.Context, req domain.QuoteRequest) (domain.QuoteResult, error) {
	resp, err := a.client.NewRequest().
		SetQueryParam("apiKey", a.apiKey).
		SetQueryParam("quoteCurrencyCode", strings.ToLower(req.FiatCurrency)).
		SetQueryParam("baseCurrencyAmount", req.Amount.String()).
		SetQueryParam("payoutMethod", methodName(req.PaymentMethod)).
		Get(ctx, "/v3/currencies/"+currencyCode(req.Coin, req.Chain)+"/sell_quote")
	if err != nil {
		return domain.QuoteResult{}, apperror.Wrap(err, apperror.CodeAdapterError, "moonpay sell_quote")
	}

	var payload sellQuoteResponse
	if err := json.Unmarshal(wire.Unwrap(resp.Body()), &payload); err != nil {
		return domain.QuoteResult{}, apperror.New(apperror.CodeQuoteMalformed,
			apperror.WithProvider(string(domain.MoonPay)),
			apperror.WithCause(err))
	}

	if resp.IsError() || payload.Message != "" {
		return domain.QuoteResult{}, apperror.New(apperror.CodeProviderRejected,
			apperror.WithProvider(string(domain.MoonPay)),
			apperror.WithStatusCode(resp.StatusCode),
			apperror.WithContext(payload.Message))
	}

	if payload.QuoteCurrencyAmount.Zero() {
		return domain.QuoteResult{}, apperror.New(apperror.CodeQuoteMalformed,
			apperror.WithProvider(string(domain.MoonPay)),
			apperror.WithContext("missing quoteCurrencyAmount"))
	}

	return domain.QuoteResult{
		AmountReceiving: payload.QuoteCurrencyAmount.Decimal,
		BuyAmount:       payload.BaseCurrencyAmount.Decimal,
		Fee:             payload.FeeAmount.Add(payload.ExtraFeeAmount.Decimal),
		UnitPrice:       payload.QuoteCurrencyPrice.Decimal,
		RawPayload:      resp.Body(),
	}, nil
}

func currencyCode(coin, chain string) string {
	coin = strings.ToLower(coin)
	if suffix, ok := chainSuffixes[strings.ToLower(chain)]; ok {
		return coin + suffix
	}
	return coin
}

func methodName(key domain.PaymentMethodKey) string {
	if name, ok := methodNames[key]; ok {
		return name
	}
	return "credit_debit_card"
}
