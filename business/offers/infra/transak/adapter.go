// Package transak implements the Transak quote adapter.
package transak

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

// priceResponse is the /api/v2/currencies/price payload. Transak wraps
// it in a `response` envelope.
type priceResponse struct {
	Response priceBody `json:"response"`
}

type priceBody struct {
	FiatAmount       wire.Decimal `json:"fiatAmount"`
	TotalFee         wire.Decimal `json:"totalFee"`
	CryptoAmount     wire.Decimal `json:"cryptoAmount"`
	ConversionPrice  wire.Decimal `json:"conversionPrice"`
	FiatCurrency     string       `json:"fiatCurrency"`
	CryptoCurrency   string       `json:"cryptoCurrency"`
}

var networkNames = map[string]string{
	"btc":   "mainnet",
	"eth":   "ethereum",
	"arb":   "arbitrum",
	"base":  "base",
	"op":    "optimism",
	"matic": "polygon",
	"sol":   "solana",
}

var methodNames = map[domain.PaymentMethodKey]string{
	domain.MethodCreditCard:       "credit_debit_card",
	domain.MethodDebitCard:        "credit_debit_card",
	domain.MethodApplePay:         "apple_pay",
	domain.MethodGooglePay:        "google_pay",
	domain.MethodPix:              "pm_pix",
	domain.MethodSEPABankTransfer: "sepa_bank_transfer",
}

// Adapter fetches Transak buy quotes.
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
		httpclient.WithProviderName(string(domain.Transak)),
		httpclient.WithBaseURL(cfg.BaseURL),
	)
	if err != nil {
		return nil, err
	}

	return &Adapter{
		apiKey:  cfg.APIKey,
		client:  client,
		limiter: ratelimit.New(cfg.RequestsPerMinute),
		breaker: circuitbreaker.New[domain.QuoteResult](circuitbreaker.DefaultConfig(string(domain.Transak))),
		log:     log,
	}, nil
}

func (a *Adapter) Key() domain.ProviderKey {
	return domain.Transak
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
		SetQueryParam("partnerApiKey", a.apiKey).
		SetQueryParam("fiatCurrency", strings.ToUpper(req.FiatCurrency)).
		SetQueryParam("cryptoCurrency", strings.ToUpper(req.Coin)).
		SetQueryParam("network", network(req.Chain)).
		SetQueryParam("paymentMethod", methodName(req.PaymentMethod)).
		SetQueryParam("isBuyOrSell", "BUY").
		SetQueryParam("fiatAmount", req.Amount.String()).
		Get(ctx, "/api/v2/currencies/price")
	if err != nil {
		return domain.QuoteResult{}, apperror.Wrap(err, apperror.CodeAdapterError, "transak price")
	}
	if resp.IsError() {
		return domain.QuoteResult{}, apperror.New(apperror.CodeAdapterError,
			apperror.WithProvider(string(domain.Transak)),
			apperror.WithStatusCode(resp.StatusCode),
			apperror.WithContext("price returned "+resp.Status))
	}

	var payload priceResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return domain.QuoteResult{}, apperror.New(apperror.CodeQuoteMalformed,
			apperror.WithProvider(string(domain.Transak)),
			apperror.WithCause(err))
	}

	body := payload.Response
	if body.CryptoAmount.Zero() {
		// tolerate a bare, unenveloped body too
		if err := json.Unmarshal(wire.Unwrap(resp.Body()), &body); err != nil || body.CryptoAmount.Zero() {
			return domain.QuoteResult{}, apperror.New(apperror.CodeQuoteMalformed,
				apperror.WithProvider(string(domain.Transak)),
				apperror.WithContext("missing cryptoAmount"))
		}
	}

	return domain.QuoteResult{
		AmountReceiving: body.CryptoAmount.Decimal,
		FiatCost:        body.FiatAmount.Decimal,
		BuyAmount:       body.FiatAmount.Sub(body.TotalFee.Decimal),
		Fee:             body.TotalFee.Decimal,
		UnitPrice:       body.ConversionPrice.Decimal,
		RawPayload:      resp.Body(),
	}, nil
}

func network(chain string) string {
	if name, ok := networkNames[strings.ToLower(chain)]; ok {
		return name
	}
	return strings.ToLower(chain)
}

func methodName(key domain.PaymentMethodKey) string {
	if name, ok := methodNames[key]; ok {
		return name
	}
	return "credit_debit_card"
}
