package ramp

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bitpay/offer-engine/business/offers/domain"
	"github.com/bitpay/offer-engine/business/offers/infra/wire"
	"github.com/bitpay/offer-engine/internal/apperror"
	"github.com/bitpay/offer-engine/internal/circuitbreaker"
	"github.com/bitpay/offer-engine/internal/config"
	"github.com/bitpay/offer-engine/internal/currency"
	"github.com/bitpay/offer-engine/internal/httpclient"
	"github.com/bitpay/offer-engine/internal/ratelimit"
)

// Adapter fetches Ramp on/off-ramp quotes. Ramp quotes crypto amounts
// in integer base units; conversion to decimal happens here, at the
// boundary, using the asset's declared precision. Purchase limits
// arrive as a quote side effect.
type Adapter struct {
	apiKey     string
	client     httpclient.Client
	limiter    *ratelimit.Limiter
	breaker    *circuitbreaker.Breaker[domain.QuoteResult]
	currencies *currency.Registry
	log        *slog.Logger
}

// New creates the adapter from provider config.
func New(cfg config.ProviderConfig, currencies *currency.Registry, log *slog.Logger) (*Adapter, error) {
	client, err := httpclient.New(
		httpclient.WithProviderName(string(domain.Ramp)),
		httpclient.WithBaseURL(cfg.BaseURL),
	)
	if err != nil {
		return nil, err
	}

	return &Adapter{
		apiKey:     cfg.APIKey,
		client:     client,
		limiter:    ratelimit.New(cfg.RequestsPerMinute),
		breaker:    circuitbreaker.New[domain.QuoteResult](circuitbreaker.DefaultConfig(string(domain.Ramp))),
		currencies: currencies,
		log:        log,
	}, nil
}

func (a *Adapter) Key() domain.ProviderKey {
	return domain.Ramp
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
	path := "/host-api/v3/onramp/quote/all"
	body := quoteRequest{
		CryptoAssetSymbol: assetSymbol(req.Coin, req.Chain),
		FiatCurrency:      strings.ToUpper(req.FiatCurrency),
	}
	if req.Side == domain.Sell {
		path = "/host-api/v3/offramp/quote/all"
		decimals := a.currencies.Decimals(req.Coin, req.Chain, 18)
		body.CryptoAmount = currency.ToBaseUnits(req.Amount, decimals)
	} else {
		body.FiatValue = req.Amount.String()
	}

	resp, err := a.client.NewRequest().
		SetQueryParam("hostApiKey", a.apiKey).
		SetBody(body).
		Post(ctx, path)
	if err != nil {
		return domain.QuoteResult{}, apperror.Wrap(err, apperror.CodeAdapterError, "ramp quote")
	}
	if resp.IsError() {
		return domain.QuoteResult{}, apperror.New(apperror.CodeAdapterError,
			apperror.WithProvider(string(domain.Ramp)),
			apperror.WithStatusCode(resp.StatusCode),
			apperror.WithContext("quote returned "+resp.Status))
	}

	var payload quoteResponse
	if err := json.Unmarshal(wire.Unwrap(resp.Body()), &payload); err != nil {
		return domain.QuoteResult{}, apperror.New(apperror.CodeQuoteMalformed,
			apperror.WithProvider(string(domain.Ramp)),
			apperror.WithCause(err))
	}

	quote := payload.forMethod(req.PaymentMethod)
	if quote == nil {
		return domain.QuoteResult{}, apperror.New(apperror.CodeQuoteUnavailable,
			apperror.WithProvider(string(domain.Ramp)),
			apperror.WithContext("no quote for payment method"))
	}

	limits := domain.Limits{}
	if !payload.Asset.MinPurchaseAmount.Zero() {
		min := payload.Asset.MinPurchaseAmount.Decimal
		limits.Min = &min
	}
	if !payload.Asset.MaxPurchaseAmount.Zero() {
		max := payload.Asset.MaxPurchaseAmount.Decimal
		limits.Max = &max
	}

	if req.Side == domain.Sell {
		received := quote.FiatValue.Sub(quote.AppliedFee.Decimal)
		if !received.IsPositive() {
			return domain.QuoteResult{}, apperror.New(apperror.CodeQuoteMalformed,
				apperror.WithProvider(string(domain.Ramp)),
				apperror.WithContext("missing fiatValue"))
		}
		return domain.QuoteResult{
			AmountReceiving: received,
			BuyAmount:       quote.FiatValue.Decimal,
			Fee:             quote.AppliedFee.Decimal,
			Limits:          limits,
			RawPayload:      resp.Body(),
		}, nil
	}

	decimals := payload.Asset.Decimals
	if decimals == 0 {
		decimals = a.currencies.Decimals(req.Coin, req.Chain, 18)
	}
	received, err := currency.FromBaseUnits(quote.CryptoAmount, decimals)
	if err != nil || !received.IsPositive() {
		return domain.QuoteResult{}, apperror.New(apperror.CodeQuoteMalformed,
			apperror.WithProvider(string(domain.Ramp)),
			apperror.WithContext("bad cryptoAmount"),
			apperror.WithCause(err))
	}

	var unitPrice decimal.Decimal
	if !received.IsZero() {
		unitPrice = quote.FiatValue.Sub(quote.AppliedFee.Decimal).Div(received)
	}

	return domain.QuoteResult{
		AmountReceiving: received,
		FiatCost:        quote.FiatValue.Decimal,
		BuyAmount:       quote.FiatValue.Sub(quote.AppliedFee.Decimal),
		Fee:             quote.AppliedFee.Decimal,
		UnitPrice:       unitPrice,
		Limits:          limits,
		RawPayload:      resp.Body(),
	}, nil
}

func (r *quoteResponse) forMethod(key domain.PaymentMethodKey) *methodQuote {
	switch key {
	case domain.MethodApplePay:
		return r.ApplePay
	case domain.MethodSEPABankTransfer:
		return r.SEPA
	case domain.MethodACH:
		return r.AutoBankTransfer
	default:
		return r.CardPayment
	}
}

// assetSymbol builds Ramp's CHAIN_COIN symbol, e.g. BTC_BTC, ETH_ETH,
// MATIC_USDC.
func assetSymbol(coin, chain string) string {
	coin = strings.ToUpper(coin)
	chain = strings.ToUpper(chain)
	if chain == "" {
		chain = coin
	}
	return chain + "_" + coin
}
