// Package moonpay implements the MoonPay buy and sell quote adapter.
package moonpay

import "github.com/bitpay/offer-engine/business/offers/infra/wire"

// buyQuoteResponse is /v3/currencies/{code}/buy_quote.
type buyQuoteResponse struct {
	TotalAmount         wire.Decimal `json:"totalAmount"`
	BaseCurrencyAmount  wire.Decimal `json:"baseCurrencyAmount"`
	QuoteCurrencyAmount wire.Decimal `json:"quoteCurrencyAmount"`
	QuoteCurrencyPrice  wire.Decimal `json:"quoteCurrencyPrice"`
	FeeAmount           wire.Decimal `json:"feeAmount"`
	ExtraFeeAmount      wire.Decimal `json:"extraFeeAmount"`
	NetworkFeeAmount    wire.Decimal `json:"networkFeeAmount"`
	Message             string       `json:"message"`
}

// sellQuoteResponse is /v3/currencies/{code}/sell_quote. Base currency
// is the crypto being sold; quote currency is the fiat paid out.
type sellQuoteResponse struct {
	BaseCurrencyAmount  wire.Decimal `json:"baseCurrencyAmount"`
	QuoteCurrencyAmount wire.Decimal `json:"quoteCurrencyAmount"`
	QuoteCurrencyPrice  wire.Decimal `json:"quoteCurrencyPrice"`
	FeeAmount           wire.Decimal `json:"feeAmount"`
	ExtraFeeAmount      wire.Decimal `json:"extraFeeAmount"`
	Message             string       `json:"message"`
}
