// Package ramp implements the Ramp Network quote adapter.
package ramp

import "github.com/bitpay/offer-engine/business/offers/infra/wire"

// quoteRequest is the POST body for the quote/all endpoints.
type quoteRequest struct {
	CryptoAssetSymbol string `json:"cryptoAssetSymbol"`
	FiatCurrency      string `json:"fiatCurrency"`
	FiatValue         string `json:"fiatValue,omitempty"`
	CryptoAmount      string `json:"cryptoAmount,omitempty"`
}

// methodQuote is one per-payment-method quote. CryptoAmount is an
// integer base-unit string; Asset.Decimals declares its precision.
type methodQuote struct {
	FiatCurrency string       `json:"fiatCurrency"`
	FiatValue    wire.Decimal `json:"fiatValue"`
	AppliedFee   wire.Decimal `json:"appliedFee"`
	BaseRampFee  wire.Decimal `json:"baseRampFee"`
	CryptoAmount string       `json:"cryptoAmount"`
}

type assetInfo struct {
	Symbol            string       `json:"symbol"`
	Chain             string       `json:"chain"`
	Decimals          uint8        `json:"decimals"`
	MinPurchaseAmount wire.Decimal `json:"minPurchaseAmount"`
	MaxPurchaseAmount wire.Decimal `json:"maxPurchaseAmount"`
}

// quoteResponse keys quotes by Ramp's payment method names alongside
// the asset descriptor.
type quoteResponse struct {
	Asset            assetInfo    `json:"asset"`
	CardPayment      *methodQuote `json:"CARD_PAYMENT"`
	ApplePay         *methodQuote `json:"APPLE_PAY"`
	SEPA             *methodQuote `json:"SEPA_BANK_TRANSFER"`
	AutoBankTransfer *methodQuote `json:"AUTO_BANK_TRANSFER"`
}
