// Package banxa implements the Banxa quote adapter.
package banxa

import "github.com/bitpay/offer-engine/business/offers/infra/wire"

// pricesResponse is the /api/prices payload after envelope unwrap.
type pricesResponse struct {
	Prices []price `json:"prices"`
}

type price struct {
	PaymentMethodID int          `json:"payment_method_id"`
	FiatCode        string       `json:"fiat_code"`
	FiatAmount      wire.Decimal `json:"fiat_amount"`
	CoinCode        string       `json:"coin_code"`
	CoinAmount      wire.Decimal `json:"coin_amount"`
	FeeAmount       wire.Decimal `json:"fee_amount"`
	NetworkFee      wire.Decimal `json:"network_fee"`
	SpotPrice       wire.Decimal `json:"spot_price_including_fee"`
}

// paymentMethodsResponse is the /api/payment-methods payload after
// envelope unwrap. Transaction limits arrive as a side effect here.
type paymentMethodsResponse struct {
	PaymentMethods []paymentMethod `json:"payment_methods"`
}

type paymentMethod struct {
	ID                int                `json:"id"`
	PaymentType       string             `json:"paymentType"`
	TransactionLimits []transactionLimit `json:"transaction_limits"`
}

type transactionLimit struct {
	FiatCode string       `json:"fiat_code"`
	Min      wire.Decimal `json:"min"`
	Max      wire.Decimal `json:"max"`
}
