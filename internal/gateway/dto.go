package gateway

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/bitpay/offer-engine/business/offers/domain"
)

type offerDTO struct {
	Provider        string           `json:"provider"`
	State           string           `json:"state"`
	FiatCurrency    string           `json:"fiatCurrency"`
	FiatAmount      decimal.Decimal  `json:"fiatAmount"`
	AmountReceiving decimal.Decimal  `json:"amountReceiving"`
	BuyAmount       decimal.Decimal  `json:"buyAmount"`
	Fee             decimal.Decimal  `json:"fee"`
	UnitPrice       decimal.Decimal  `json:"unitPrice"`
	LimitMin        *decimal.Decimal `json:"limitMin,omitempty"`
	LimitMax        *decimal.Decimal `json:"limitMax,omitempty"`
	ErrorMessage    string           `json:"errorMessage,omitempty"`
	QuotePayload    json.RawMessage  `json:"quotePayload,omitempty"`
}

type selectedDTO struct {
	Provider        string          `json:"provider"`
	AmountReceiving decimal.Decimal `json:"amountReceiving"`
	FiatAmount      decimal.Decimal `json:"fiatAmount"`
	Fee             decimal.Decimal `json:"fee"`
	Label           string          `json:"label"`
}

type aggregateDTO struct {
	Generation uint64              `json:"generation"`
	Side       string              `json:"side"`
	AllSettled bool                `json:"allSettled"`
	Offers     map[string]offerDTO `json:"offers"`
	Selected   *selectedDTO        `json:"selected,omitempty"`
	Message    string              `json:"message,omitempty"`
}

func toAggregateDTO(a domain.AggregateResult) aggregateDTO {
	out := aggregateDTO{
		Generation: a.Generation,
		Side:       string(a.Side),
		AllSettled: a.AllSettled,
		Offers:     make(map[string]offerDTO, len(a.Offers)),
		Message:    a.Message,
	}
	for key, o := range a.Offers {
		out.Offers[string(key)] = offerDTO{
			Provider:        string(o.Provider),
			State:           string(o.State),
			FiatCurrency:    o.FiatCurrency,
			FiatAmount:      o.FiatAmount,
			AmountReceiving: o.AmountReceiving,
			BuyAmount:       o.BuyAmount,
			Fee:             o.Fee,
			UnitPrice:       o.UnitPrice,
			LimitMin:        o.AmountLimits.Min,
			LimitMax:        o.AmountLimits.Max,
			ErrorMessage:    o.ErrorMessage,
			QuotePayload:    o.QuotePayload,
		}
	}
	if a.Selected != nil {
		out.Selected = &selectedDTO{
			Provider:        string(a.Selected.Provider),
			AmountReceiving: a.Selected.AmountReceiving,
			FiatAmount:      a.Selected.FiatAmount,
			Fee:             a.Selected.Fee,
			Label:           a.Selected.Label,
		}
	}
	return out
}
