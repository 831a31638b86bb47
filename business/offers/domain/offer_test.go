package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAssetKey(t *testing.T) {
	tests := []struct {
		coin  string
		chain string
		want  string
	}{
		{coin: "BTC", chain: "BTC", want: "btc"},
		{coin: "BTC", chain: "", want: "btc"},
		{coin: "USDC", chain: "matic", want: "usdc_matic"},
		{coin: "ETH", chain: "arb", want: "eth_arb"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AssetKey(tt.coin, tt.chain))
	}
}

func TestLimitsViolates(t *testing.T) {
	min := decimal.NewFromInt(30)
	max := decimal.NewFromInt(300)

	full := Limits{Min: &min, Max: &max}
	assert.True(t, full.Violates(decimal.NewFromInt(20)))
	assert.True(t, full.Violates(decimal.NewFromInt(400)))
	assert.False(t, full.Violates(decimal.NewFromInt(30)))
	assert.False(t, full.Violates(decimal.NewFromInt(300)))

	// unknown bounds never reject
	assert.False(t, Limits{}.Violates(decimal.NewFromInt(1_000_000)))
	assert.False(t, Limits{Min: &min}.Violates(decimal.NewFromInt(1_000_000)))
}

func TestSelectionLabel(t *testing.T) {
	assert.Equal(t, "Banxa using Debit Card", SelectionLabel(Banxa, Buy, MethodDebitCard))
	assert.Equal(t, "MoonPay paid to ACH Bank Transfer", SelectionLabel(MoonPay, Sell, MethodACH))
	assert.Equal(t, "Simplex using Credit Card", SelectionLabel(Simplex, Buy, MethodCreditCard))
}

func TestOfferTransitions(t *testing.T) {
	req := QuoteRequest{Side: Buy, Amount: decimal.NewFromInt(400), FiatCurrency: "USD"}

	pending := NewPendingOffer(Banxa, req)
	assert.Equal(t, StatePending, pending.State)
	assert.False(t, pending.State.Terminal())

	quoted := pending.Quoted(QuoteResult{
		AmountReceiving: decimal.RequireFromString("0.008"),
		FiatCost:        decimal.NewFromInt(400),
		Fee:             decimal.NewFromInt(12),
	})
	assert.Equal(t, StateQuoted, quoted.State)
	assert.True(t, quoted.State.Terminal())
	assert.Equal(t, StatePending, pending.State, "transitions copy, never mutate")

	errored := pending.Errored("boom")
	assert.Equal(t, StateErrored, errored.State)
	assert.Equal(t, "boom", errored.ErrorMessage)

	outOfLimit := pending.OutOfLimit(NewLimits(decimal.NewFromInt(30), decimal.NewFromInt(300)))
	assert.Equal(t, StateOutOfLimit, outOfLimit.State)
	assert.True(t, outOfLimit.AmountLimits.Known())
}
