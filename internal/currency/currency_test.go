package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromBaseUnits(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		decimals uint8
		want     string
		wantErr  bool
	}{
		{name: "wei to eth", raw: "144950000000000000", decimals: 18, want: "0.14495"},
		{name: "satoshi to btc", raw: "812000", decimals: 8, want: "0.00812"},
		{name: "usdc base units", raw: "250000000", decimals: 6, want: "250"},
		{name: "zero", raw: "0", decimals: 18, want: "0"},
		{name: "garbage", raw: "not-a-number", decimals: 8, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromBaseUnits(tt.raw, tt.decimals)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got, tt.want)
		})
	}
}

func TestToBaseUnits(t *testing.T) {
	amt := decimal.RequireFromString("0.00812")
	assert.Equal(t, "812000", ToBaseUnits(amt, 8))

	// fractional base units are truncated
	amt = decimal.RequireFromString("0.000000001")
	assert.Equal(t, "0", ToBaseUnits(amt, 6))
}

func TestRegistryLookup(t *testing.T) {
	r := DefaultRegistry()

	c, ok := r.Lookup("eth", "arb")
	require.True(t, ok)
	assert.Equal(t, uint8(18), c.Decimals())

	// sole-entry fallback when chain is unknown
	c, ok = r.Lookup("doge", "")
	require.True(t, ok)
	assert.Equal(t, "Dogecoin", c.Name())

	// usdc exists on many chains, no fallback possible
	_, ok = r.Lookup("usdc", "")
	assert.False(t, ok)

	assert.Equal(t, uint8(8), r.Decimals("btc", "btc", 18))
	assert.Equal(t, uint8(18), r.Decimals("unknown", "", 18))
}
