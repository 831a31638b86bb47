package domain

import "strings"

// AssetSet is a set of supported assets keyed by "coin_chain"
// (lowercase). UTXO coins use their own symbol as chain.
type AssetSet map[string]bool

// AssetKey builds the lookup key for a coin on a chain. A coin without
// an explicit chain keys on the coin alone.
func AssetKey(coin, chain string) string {
	coin = strings.ToLower(coin)
	chain = strings.ToLower(chain)
	if chain == "" || chain == coin {
		return coin
	}
	return coin + "_" + chain
}

// ProviderSupport holds one provider's static capability tables.
// A nil Countries map means the provider serves every country.
type ProviderSupport struct {
	BuyAssets  AssetSet
	SellAssets AssetSet
	Fiats      map[string]bool
	Countries  map[string]bool
}

// SupportsAsset reports whether the provider trades the coin/chain on
// the given side.
func (s ProviderSupport) SupportsAsset(side TradeSide, coin, chain string) bool {
	set := s.BuyAssets
	if side == Sell {
		set = s.SellAssets
	}
	return set[AssetKey(coin, chain)]
}

// SupportsFiat reports whether the provider settles in the fiat currency.
func (s ProviderSupport) SupportsFiat(code string) bool {
	return s.Fiats[strings.ToUpper(code)]
}

// SupportsCountry reports whether the provider serves the country.
func (s ProviderSupport) SupportsCountry(country string) bool {
	if s.Countries == nil {
		return true
	}
	return s.Countries[strings.ToUpper(country)]
}

// SupportTables maps each provider to its capability tables.
type SupportTables map[ProviderKey]ProviderSupport

func assets(keys ...string) AssetSet {
	set := make(AssetSet, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}

func fiats(codes ...string) map[string]bool {
	set := make(map[string]bool, len(codes))
	for _, c := range codes {
		set[c] = true
	}
	return set
}

// DefaultSupportTables returns the shipped per-provider capability
// tables. They are data, not logic: the eligibility filter takes the
// tables as input so deployments can override them.
func DefaultSupportTables() SupportTables {
	commonAssets := []string{
		"btc", "bch", "eth", "doge", "ltc", "xrp",
		"usdc", "usdc_matic", "usdt", "dai",
	}

	return SupportTables{
		Banxa: {
			BuyAssets: assets(append(commonAssets, "pol", "sol", "usdc_sol")...),
			Fiats:     fiats("USD", "EUR", "GBP", "AUD", "CAD"),
		},
		MoonPay: {
			BuyAssets:  assets(append(commonAssets, "pol", "sol", "usdc_sol", "eth_arb", "eth_base", "eth_op", "usdc_arb", "usdc_base", "usdc_op")...),
			SellAssets: assets("btc", "bch", "eth", "doge", "ltc", "usdc"),
			Fiats:      fiats("USD", "EUR", "GBP", "AUD", "CAD", "BRL", "JPY"),
		},
		Ramp: {
			BuyAssets:  assets(append(commonAssets, "pol", "sol", "usdc_sol", "eth_arb", "eth_base", "eth_op", "usdc_arb", "usdc_base", "usdc_op")...),
			SellAssets: assets("btc", "eth", "usdc"),
			Fiats:      fiats("USD", "EUR", "GBP"),
		},
		Sardine: {
			BuyAssets: assets("btc", "eth", "usdc", "usdt", "dai"),
			Fiats:     fiats("USD"),
			Countries: fiats("US"),
		},
		Simplex: {
			BuyAssets:  assets(commonAssets...),
			SellAssets: assets("btc", "eth"),
			Fiats:      fiats("USD", "EUR", "GBP", "JPY"),
		},
		Transak: {
			BuyAssets: assets(append(commonAssets, "pol", "sol", "eth_arb", "eth_base", "eth_op")...),
			Fiats:     fiats("USD", "EUR", "GBP", "AUD", "BRL"),
		},
	}
}
