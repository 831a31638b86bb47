package currency

// Chain names
const (
	ChainBitcoin     = "btc"
	ChainBitcoinCash = "bch"
	ChainEthereum    = "eth"
	ChainArbitrum    = "arb"
	ChainBase        = "base"
	ChainOptimism    = "op"
	ChainPolygon     = "matic"
	ChainSolana      = "sol"
	ChainDogecoin    = "doge"
	ChainLitecoin    = "ltc"
	ChainRipple      = "xrp"
)

// Well-known crypto currencies.
var (
	BTC  = New(NewID("btc", ChainBitcoin), "Bitcoin", 8)
	BCH  = New(NewID("bch", ChainBitcoinCash), "Bitcoin Cash", 8)
	ETH  = New(NewID("eth", ChainEthereum), "Ethereum", 18)
	DOGE = New(NewID("doge", ChainDogecoin), "Dogecoin", 8)
	LTC  = New(NewID("ltc", ChainLitecoin), "Litecoin", 8)
	XRP  = New(NewID("xrp", ChainRipple), "XRP", 6)
	SOL  = New(NewID("sol", ChainSolana), "Solana", 9)
	POL  = New(NewID("pol", ChainPolygon), "Polygon", 18)

	ETHArb  = New(NewID("eth", ChainArbitrum), "Ethereum (Arbitrum)", 18)
	ETHBase = New(NewID("eth", ChainBase), "Ethereum (Base)", 18)
	ETHOp   = New(NewID("eth", ChainOptimism), "Ethereum (Optimism)", 18)

	USDC      = New(NewID("usdc", ChainEthereum), "USD Coin", 6)
	USDCArb   = New(NewID("usdc", ChainArbitrum), "USD Coin (Arbitrum)", 6)
	USDCBase  = New(NewID("usdc", ChainBase), "USD Coin (Base)", 6)
	USDCOp    = New(NewID("usdc", ChainOptimism), "USD Coin (Optimism)", 6)
	USDCMatic = New(NewID("usdc", ChainPolygon), "USD Coin (Polygon)", 6)
	USDCSol   = New(NewID("usdc", ChainSolana), "USD Coin (Solana)", 6)

	USDT = New(NewID("usdt", ChainEthereum), "Tether USD", 6)
	DAI  = New(NewID("dai", ChainEthereum), "Dai", 18)
	WBTC = New(NewID("wbtc", ChainEthereum), "Wrapped Bitcoin", 8)
	SHIB = New(NewID("shib", ChainEthereum), "Shiba Inu", 18)
	APE  = New(NewID("ape", ChainEthereum), "ApeCoin", 18)
)

// Well-known fiat currencies.
var (
	USD = NewFiat("usd", "US Dollar")
	EUR = NewFiat("eur", "Euro")
	GBP = NewFiat("gbp", "Pound Sterling")
)

// DefaultRegistry returns a registry pre-populated with the currencies
// the engine quotes.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	for _, c := range []*Currency{
		BTC, BCH, ETH, DOGE, LTC, XRP, SOL, POL,
		ETHArb, ETHBase, ETHOp,
		USDC, USDCArb, USDCBase, USDCOp, USDCMatic, USDCSol,
		USDT, DAI, WBTC, SHIB, APE,
		USD, EUR, GBP,
	} {
		r.Register(c)
	}

	return r
}
