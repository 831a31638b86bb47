// Package di contains dependency injection tokens for the rates context.
package di

import (
	"github.com/bitpay/offer-engine/business/rates/app"
	"github.com/bitpay/offer-engine/internal/di"
)

// Public service tokens - exposed to other modules
var (
	RatesService = di.NewToken[*app.Service]("rates.RatesService")
)

// Private dependency tokens - internal to rates module
var (
	RateSource = di.NewToken[app.RateSource]("rates:rateSource")
	RateStream = di.NewToken[app.RateStream]("rates:rateStream")
)

// Helper functions for type-safe access
func GetRatesService(c di.ServiceRegistry) *app.Service {
	return di.GetToken(c, RatesService)
}

func GetRateSource(c di.ServiceRegistry) app.RateSource {
	return di.GetToken(c, RateSource)
}

func GetRateStream(c di.ServiceRegistry) app.RateStream {
	return di.GetToken(c, RateStream)
}
