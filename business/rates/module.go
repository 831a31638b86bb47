// Package rates implements the fiat rates bounded context.
package rates

import (
	"context"
	"log/slog"

	"github.com/bitpay/offer-engine/business/rates/app"
	ratesDI "github.com/bitpay/offer-engine/business/rates/di"
	"github.com/bitpay/offer-engine/business/rates/infra/ratesfeed"
	"github.com/bitpay/offer-engine/internal/config"
	"github.com/bitpay/offer-engine/internal/di"
	"github.com/bitpay/offer-engine/internal/monolith"
)

// Module implements the rates bounded context.
type Module struct{}

// RegisterServices registers all rates services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register RateSource (HTTP snapshot endpoint) - private dependency
	di.RegisterToken(c, ratesDI.RateSource, func(sr di.ServiceRegistry) app.RateSource {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(*slog.Logger)

		source, err := ratesfeed.NewHTTPSource(cfg.Rates.HTTPURL, log)
		if err != nil {
			panic("failed to create rates http source: " + err.Error())
		}
		return source
	})

	// Register RateStream (WebSocket feed) - private, nil when not configured
	di.RegisterToken(c, ratesDI.RateStream, func(sr di.ServiceRegistry) app.RateStream {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(*slog.Logger)

		if cfg.Rates.WebSocketURL == "" {
			return nil
		}

		stream, err := ratesfeed.NewStream(cfg.Rates.WebSocketURL, log)
		if err != nil {
			panic("failed to create rates stream: " + err.Error())
		}
		return stream
	})

	// Register RatesService (public - exposed to other modules)
	di.RegisterToken(c, ratesDI.RatesService, func(sr di.ServiceRegistry) *app.Service {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(*slog.Logger)

		source := ratesDI.GetRateSource(sr)
		stream := ratesDI.GetRateStream(sr)

		return app.NewService(source, stream,
			cfg.Rates.RefreshInterval, cfg.Rates.StaleTimeout, log)
	})

	return nil
}

// Startup initializes the rates module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()

	svc := ratesDI.GetRatesService(mono.Services())
	if err := svc.Start(ctx); err != nil {
		return err
	}

	log.Info("rates module started")
	return nil
}
