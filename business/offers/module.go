// Package offers implements the offer aggregation bounded context.
package offers

import (
	"context"
	"log/slog"

	"github.com/bitpay/offer-engine/business/offers/app"
	offersDI "github.com/bitpay/offer-engine/business/offers/di"
	"github.com/bitpay/offer-engine/business/offers/domain"
	"github.com/bitpay/offer-engine/business/offers/infra/banxa"
	"github.com/bitpay/offer-engine/business/offers/infra/moonpay"
	"github.com/bitpay/offer-engine/business/offers/infra/ramp"
	"github.com/bitpay/offer-engine/business/offers/infra/remotecfg"
	"github.com/bitpay/offer-engine/business/offers/infra/sardine"
	"github.com/bitpay/offer-engine/business/offers/infra/simplex"
	"github.com/bitpay/offer-engine/business/offers/infra/transak"
	ratesDI "github.com/bitpay/offer-engine/business/rates/di"
	"github.com/bitpay/offer-engine/internal/config"
	"github.com/bitpay/offer-engine/internal/currency"
	"github.com/bitpay/offer-engine/internal/di"
	"github.com/bitpay/offer-engine/internal/monolith"
)

// Module implements the offers bounded context.
type Module struct{}

// RegisterServices registers all offers services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register provider adapters - private dependency
	di.RegisterToken(c, offersDI.Adapters, func(sr di.ServiceRegistry) []app.Adapter {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(*slog.Logger)
		currencies := sr.Get("currencyRegistry").(*currency.Registry)

		banxaAdapter, err := banxa.New(cfg.Provider(string(domain.Banxa)), log)
		if err != nil {
			panic("failed to create banxa adapter: " + err.Error())
		}
		moonpayAdapter, err := moonpay.New(cfg.Provider(string(domain.MoonPay)), log)
		if err != nil {
			panic("failed to create moonpay adapter: " + err.Error())
		}
		rampAdapter, err := ramp.New(cfg.Provider(string(domain.Ramp)), currencies, log)
		if err != nil {
			panic("failed to create ramp adapter: " + err.Error())
		}
		sardineAdapter, err := sardine.New(cfg.Provider(string(domain.Sardine)), log)
		if err != nil {
			panic("failed to create sardine adapter: " + err.Error())
		}
		simplexAdapter, err := simplex.New(cfg.Provider(string(domain.Simplex)), log)
		if err != nil {
			panic("failed to create simplex adapter: " + err.Error())
		}
		transakAdapter, err := transak.New(cfg.Provider(string(domain.Transak)), log)
		if err != nil {
			panic("failed to create transak adapter: " + err.Error())
		}

		return []app.Adapter{
			banxaAdapter, moonpayAdapter, rampAdapter,
			sardineAdapter, simplexAdapter, transakAdapter,
		}
	})

	// Register ConfigSource - private dependency
	di.RegisterToken(c, offersDI.ConfigSource, func(sr di.ServiceRegistry) app.ConfigSource {
		cfg := sr.Get("config").(*config.Config)
		return remotecfg.NewSource(cfg)
	})

	// Register EligibilityFilter - private dependency
	di.RegisterToken(c, offersDI.EligibilityFilter, func(sr di.ServiceRegistry) *app.EligibilityFilter {
		return app.NewEligibilityFilter(domain.DefaultSupportTables())
	})

	// Register LimitValidator - private dependency
	di.RegisterToken(c, offersDI.LimitValidator, func(sr di.ServiceRegistry) *app.LimitValidator {
		log := sr.Get("logger").(*slog.Logger)
		rates := ratesDI.GetRatesService(sr)
		return app.NewLimitValidator(rates, log)
	})

	// Register Reconciler - private dependency
	di.RegisterToken(c, offersDI.Reconciler, func(sr di.ServiceRegistry) *app.Reconciler {
		log := sr.Get("logger").(*slog.Logger)
		return app.NewReconciler(log)
	})

	// Register Orchestrator (public - exposed to the gateway)
	di.RegisterToken(c, offersDI.Orchestrator, func(sr di.ServiceRegistry) *app.Orchestrator {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(*slog.Logger)

		return app.NewOrchestrator(
			app.OrchestratorConfig{
				QuoteDebounce:  cfg.Engine.QuoteDebounce,
				SettleGrace:    cfg.Engine.SettleGrace,
				RequestTimeout: cfg.Engine.RequestTimeout,
			},
			offersDI.GetAdapters(sr),
			di.GetToken(sr, offersDI.EligibilityFilter),
			offersDI.GetLimitValidator(sr),
			di.GetToken(sr, offersDI.Reconciler),
			di.GetToken(sr, offersDI.ConfigSource),
			log,
		)
	})

	return nil
}

// Startup initializes the offers module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()

	// Resolve the orchestrator eagerly so wiring errors surface at boot,
	// not on the first request.
	offersDI.GetOrchestrator(mono.Services())

	log.Info("offers module started")
	return nil
}
