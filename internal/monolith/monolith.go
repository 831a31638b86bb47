// Package monolith provides the application container and module interface.
package monolith

import (
	"context"
	"log/slog"

	"github.com/bitpay/offer-engine/internal/config"
	"github.com/bitpay/offer-engine/internal/currency"
	"github.com/bitpay/offer-engine/internal/di"
)

// Monolith is the main application container providing access to shared infrastructure.
type Monolith interface {
	Config() *config.Config
	Logger() *slog.Logger
	Currencies() *currency.Registry
	Services() di.ServiceRegistry
}

// Module represents a bounded context module that can register services and start up.
type Module interface {
	RegisterServices(di.Container) error
	Startup(context.Context, Monolith) error
}

type app struct {
	config     *config.Config
	logger     *slog.Logger
	currencies *currency.Registry
	container  di.Container
}

// New creates a new Monolith instance.
func New(cfg *config.Config, log *slog.Logger) (*app, error) {
	currencies := currency.DefaultRegistry()

	container := di.NewContainer()

	container.Register("config", cfg)
	container.Register("logger", log)
	container.Register("currencyRegistry", currencies)

	return &app{
		config:     cfg,
		logger:     log,
		currencies: currencies,
		container:  container,
	}, nil
}

func (a *app) Config() *config.Config {
	return a.config
}

func (a *app) Logger() *slog.Logger {
	return a.logger
}

func (a *app) Currencies() *currency.Registry {
	return a.currencies
}

func (a *app) Services() di.ServiceRegistry {
	return a.container
}

// Container returns the DI container for module registration.
func (a *app) Container() di.Container {
	return a.container
}

// RegisterModules registers all provided modules.
func (a *app) RegisterModules(modules ...Module) error {
	for _, m := range modules {
		if err := m.RegisterServices(a.container); err != nil {
			return err
		}
	}
	return nil
}

// StartModules starts all provided modules.
func (a *app) StartModules(ctx context.Context, modules ...Module) error {
	for _, m := range modules {
		if err := m.Startup(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

// Close closes all resources.
func (a *app) Close() error {
	return nil
}
