// Package di contains dependency injection tokens for the offers context.
package di

import (
	"github.com/bitpay/offer-engine/business/offers/app"
	"github.com/bitpay/offer-engine/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Orchestrator = di.NewToken[*app.Orchestrator]("offers.Orchestrator")
)

// Private dependency tokens - internal to offers module
var (
	Adapters          = di.NewToken[[]app.Adapter]("offers:adapters")
	EligibilityFilter = di.NewToken[*app.EligibilityFilter]("offers:eligibilityFilter")
	LimitValidator    = di.NewToken[*app.LimitValidator]("offers:limitValidator")
	Reconciler        = di.NewToken[*app.Reconciler]("offers:reconciler")
	ConfigSource      = di.NewToken[app.ConfigSource]("offers:configSource")
)

// Helper functions for type-safe access
func GetOrchestrator(c di.ServiceRegistry) *app.Orchestrator {
	return di.GetToken(c, Orchestrator)
}

func GetAdapters(c di.ServiceRegistry) []app.Adapter {
	return di.GetToken(c, Adapters)
}

func GetLimitValidator(c di.ServiceRegistry) *app.LimitValidator {
	return di.GetToken(c, LimitValidator)
}
