// Package app contains the offer aggregation services: eligibility
// filtering, limit validation, orchestration, reconciliation, and
// selection.
package app

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/bitpay/offer-engine/business/offers/domain"
)

// Adapter translates the canonical QuoteRequest into one provider's
// wire call and its response back into a canonical QuoteResult.
// Implementations must honor ctx cancellation promptly, never panic on
// malformed payloads, and never mutate shared state.
type Adapter interface {
	Key() domain.ProviderKey
	FetchQuote(ctx context.Context, req domain.QuoteRequest) (domain.QuoteResult, error)
}

// LimitsFetcher is implemented by adapters whose provider exposes a
// dedicated limits call. Adapters whose limits arrive as a quote side
// effect do not implement it.
type LimitsFetcher interface {
	FetchLimits(ctx context.Context, req domain.QuoteRequest) (domain.Limits, error)
}

// ConfigSource supplies the provider kill-switch snapshot. A stale read
// is acceptable; the snapshot is frozen into each QuoteRequest.
type ConfigSource interface {
	GetProviderConfig() domain.ConfigSnapshot
}

// RateConverter converts between the user's fiat currency and USD, the
// currency provider limits are denominated in.
type RateConverter interface {
	AltFiatToUSD(amount decimal.Decimal, fiatCode string) (decimal.Decimal, error)
	USDToAltFiat(amount decimal.Decimal, fiatCode string) (decimal.Decimal, error)
}

// AggregateListener receives the reconciler's state on every change,
// including partially resolved aggregates.
type AggregateListener func(domain.AggregateResult)
