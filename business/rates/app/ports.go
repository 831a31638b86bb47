// Package app contains the rates application service and its ports.
package app

import (
	"context"

	"github.com/bitpay/offer-engine/business/rates/domain"
)

// RateSource fetches a full BTC cross-rate snapshot.
type RateSource interface {
	FetchRates(ctx context.Context) (*domain.Table, error)
}

// RateStream pushes incremental rate updates. Implementations reconnect
// on their own; Updates delivers full snapshots as they arrive.
type RateStream interface {
	Connect(ctx context.Context) error
	Updates() <-chan *domain.Table
	Close() error
}
