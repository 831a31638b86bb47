package app

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bitpay/offer-engine/business/rates/domain"
	"github.com/bitpay/offer-engine/internal/apperror"
)

// Service holds the current rate snapshot and answers fiat conversions.
// The snapshot is replaced wholesale on refresh; conversions running
// against the previous snapshot are unaffected.
type Service struct {
	source RateSource
	stream RateStream
	log    *slog.Logger

	refreshInterval time.Duration
	staleTimeout    time.Duration

	mu    sync.RWMutex
	table *domain.Table
}

// NewService creates the rates service. stream may be nil, in which case
// only HTTP polling keeps the snapshot fresh.
func NewService(source RateSource, stream RateStream, refreshInterval, staleTimeout time.Duration, log *slog.Logger) *Service {
	return &Service{
		source:          source,
		stream:          stream,
		log:             log,
		refreshInterval: refreshInterval,
		staleTimeout:    staleTimeout,
	}
}

// Start performs an initial fetch and begins the refresh loop. The loop
// stops when ctx is cancelled.
func (s *Service) Start(ctx context.Context) error {
	if err := s.refresh(ctx); err != nil {
		s.log.Warn("initial rates fetch failed, will retry", "error", err)
	}

	go s.pollLoop(ctx)

	if s.stream != nil {
		go s.streamLoop(ctx)
	}

	return nil
}

func (s *Service) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.refresh(ctx); err != nil {
				s.log.Warn("rates refresh failed", "error", err)
			}
		}
	}
}

func (s *Service) streamLoop(ctx context.Context) {
	if err := s.stream.Connect(ctx); err != nil {
		s.log.Warn("rates stream connect failed, polling only", "error", err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			s.stream.Close()
			return
		case table, ok := <-s.stream.Updates():
			if !ok {
				return
			}
			s.setTable(table)
		}
	}
}

func (s *Service) refresh(ctx context.Context) error {
	table, err := s.source.FetchRates(ctx)
	if err != nil {
		return err
	}
	s.setTable(table)
	s.log.Debug("rates refreshed", "count", table.Len())
	return nil
}

func (s *Service) setTable(table *domain.Table) {
	if table == nil || table.Len() == 0 {
		return
	}
	s.mu.Lock()
	s.table = table
	s.mu.Unlock()
}

func (s *Service) snapshot() *domain.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table
}

// Healthy reports whether a usable, non-stale snapshot exists.
func (s *Service) Healthy() bool {
	t := s.snapshot()
	return t != nil && !t.IsStale(s.staleTimeout)
}

// AltFiatToUSD converts an amount in any supported fiat currency to its
// USD equivalent through the BTC cross rates: amount fiat buys
// amount/rate(fiat) BTC, which is worth that many rate(USD) dollars.
func (s *Service) AltFiatToUSD(amount decimal.Decimal, fiatCode string) (decimal.Decimal, error) {
	if strings.EqualFold(fiatCode, "USD") {
		return amount, nil
	}

	table := s.snapshot()
	if table == nil {
		return decimal.Zero, apperror.New(apperror.CodeRateUnavailable,
			apperror.WithContext("no rate snapshot loaded"))
	}

	btcAlt, ok := table.Rate(fiatCode)
	if !ok {
		return decimal.Zero, apperror.New(apperror.CodeRateUnavailable,
			apperror.WithContext("no BTC rate for "+strings.ToUpper(fiatCode)))
	}
	btcUSD, ok := table.Rate("USD")
	if !ok {
		return decimal.Zero, apperror.New(apperror.CodeRateUnavailable,
			apperror.WithContext("no BTC rate for USD"))
	}

	return amount.Div(btcAlt).Mul(btcUSD), nil
}

// USDToAltFiat is the inverse conversion, used to echo provider limits
// back in the user's fiat currency.
func (s *Service) USDToAltFiat(amount decimal.Decimal, fiatCode string) (decimal.Decimal, error) {
	if strings.EqualFold(fiatCode, "USD") {
		return amount, nil
	}

	table := s.snapshot()
	if table == nil {
		return decimal.Zero, apperror.New(apperror.CodeRateUnavailable,
			apperror.WithContext("no rate snapshot loaded"))
	}

	btcAlt, ok := table.Rate(fiatCode)
	if !ok {
		return decimal.Zero, apperror.New(apperror.CodeRateUnavailable,
			apperror.WithContext("no BTC rate for "+strings.ToUpper(fiatCode)))
	}
	btcUSD, ok := table.Rate("USD")
	if !ok {
		return decimal.Zero, apperror.New(apperror.CodeRateUnavailable,
			apperror.WithContext("no BTC rate for USD"))
	}

	return amount.Div(btcUSD).Mul(btcAlt), nil
}
