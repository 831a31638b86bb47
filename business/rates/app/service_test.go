package app

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitpay/offer-engine/business/rates/domain"
	"github.com/bitpay/offer-engine/internal/apperror"
)

type fakeSource struct {
	table *domain.Table
	err   error
	calls int
}

func (f *fakeSource) FetchRates(ctx context.Context) (*domain.Table, error) {
	f.calls++
	return f.table, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testTable(t time.Time) *domain.Table {
	return domain.NewTable([]domain.Rate{
		{Code: "USD", Rate: decimal.NewFromInt(50000)},
		{Code: "EUR", Rate: decimal.NewFromInt(40000)},
		{Code: "GBP", Rate: decimal.NewFromInt(35000)},
	}, t)
}

func newStartedService(t *testing.T, source *fakeSource) *Service {
	t.Helper()
	s := NewService(source, nil, time.Hour, 10*time.Minute, testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, s.Start(ctx))
	return s
}

func TestService_AltFiatToUSD(t *testing.T) {
	s := newStartedService(t, &fakeSource{table: testTable(time.Now())})

	tests := []struct {
		name   string
		amount string
		fiat   string
		want   string
	}{
		{name: "usd is identity", amount: "400", fiat: "USD", want: "400"},
		{name: "eur through btc cross rate", amount: "400", fiat: "EUR", want: "500"},
		{name: "lowercase code", amount: "400", fiat: "eur", want: "500"},
		{name: "gbp", amount: "70", fiat: "GBP", want: "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.AltFiatToUSD(decimal.RequireFromString(tt.amount), tt.fiat)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestService_USDToAltFiatRoundTrips(t *testing.T) {
	s := newStartedService(t, &fakeSource{table: testTable(time.Now())})

	usd, err := s.AltFiatToUSD(decimal.NewFromInt(400), "EUR")
	require.NoError(t, err)

	back, err := s.USDToAltFiat(usd, "EUR")
	require.NoError(t, err)
	assert.True(t, back.Equal(decimal.NewFromInt(400)), "got %s", back)
}

func TestService_UnknownFiat(t *testing.T) {
	s := newStartedService(t, &fakeSource{table: testTable(time.Now())})

	_, err := s.AltFiatToUSD(decimal.NewFromInt(10), "XXX")
	require.Error(t, err)
	assert.Equal(t, apperror.CodeRateUnavailable, apperror.GetCode(err))
}

func TestService_NoSnapshot(t *testing.T) {
	s := NewService(&fakeSource{err: apperror.New(apperror.CodeRateUnavailable)}, nil, time.Hour, 10*time.Minute, testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.Start(ctx), "a failed initial fetch must not block startup")

	_, err := s.AltFiatToUSD(decimal.NewFromInt(10), "EUR")
	require.Error(t, err)
	assert.False(t, s.Healthy())
}

func TestService_Healthy(t *testing.T) {
	fresh := newStartedService(t, &fakeSource{table: testTable(time.Now())})
	assert.True(t, fresh.Healthy())

	stale := newStartedService(t, &fakeSource{table: testTable(time.Now().Add(-time.Hour))})
	assert.False(t, stale.Healthy())
}

func TestService_EmptyTableIgnored(t *testing.T) {
	s := newStartedService(t, &fakeSource{table: testTable(time.Now())})

	// a refresh returning an empty table must not clobber a good snapshot
	s.setTable(domain.NewTable(nil, time.Now()))

	got, err := s.AltFiatToUSD(decimal.NewFromInt(400), "EUR")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(500)))
}
