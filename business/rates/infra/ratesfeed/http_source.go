package ratesfeed

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bitpay/offer-engine/business/rates/domain"
	"github.com/bitpay/offer-engine/internal/apperror"
	"github.com/bitpay/offer-engine/internal/httpclient"
)

// HTTPSource fetches the full BTC cross-rate table over HTTP.
type HTTPSource struct {
	client httpclient.Client
	log    *slog.Logger
}

// NewHTTPSource creates a source against the rates endpoint base URL.
func NewHTTPSource(baseURL string, log *slog.Logger) (*HTTPSource, error) {
	client, err := httpclient.New(
		httpclient.WithProviderName("rates"),
		httpclient.WithBaseURL(baseURL),
	)
	if err != nil {
		return nil, err
	}

	return &HTTPSource{client: client, log: log}, nil
}

// FetchRates retrieves the current BTC cross rates.
func (s *HTTPSource) FetchRates(ctx context.Context) (*domain.Table, error) {
	resp, err := s.client.NewRequest().Get(ctx, "/BTC")
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeRateUnavailable, "rates fetch")
	}
	if resp.IsError() {
		return nil, apperror.New(apperror.CodeRateUnavailable,
			apperror.WithStatusCode(resp.StatusCode),
			apperror.WithContext("rates endpoint returned "+resp.Status))
	}

	entries, err := decodeRates(resp.Body())
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeRateUnavailable, "rates decode")
	}

	return toTable(entries, s.log), nil
}

func toTable(entries []rateEntry, log *slog.Logger) *domain.Table {
	rates := make([]domain.Rate, 0, len(entries))
	for _, e := range entries {
		rate, err := decimal.NewFromString(e.Rate.String())
		if err != nil {
			log.Warn("skipping unparseable rate", "code", e.Code, "rate", e.Rate)
			continue
		}
		rates = append(rates, domain.Rate{Code: e.Code, Name: e.Name, Rate: rate})
	}
	return domain.NewTable(rates, time.Now())
}
