// Package gateway exposes the offer engine over HTTP to UI collaborators.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/bitpay/offer-engine/business/offers/app"
	"github.com/bitpay/offer-engine/business/offers/domain"
	"github.com/bitpay/offer-engine/internal/apm"
	"github.com/bitpay/offer-engine/internal/apperror"
)

// Server is the inbound HTTP API: start a quote round, poll the
// current aggregate, cancel a round.
type Server struct {
	orch   *app.Orchestrator
	log    *slog.Logger
	tracer apm.Tracer
	srv    *http.Server
}

// NewServer creates the gateway on the given port.
func NewServer(port int, orch *app.Orchestrator, log *slog.Logger) *Server {
	s := &Server{orch: orch, log: log, tracer: apm.NewTracer("gateway")}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Route("/v1/offers", func(r chi.Router) {
		r.Post("/", s.handleRequest)
		r.Get("/current", s.handleCurrent)
		r.Delete("/{generation}", s.handleCancel)
	})

	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// Start begins serving. Blocks until the listener fails or is shut down.
func (s *Server) Start() error {
	s.log.Info("gateway listening", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

type offerRequestBody struct {
	Side          string `json:"side"`
	Amount        string `json:"amount"`
	FiatCurrency  string `json:"fiatCurrency"`
	Coin          string `json:"coin"`
	Chain         string `json:"chain"`
	Country       string `json:"country"`
	PaymentMethod string `json:"paymentMethod"`
	WalletRef     string `json:"walletRef"`
}

func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	_, span := s.tracer.StartSpanFromContext(r.Context(), "offers.request")
	defer span.End()

	var body offerRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		span.NoticeError(err)
		writeError(w, apperror.Validation(apperror.CodeInvalidFormat, "request body"))
		return
	}

	amount, err := decimal.NewFromString(body.Amount)
	if err != nil {
		span.NoticeError(err)
		writeError(w, apperror.Validation(apperror.CodeInvalidInput, "amount"))
		return
	}

	side := domain.Buy
	if body.Side == string(domain.Sell) {
		side = domain.Sell
	}

	generation := s.orch.Request(domain.QuoteRequest{
		Side:          side,
		Amount:        amount,
		FiatCurrency:  body.FiatCurrency,
		Coin:          body.Coin,
		Chain:         body.Chain,
		Country:       body.Country,
		PaymentMethod: domain.PaymentMethodKey(body.PaymentMethod),
		WalletRef:     body.WalletRef,
	})

	span.SetAttributes(
		attribute.String("offers.side", string(side)),
		attribute.Int64("offers.generation", int64(generation)),
	)

	writeJSON(w, http.StatusAccepted, map[string]uint64{"generation": generation})
}

func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toAggregateDTO(s.orch.Current()))
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	generation, err := strconv.ParseUint(chi.URLParam(r, "generation"), 10, 64)
	if err != nil {
		writeError(w, apperror.Validation(apperror.CodeInvalidInput, "generation"))
		return
	}

	if err := s.orch.Cancel(generation); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.StatusCode != 0 {
		status = appErr.StatusCode
	}

	writeJSON(w, status, map[string]string{
		"code":    string(apperror.GetCode(err)),
		"message": apperror.UserMessage(err),
	})
}
