// Package main is the entry point for the offer engine daemon.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/bitpay/offer-engine/business/offers"
	offersDI "github.com/bitpay/offer-engine/business/offers/di"
	"github.com/bitpay/offer-engine/business/rates"
	ratesDI "github.com/bitpay/offer-engine/business/rates/di"
	"github.com/bitpay/offer-engine/internal/apm"
	"github.com/bitpay/offer-engine/internal/config"
	"github.com/bitpay/offer-engine/internal/gateway"
	"github.com/bitpay/offer-engine/internal/health"
	"github.com/bitpay/offer-engine/internal/metrics"
	"github.com/bitpay/offer-engine/internal/monolith"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to configuration file")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("offerd %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		cancel()
	}()

	if err := run(ctx, *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.App.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})).
		With("service", cfg.App.Name)

	log.Info("starting offer engine",
		"version", version,
		"environment", cfg.App.Environment,
	)

	var traceProvider apm.TraceProvider
	if cfg.Telemetry.Enabled {
		if cfg.Telemetry.ServiceName != "" {
			os.Setenv("OTEL_SERVICE_NAME", cfg.Telemetry.ServiceName)
		}
		if cfg.Telemetry.OTLPEndpoint != "" {
			os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Telemetry.OTLPEndpoint)
		}

		traceProvider = apm.NewTraceProvider(log, apm.WithProvider(apm.OTLPProvider, log))
		log.Info("tracing initialized", "endpoint", cfg.Telemetry.OTLPEndpoint)

		metrics.NewMetricProvider(
			metrics.WithServiceName(cfg.Telemetry.ServiceName),
			metrics.WithProviderConfig(metrics.ProviderCfg{
				Provider: metrics.PrometheusProvider,
			}),
		)

		port := cfg.Telemetry.PrometheusPort
		if port == 0 {
			port = 9090
		}
		go metrics.ServePrometheusMetrics(metrics.WithPort(strconv.Itoa(port)))
		log.Info("prometheus metrics server started", "port", port)
	}
	defer func() {
		if traceProvider != nil {
			traceProvider.Stop()
		}
	}()

	mono, err := monolith.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create monolith: %w", err)
	}
	defer mono.Close()

	// Rates must come first: the offers module resolves the rate service
	// for fiat conversion of provider limits.
	modules := []monolith.Module{
		&rates.Module{},
		&offers.Module{},
	}

	if err := mono.RegisterModules(modules...); err != nil {
		return fmt.Errorf("failed to register modules: %w", err)
	}
	if err := mono.StartModules(ctx, modules...); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}

	healthServer := health.NewServer(cfg.Gateway.HealthPort, version, log)
	ratesService := ratesDI.GetRatesService(mono.Services())
	healthServer.RegisterCheck("rates", func(ctx context.Context) (bool, string) {
		if !ratesService.Healthy() {
			return false, "rate table stale or missing"
		}
		return true, ""
	})
	if err := healthServer.Start(); err != nil {
		log.Warn("failed to start health server", "error", err)
	} else {
		log.Info("health server started", "port", cfg.Gateway.HealthPort)
	}

	gw := gateway.NewServer(cfg.Gateway.Port, offersDI.GetOrchestrator(mono.Services()), log)
	gwErr := make(chan error, 1)
	go func() {
		gwErr <- gw.Start()
	}()

	select {
	case err := <-gwErr:
		return fmt.Errorf("gateway stopped: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := gw.Stop(shutdownCtx); err != nil {
		log.Error("error stopping gateway", "error", err)
	}
	if err := healthServer.Stop(shutdownCtx); err != nil {
		log.Error("error stopping health server", "error", err)
	}

	return nil
}
