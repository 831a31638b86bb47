// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig                 `mapstructure:"app"`
	Engine    EngineConfig              `mapstructure:"engine"`
	Providers map[string]ProviderConfig `mapstructure:"providers"`
	Rates     RatesConfig               `mapstructure:"rates"`
	Gateway   GatewayConfig             `mapstructure:"gateway"`
	Telemetry TelemetryConfig           `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// EngineConfig holds quote orchestration timing.
//
// QuoteDebounce is how long the orchestrator waits after the last input
// change before fanning out provider fetches. SettleGrace is the maximum
// time it waits for stragglers before running selection on whatever has
// settled. Both encode a UX/cost tradeoff and are deliberately tunable.
type EngineConfig struct {
	QuoteDebounce  time.Duration `mapstructure:"quote_debounce"`
	SettleGrace    time.Duration `mapstructure:"settle_grace"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// ProviderConfig holds per-provider settings. Disabled and DisabledMessage
// mirror the remote-config kill switch: a disabled provider is never
// queried and surfaces the supplied message instead.
type ProviderConfig struct {
	BaseURL           string `mapstructure:"base_url"`
	APIKey            string `mapstructure:"api_key"`
	Disabled          bool   `mapstructure:"disabled"`
	DisabledMessage   string `mapstructure:"disabled_message"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute"`
}

// RatesConfig holds the fiat rates feed endpoints.
type RatesConfig struct {
	WebSocketURL    string        `mapstructure:"websocket_url"`
	HTTPURL         string        `mapstructure:"http_url"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	StaleTimeout    time.Duration `mapstructure:"stale_timeout"`
}

// GatewayConfig holds the inbound HTTP API settings.
type GatewayConfig struct {
	Port       int `mapstructure:"port"`
	HealthPort int `mapstructure:"health_port"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// Provider returns the config snapshot for a provider key, zero value if absent.
func (c *Config) Provider(key string) ProviderConfig {
	if c.Providers == nil {
		return ProviderConfig{}
	}
	return c.Providers[key]
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("OFFER")
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "OFFER_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "OFFER_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "OFFER_LOG_LEVEL", "LOG_LEVEL")

	// Engine
	v.BindEnv("engine.quote_debounce", "OFFER_QUOTE_DEBOUNCE")
	v.BindEnv("engine.settle_grace", "OFFER_SETTLE_GRACE")
	v.BindEnv("engine.request_timeout", "OFFER_REQUEST_TIMEOUT")

	// Providers
	for _, key := range []string{"banxa", "moonpay", "ramp", "sardine", "simplex", "transak"} {
		v.BindEnv("providers."+key+".base_url", "OFFER_"+upper(key)+"_BASE_URL")
		v.BindEnv("providers."+key+".api_key", "OFFER_"+upper(key)+"_API_KEY")
		v.BindEnv("providers."+key+".disabled", "OFFER_"+upper(key)+"_DISABLED")
	}

	// Rates
	v.BindEnv("rates.websocket_url", "OFFER_RATES_WS_URL")
	v.BindEnv("rates.http_url", "OFFER_RATES_HTTP_URL")

	// Gateway
	v.BindEnv("gateway.port", "OFFER_GATEWAY_PORT", "PORT")

	// Telemetry
	v.BindEnv("telemetry.enabled", "OFFER_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "OFFER_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "OFFER_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func upper(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] >= 'a' && b[i] <= 'z' {
			b[i] -= 'a' - 'A'
		}
	}
	return string(b)
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "offer-engine")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Engine defaults. The debounce and grace windows match the values the
	// mobile clients have shipped with for years.
	v.SetDefault("engine.quote_debounce", "2000ms")
	v.SetDefault("engine.settle_grace", "3500ms")
	v.SetDefault("engine.request_timeout", "10s")

	// Provider defaults
	v.SetDefault("providers.banxa.base_url", "https://api.banxa.com")
	v.SetDefault("providers.moonpay.base_url", "https://api.moonpay.com")
	v.SetDefault("providers.ramp.base_url", "https://api.ramp.network/api")
	v.SetDefault("providers.sardine.base_url", "https://api.sardine.ai")
	v.SetDefault("providers.simplex.base_url", "https://backend-wallet-api.simplexcc.com")
	v.SetDefault("providers.transak.base_url", "https://api.transak.com")
	for _, key := range []string{"banxa", "moonpay", "ramp", "sardine", "simplex", "transak"} {
		v.SetDefault("providers."+key+".requests_per_minute", 60)
	}

	// Rates defaults
	v.SetDefault("rates.http_url", "https://bitpay.com/api/rates")
	v.SetDefault("rates.refresh_interval", "60s")
	v.SetDefault("rates.stale_timeout", "10m")

	// Gateway defaults
	v.SetDefault("gateway.port", 8080)
	v.SetDefault("gateway.health_port", 8081)

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "offer-engine")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Engine.QuoteDebounce < 0 {
		return fmt.Errorf("engine.quote_debounce must not be negative")
	}
	if c.Engine.SettleGrace <= 0 {
		return fmt.Errorf("engine.settle_grace must be positive")
	}
	if c.Rates.HTTPURL == "" {
		return fmt.Errorf("rates.http_url is required")
	}
	for key, pc := range c.Providers {
		if pc.BaseURL == "" {
			return fmt.Errorf("providers.%s.base_url is required", key)
		}
	}
	return nil
}
