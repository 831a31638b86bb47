package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	// General validation
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidFormat   Code = "INVALID_FORMAT"
	CodeInvalidState    Code = "INVALID_STATE"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	// Configuration
	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	// External service errors
	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceTimeout       Code = "SERVICE_TIMEOUT"
	CodeServiceUnavailable   Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"

	// System errors
	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Offer aggregation error codes
const (
	// Provider gating
	CodeProviderDisabled   Code = "PROVIDER_DISABLED"
	CodeProviderIneligible Code = "PROVIDER_INELIGIBLE"
	CodeOutOfLimit         Code = "OUT_OF_LIMIT"

	// Provider quote fetching
	CodeAdapterError     Code = "ADAPTER_ERROR"
	CodeQuoteMalformed   Code = "QUOTE_MALFORMED"
	CodeQuoteUnavailable Code = "QUOTE_UNAVAILABLE"
	CodeProviderRejected Code = "PROVIDER_REJECTED"

	// Generation lifecycle
	CodeGenerationSuperseded Code = "GENERATION_SUPERSEDED"
	CodeGenerationUnknown    Code = "GENERATION_UNKNOWN"

	// Fiat rates
	CodeRateUnavailable Code = "RATE_UNAVAILABLE"
	CodeRatesFeedClosed Code = "RATES_FEED_CLOSED"

	// WebSocket errors
	CodeWebSocketConnectionError Code = "WEBSOCKET_CONNECTION_ERROR"
	CodeWebSocketReconnecting    Code = "WEBSOCKET_RECONNECTING"
	CodeWebSocketClosed          Code = "WEBSOCKET_CLOSED"

	// Circuit breaker errors
	CodeCircuitOpen Code = "CIRCUIT_OPEN"
)
