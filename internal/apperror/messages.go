package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	// General validation
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidFormat:   "Invalid data format",
	CodeInvalidState:    "Invalid state for this operation",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	// Configuration
	CodeConfigurationError: "Configuration error",

	// External service errors
	CodeExternalServiceError: "External service error",
	CodeServiceTimeout:       "Service request timeout",
	CodeServiceUnavailable:   "Service temporarily unavailable",
	CodeRateLimitExceeded:    "Rate limit exceeded",

	// System errors
	CodeInternalError: "Internal server error",
	CodeUnknownError:  "An unknown error occurred",

	// Provider gating
	CodeProviderDisabled:   "Can't get rates at this moment. Please try again later",
	CodeProviderIneligible: "Provider does not support this combination",
	CodeOutOfLimit:         "Amount is outside the provider's purchase limits",

	// Provider quote fetching
	CodeAdapterError:     "Could not get crypto offer. Please try again later.",
	CodeQuoteMalformed:   "Provider returned a malformed quote",
	CodeQuoteUnavailable: "Can't get rates at this moment. Please try again later",
	CodeProviderRejected: "Provider rejected the quote request",

	// Generation lifecycle
	CodeGenerationSuperseded: "Quote round superseded by newer input",
	CodeGenerationUnknown:    "Unknown quote round",

	// Fiat rates
	CodeRateUnavailable: "No exchange rate available for currency",
	CodeRatesFeedClosed: "Rates feed connection closed",

	// WebSocket errors
	CodeWebSocketConnectionError: "WebSocket connection error",
	CodeWebSocketReconnecting:    "WebSocket reconnecting",
	CodeWebSocketClosed:          "WebSocket connection closed",

	// Circuit breaker errors
	CodeCircuitOpen: "Circuit breaker is open",
}
