package core

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the category of an exchange error.
type ErrorType int

// Error type constants categorize errors for proper handling.
const (
	// ErrorTypeUnknown indicates an unclassified error.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeNetwork indicates a network connectivity issue.
	ErrorTypeNetwork
	// ErrorTypeTimeout indicates the request exceeded its deadline.
	ErrorTypeTimeout
	// ErrorTypeRateLimit indicates the rate limit was exceeded.
	ErrorTypeRateLimit
	// ErrorTypeAuthentication indicates invalid credentials or a rejected signature.
	ErrorTypeAuthentication
	// ErrorTypeBadRequest indicates invalid request parameters.
	ErrorTypeBadRequest
	// ErrorTypeNotFound indicates the requested resource does not exist.
	ErrorTypeNotFound
	// ErrorTypeServerError indicates a server-side error.
	ErrorTypeServerError
	// ErrorTypeInvalidOrder indicates the order violates exchange rules.
	ErrorTypeInvalidOrder
)

// String returns the string representation of the error type.
func (t ErrorType) String() string {
	return [...]string{
		"UNKNOWN",
		"NETWORK",
		"TIMEOUT",
		"RATE_LIMIT",
		"AUTHENTICATION",
		"BAD_REQUEST",
		"NOT_FOUND",
		"SERVER_ERROR",
		"INVALID_ORDER",
	}[t]
}

// Sentinel errors for common error conditions.
var (
	// ErrClientClosed is returned when attempting to use a closed client.
	ErrClientClosed = errors.New("client is closed")
	// ErrNotConnected is returned when the websocket is not connected.
	ErrNotConnected = errors.New("websocket not connected")
	// ErrCircuitBreakerOpen is returned when the circuit breaker is open.
	ErrCircuitBreakerOpen = errors.New("circuit breaker is open")
	// ErrNoCredentials is returned when an authenticated call is made without credentials.
	ErrNoCredentials = errors.New("no credentials configured")
)

// ExchangeError represents a structured error returned from the exchange.
type ExchangeError struct {
	// Type categorizes the error for programmatic handling.
	Type ErrorType `json:"type"`
	// StatusCode is the HTTP status code from the response.
	StatusCode int `json:"status_code"`
	// Code is the exchange-specific error code, e.g. "-1001".
	Code string `json:"code"`
	// Message is the human-readable error description.
	Message string `json:"message"`
	// Timestamp is when the error occurred.
	Timestamp time.Time `json:"timestamp"`
}

// Error implements the error interface for ExchangeError.
func (e *ExchangeError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("woox %s (%d/%s): %s", e.Type, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("woox %s (%d): %s", e.Type, e.StatusCode, e.Message)
}

// NewExchangeError creates a new ExchangeError with the specified details.
// The timestamp is automatically set to the current time.
func NewExchangeError(errorType ErrorType, statusCode int, message string) *ExchangeError {
	return &ExchangeError{
		Type:       errorType,
		StatusCode: statusCode,
		Message:    message,
		Timestamp:  time.Now(),
	}
}

// NewExchangeErrorWithCode creates a new ExchangeError including the
// exchange-specific error code.
func NewExchangeErrorWithCode(errorType ErrorType, statusCode int, code, message string) *ExchangeError {
	e := NewExchangeError(errorType, statusCode, message)
	e.Code = code
	return e
}

// IsAuthenticationError returns true if the error is an authentication
// failure, including a signature rejected by the server. These indicate a
// caller defect (wrong secret, or body values diverging from signed values)
// and are never retryable.
func IsAuthenticationError(err error) bool {
	var e *ExchangeError
	return errors.As(err, &e) && e.Type == ErrorTypeAuthentication
}

// IsRateLimitError returns true if the error is a rate limit violation.
// Rate limit errors may be retried after a delay.
func IsRateLimitError(err error) bool {
	var e *ExchangeError
	return errors.As(err, &e) && e.Type == ErrorTypeRateLimit
}

// IsTerminalError returns true if retrying the same request cannot succeed.
func IsTerminalError(err error) bool {
	var e *ExchangeError
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == ErrorTypeInvalidOrder ||
		e.Type == ErrorTypeBadRequest ||
		e.Type == ErrorTypeNotFound ||
		e.Type == ErrorTypeAuthentication
}
