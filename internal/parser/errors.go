package parser

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrNotConfigured is wrapped by ConfigurationError.
var ErrNotConfigured = errors.New("provider not configured")

// ConfigurationError indicates a provider has no credential. It is never retried.
type ConfigurationError struct {
	Provider string
	Message  string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

func (e *ConfigurationError) Unwrap() error {
	return ErrNotConfigured
}

// NewConfigurationError creates a ConfigurationError for a missing API key.
func NewConfigurationError(provider, displayName string) *ConfigurationError {
	return &ConfigurationError{
		Provider: provider,
		Message:  fmt.Sprintf("%s API key not configured", displayName),
	}
}

// TransportError indicates the provider could not be reached or answered with an error.
type TransportError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RateLimitError indicates a parser provider returned HTTP 429.
type RateLimitError struct {
	Err        error
	RetryAfter time.Duration
	Provider   string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited (retry after %s): %v", e.Provider, e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// NewRateLimitError creates a RateLimitError. If retryAfterSecs is 0, defaults to 60s.
func NewRateLimitError(provider string, err error, retryAfterSecs int) *RateLimitError {
	if retryAfterSecs <= 0 {
		retryAfterSecs = 60
	}
	return &RateLimitError{
		Err:        err,
		RetryAfter: time.Duration(retryAfterSecs) * time.Second,
		Provider:   provider,
	}
}

// ParseRetryAfterHeader parses a Retry-After header value into seconds.
// Returns 0 if the value is empty or not a valid integer.
func ParseRetryAfterHeader(val string) int {
	if val == "" {
		return 0
	}
	secs, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return secs
}

// ParseError indicates the provider answered but the text was not the expected JSON document.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Failed to parse JSON response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// FailoverError aggregates the failures of the primary and fallback providers.
type FailoverError struct {
	Primary     string
	Fallback    string
	PrimaryErr  error
	FallbackErr error
}

func (e *FailoverError) Error() string {
	return fmt.Sprintf("All providers failed. Primary (%s): %v; Fallback (%s): %v",
		e.Primary, e.PrimaryErr, e.Fallback, e.FallbackErr)
}

func (e *FailoverError) Unwrap() []error {
	return []error{e.PrimaryErr, e.FallbackErr}
}

// NoneConfigured reports whether both providers failed for lack of credentials.
func (e *FailoverError) NoneConfigured() bool {
	return errors.Is(e.PrimaryErr, ErrNotConfigured) && errors.Is(e.FallbackErr, ErrNotConfigured)
}
