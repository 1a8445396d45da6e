package llm

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// ConfigError is returned when the selected provider cannot be used as configured,
// most often because its credentials are missing. It is raised before any call is made.
type ConfigError struct {
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("llm configuration error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("llm configuration error: %s", e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// APIError is a non-2xx response from a provider.
type APIError struct {
	Provider   Provider
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Message)
}

// ErrEmptyResponse is returned when a provider answers without any text.
var ErrEmptyResponse = errors.New("no text content in model response")

// IsRetryable reports whether err is worth another attempt.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.StatusCode >= 500
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"rate limit", "quota", "unavailable", "deadline exceeded", "connection reset", "429", "500", "502", "503", "504"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
