package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ErrTimeout marks a request that did not complete within the configured
// deadline. Distinct from an HTTP error: the backend never answered.
var ErrTimeout = errors.New("request timed out")

// APIError is a backend response with a non-2xx status. The detail is the
// backend's own message, surfaced unmodified to the caller.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend returned %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Detail)
}

// Unauthorized reports whether this error is the authentication-failure class
// that triggers the gateway's global logout handling.
func (e *APIError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// newAPIError builds an APIError from a response body. The backend wraps
// messages as {"detail": "..."}; anything else is carried as raw text.
func newAPIError(status int, body []byte) *APIError {
	var envelope struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Detail != "" {
		return &APIError{StatusCode: status, Detail: envelope.Detail}
	}
	return &APIError{StatusCode: status, Detail: strings.TrimSpace(string(body))}
}

// classifyTransportError separates deadline failures from other network
// failures so callers can tell "slow" from "broken".
func classifyTransportError(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("request failed: %w", err)
}
