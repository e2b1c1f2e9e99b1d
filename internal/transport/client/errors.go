package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNetwork marks requests that never produced an HTTP response
	ErrNetwork = errors.New("network error")

	// ErrUnauthorized marks a rejected or missing API key
	ErrUnauthorized = errors.New("unauthorized")

	// ErrValidation marks a request rejected before or by the service as malformed
	ErrValidation = errors.New("invalid request")

	// ErrRemote marks every other failure reported by the service
	ErrRemote = errors.New("remote error")
)

// APIError is a failure reported by the service, either through the HTTP
// status or through the code field of the response envelope
type APIError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.status())
	}
	return fmt.Sprintf("API error %d: %s", e.status(), msg)
}

// Unwrap exposes the sentinel matching the status
func (e *APIError) Unwrap() error {
	switch e.status() {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrValidation
	default:
		return ErrRemote
	}
}

// status prefers the HTTP status and falls back to the envelope code when the
// service answered 2xx with a failure code
func (e *APIError) status() int {
	if e.StatusCode >= 300 || e.Code == 0 {
		return e.StatusCode
	}
	return e.Code
}
