package client

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. API methods wrap one of these so callers can branch
// with errors.Is without inspecting status codes.
var (
	// ErrValidation means the backend rejected the payload (bad input,
	// duplicate email, ...). The message carries the backend detail.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidCredentials means a login attempt was rejected.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrSessionExpired means an authenticated call came back 401. The
	// client has already cleared the token store and notified the
	// auth-error handler by the time a caller sees this.
	ErrSessionExpired = errors.New("session expired")

	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNetwork means no response was received at all (connectivity,
	// DNS, timeout). Distinguishable from ErrInvalidCredentials so the
	// UI can show different guidance.
	ErrNetwork = errors.New("no response from server")
)

// APIError represents a non-2xx HTTP response from the backend.
type APIError struct {
	StatusCode int
	Message    string
	kind       error // one of the sentinels above, or nil
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.kind
}

// IsStatus returns true if err (or any wrapped error) is an APIError with the
// given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == code
	}
	return false
}

// Message extracts the backend-supplied message from err, falling back to the
// plain error text. Views display this directly.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
