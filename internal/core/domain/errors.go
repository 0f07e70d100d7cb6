// internal/core/domain/errors.go
package domain

import "errors"

// Sentinel errors shared by the core and its adapters.
var (
	// ErrStockNotFound means the outlet holds no stock record for the item.
	// It is informational: callers clear prices and show a notice.
	ErrStockNotFound = errors.New("no stock available for this item")

	// ErrNetworkFailure covers rejected requests and non-2xx responses.
	ErrNetworkFailure = errors.New("network failure")

	// ErrUnauthorized is returned when the backend rejects the session token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrMalformedResponse marks a payload that is neither an array nor a data envelope.
	ErrMalformedResponse = errors.New("malformed response")

	ErrNoSelection  = errors.New("no row selected")
	ErrModalNotOpen = errors.New("modal is not open")
	ErrInvalidInput = errors.New("invalid input")
)
