// Package common defines shared constants and sentinel errors used across
// the layers of the expense tracker. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Inbound payload errors (malformed or unsupported webhook bodies).
	ErrorInvalidPayload = errors.New("invalid payload")
)
