// Package common defines shared sentinel errors used across the GophStore
// client layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository / cart entry errors.
	ErrNotFound = errors.New("not found")

	// Session errors.
	ErrAuthRequired       = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Transport-level failures. Wrapped around the underlying error;
	// potentially retryable, but retry is a caller policy.
	ErrNetwork = errors.New("network failure")

	// Generic internal failures.
	ErrInternal = errors.New("internal error")
)
