package domain

import "errors"

var (
	// ErrInvalidAmount rejects a non-positive, non-numeric or
	// over-precise payment amount before the store is touched.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrNotFound signals a missing collection, payment or user.
	ErrNotFound = errors.New("not found")
	// ErrConflict signals the collection row lock could not be acquired
	// within the bounded wait. Callers may retry with backoff.
	ErrConflict = errors.New("conflict")
	// ErrStoreUnavailable signals an infrastructure failure. It is
	// surfaced as-is and never retried internally.
	ErrStoreUnavailable = errors.New("store unavailable")

	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
)
