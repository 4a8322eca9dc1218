package services

import "errors"

var (
	// ErrNotFound is returned when the requested item does not exist.
	ErrNotFound = errors.New("item not found")

	// ErrStoreUnavailable wraps record store failures so transport layers
	// can answer with a service-unavailable status. Analytics never mask a
	// store failure as an empty aggregate.
	ErrStoreUnavailable = errors.New("record store unavailable")
)
