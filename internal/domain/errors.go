package domain

import "errors"

var (
	// ErrNotFound signals that no speech exists for the addressed identity.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput signals a request that failed boundary validation.
	// The core never returns it; the transport layer does.
	ErrInvalidInput = errors.New("invalid input")
)
