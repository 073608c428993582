package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCancelled indicates a search run was aborted by its caller.
	// It is surfaced as a distinct outcome so "user cancelled" can be told
	// apart from "nothing matched" and "all sources failed".
	ErrCancelled = errors.New("search cancelled")

	// ErrSourceDisabled indicates an operation targeted a disabled source.
	ErrSourceDisabled = errors.New("source disabled")
)
