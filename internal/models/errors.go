package models

import "errors"

// Domain-level error kinds surfaced by the repository layer.
var (
	// ErrNotFound indicates a get-by-id with no matching row.
	ErrNotFound = errors.New("record not found")

	// ErrConstraint indicates a unique-key or foreign-key violation on a
	// plain insert or update. Operations documented with REPLACE
	// semantics never return it for key collisions.
	ErrConstraint = errors.New("constraint violation")
)
