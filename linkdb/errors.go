package linkdb

import "errors"

// Errors returned by the core. Per spec.md §7 these never cross the
// boundary as panics: a failed install/delete returns false with a logged
// reason, and diagnostic conditions (unresolved deps, invariant breaks
// found during an integrity pass) are reported as data, not raised.
var (
	// ErrInvalidPackage is logged when install_package is called with a
	// Package whose Name is empty.
	ErrInvalidPackage = errors.New("linkdb: invalid package")

	// ErrInvariantViolation marks a bug: an Object reachable from the DB
	// whose owner is not (or is no longer) among db.packages. The
	// integrity checker logs this and continues rather than aborting.
	ErrInvariantViolation = errors.New("linkdb: internal invariant violation")
)
