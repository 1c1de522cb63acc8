// Package services implements the tenant lifecycle business logic. This file
// centralizes service-level error values so that they can be consistently
// returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer; mapping
// into user-facing messages and HTTP status codes is performed at the
// handler layer.
package services

import (
	"errors"
	"fmt"
)

var (
	// ErrTenantNotFound indicates that the referenced tenant id does not
	// resolve to an existing row (soft-deleted tenants still resolve).
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrNameRequired is returned when a create request carries an empty
	// utility name.
	ErrNameRequired = errors.New("utility name is required")

	// ErrDomainRequired is returned when an operation needs a hostname and
	// none was given.
	ErrDomainRequired = errors.New("domain name is required")

	// ErrConfirmationMismatch is returned when the safety-check name sent
	// with a destructive operation does not exactly match the tenant's
	// current name (case-sensitive).
	ErrConfirmationMismatch = errors.New("utility name confirmation does not match")

	// ErrAlreadyDeleted is returned when soft-deleting a tenant that is
	// already soft-deleted. Callers must treat this as a genuine error,
	// not as success: the concurrent loser of a delete race sees it.
	ErrAlreadyDeleted = errors.New("utility is already deleted")

	// ErrNotDeleted is returned when restoring a tenant that is not
	// soft-deleted.
	ErrNotDeleted = errors.New("utility is not deleted")

	// ErrNotSoftDeleted guards permanent deletion: a live tenant must be
	// soft-deleted first. This is a safety invariant, not a convenience.
	ErrNotSoftDeleted = errors.New("only soft-deleted utilities can be permanently deleted")

	// ErrTenantDeleted is returned when toggling activation on a
	// soft-deleted tenant. Deleted tenants keep their flags frozen until
	// restored.
	ErrTenantDeleted = errors.New("utility is soft-deleted")

	// ErrDuplicateDomain is returned when the hostname is already bound to
	// any tenant.
	ErrDuplicateDomain = errors.New("domain already exists")
)

// CreationError wraps any failure during the multi-step tenant creation
// sequence, recording which step broke. The cause is reachable through
// errors.Is/As via Unwrap.
type CreationError struct {
	Step string // "persist", "provision", "migrate" or "finalize"
	Err  error
}

// Error implements the error interface.
func (e *CreationError) Error() string {
	return fmt.Sprintf("create tenant: %s: %v", e.Step, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *CreationError) Unwrap() error { return e.Err }
