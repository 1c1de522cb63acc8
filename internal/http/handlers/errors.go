// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// These symbolic constants are mapped to HTTP responses via the `fail()`
// helper in this package and give clients a stable, machine-readable error
// taxonomy supplementing human-readable messages.
//
// Conventions:
//   - Codes are lowercase, snake_case, and domain-agnostic unless explicitly noted.
//   - Generic codes (e.g., bad_request, conflict) mirror common HTTP status
//     semantics to aid interoperability.
//   - Domain-specific codes name the lifecycle precondition that failed
//     (e.g., already_deleted, not_soft_deleted) so API clients can branch on
//     the exact state-machine violation.
package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeCreateFailed         = "create_failed"
	ErrCodeListFailed           = "list_failed"
	ErrCodeConfirmationMismatch = "confirmation_mismatch"
	ErrCodeAlreadyDeleted       = "already_deleted"
	ErrCodeNotDeleted           = "not_deleted"
	ErrCodeNotSoftDeleted       = "not_soft_deleted"
	ErrCodeTenantDeleted        = "tenant_deleted"
	ErrCodeDuplicateDomain      = "duplicate_domain"
	ErrCodeMethodNotAllowed     = "method_not_allowed"
)
