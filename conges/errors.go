/*
errors.go - Error taxonomy for the leave engine

PURPOSE:
  All lifecycle failures are returned as typed sentinel errors so callers
  can branch with errors.Is and the API layer can map them to HTTP status
  codes without string matching.

CONTRACT:
  A failed operation leaves no mutation applied. Storage-level conflicts
  that enforce the non-overlap invariant are translated into
  ErrLeaveOverlap before they leave the lifecycle, never leaked as store
  errors.

SEE ALSO:
  - service.go: Returns these from lifecycle operations
  - api/handlers.go: Maps these to HTTP responses
*/
package conges

import "errors"

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidRange is returned when the end date precedes the start date.
	// The range is rejected, never silently swapped or collapsed.
	ErrInvalidRange = errors.New("invalid range: end date before start date")

	// ErrLeaveOverlap is returned when a candidate range shares at least one
	// day with another pending or approved request of the same user.
	ErrLeaveOverlap = errors.New("overlapping leave request")

	// ErrNotPending is returned when edit, decide or cancel is attempted on
	// a request already in a terminal state.
	ErrNotPending = errors.New("request is not pending")

	// ErrNotOwner is returned when edit or cancel is attempted by someone
	// other than the request's creator.
	ErrNotOwner = errors.New("requester does not own this request")

	// ErrReasonTooLong is returned when the free-text reason exceeds
	// MaxReasonLength characters.
	ErrReasonTooLong = errors.New("reason exceeds maximum length")

	// ErrInvalidDecision is returned when a decision is neither approved
	// nor rejected.
	ErrInvalidDecision = errors.New("decision must be approved or rejected")

	// ErrRequestNotFound is returned when a referenced request doesn't exist.
	ErrRequestNotFound = errors.New("leave request not found")

	// ErrUserNotFound is returned when a referenced user doesn't exist in
	// the directory.
	ErrUserNotFound = errors.New("user not found")
)

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsConflict reports whether err should surface as a conflict (409).
func IsConflict(err error) bool {
	return errors.Is(err, ErrLeaveOverlap) || errors.Is(err, ErrNotPending)
}

// IsClientError reports whether err is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrReasonTooLong) ||
		errors.Is(err, ErrInvalidDecision)
}

// IsNotFound reports whether err indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRequestNotFound) || errors.Is(err, ErrUserNotFound)
}
