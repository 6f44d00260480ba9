/*
store.go - Persistence and collaborator interfaces

PURPOSE:
  Defines the boundary between the engine and its backing store and
  read-only collaborators. The engine is specified against these
  interfaces, not a database.

ATOMICITY CONTRACT:
  The lifecycle's create and edit operations run their overlap check and
  the subsequent write inside WithTx as a single atomic unit. An
  implementation must guarantee that two concurrent WithTx executions
  cannot both observe a request set missing the other's in-flight write:
  the SQLite store serializes writers with an immediate transaction, the
  memory store with a mutex. In-process locking alone is not sufficient
  for a multi-replica deployment; the guarantee lives at the storage
  boundary.

IMPLEMENTATIONS:
  - store/sqlite: production store (requests, users, holidays)
  - store/memory: in-memory store for tests and development

SEE ALSO:
  - service.go: The only caller of WithTx
*/
package conges

import (
	"context"
	"time"
)

// =============================================================================
// REQUEST STORE
// =============================================================================

// Store persists leave requests. PutRequest inserts or replaces by ID;
// the lifecycle is the only writer.
type Store interface {
	// PutRequest inserts req or replaces the stored row with the same ID.
	PutRequest(ctx context.Context, req LeaveRequest) error

	// GetRequest returns the request or nil when it doesn't exist.
	GetRequest(ctx context.Context, id RequestID) (*LeaveRequest, error)

	// ListByUser returns all of a user's requests, any status.
	ListByUser(ctx context.Context, userID UserID) ([]LeaveRequest, error)

	// ListActiveByUser returns the user's pending and approved requests.
	// This is the set the conflict detector runs against.
	ListActiveByUser(ctx context.Context, userID UserID) ([]LeaveRequest, error)

	// ListPending returns every pending request across all users.
	ListPending(ctx context.Context) ([]LeaveRequest, error)

	// ListApprovedInRange returns approved requests whose day range
	// intersects [from, to], across all users.
	ListApprovedInRange(ctx context.Context, from, to time.Time) ([]LeaveRequest, error)
}

// TxStore wraps Store with atomic execution. If fn returns an error the
// writes made through its Store argument are rolled back.
type TxStore interface {
	Store

	WithTx(ctx context.Context, fn func(Store) error) error
}

// =============================================================================
// COLLABORATORS - Read-only data sources
// =============================================================================

// Directory looks up users and their allocations. The engine expects no
// side effects from it.
type Directory interface {
	// GetUser returns the user or nil when unknown.
	GetUser(ctx context.Context, id UserID) (*User, error)

	ListUsers(ctx context.Context) ([]User, error)
}

// HolidayProvider supplies the opaque holiday mapping for a year range
// (inclusive on both ends).
type HolidayProvider interface {
	Holidays(ctx context.Context, fromYear, toYear int) (HolidayMap, error)
}
