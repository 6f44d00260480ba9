/*
Package conges implements the leave-request and balance-accounting engine
of the staff portal.

PURPOSE:
  This package holds the domain model and the algorithms that have real
  invariants: day counting, overlap detection, balance derivation, the
  request state machine, the admin status classifier, and the month
  calendar aggregation. Everything else (HTTP, persistence, holiday
  sourcing) lives behind interfaces defined in store.go.

KEY CONCEPTS IN THIS FILE (types.go):
  - LeaveRequest: The central entity, date-only precision
  - RequestStatus: Closed status enum (pending/approved/rejected/cancelled)
  - User: Directory record with the yearly allocation
  - DayCount, BalanceSnapshot, AdminStatus, CalendarDay: Derived value
    objects, never persisted

DESIGN PRINCIPLES:
  1. Date-only precision: ranges are normalized to day boundaries
     (start 00:00:00, end 23:59:59) before storage or comparison
  2. Derivation over storage: balances and statuses are recomputed from
     the live request set on every read, never cached
  3. Closed enums: status values are typed constants so the state machine
     and classifier rule table stay exhaustive

SEE ALSO:
  - daycount.go: Day counting against the holiday map
  - overlap.go: Conflict detection
  - balance.go: Balance derivation
  - service.go: Request lifecycle orchestration
*/
package conges

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type UserID string
type RequestID string

// =============================================================================
// REQUEST STATUS - Closed state machine
// =============================================================================

type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusApproved  RequestStatus = "approved"
	StatusRejected  RequestStatus = "rejected"
	StatusCancelled RequestStatus = "cancelled"
)

// Terminal reports whether no further transition is allowed from s.
func (s RequestStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusCancelled
}

// Active reports whether s counts toward balances and overlap detection.
// Cancelled and rejected requests are retained for history only.
func (s RequestStatus) Active() bool {
	return s == StatusPending || s == StatusApproved
}

// Valid reports whether s is one of the four known statuses.
func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// =============================================================================
// LEAVE REQUEST - The central entity
// =============================================================================

// MaxReasonLength bounds the free-text reason field.
const MaxReasonLength = 500

// LeaveRequest is a user's request for a contiguous range of days off.
// StartDate is normalized to 00:00:00 and EndDate to 23:59:59 of its day;
// both are UTC. UserID and CreatedAt are immutable after creation. Status,
// ApproverID and DecisionAt are mutated only by the lifecycle service;
// dates and reason only by the owner while still pending.
type LeaveRequest struct {
	ID        RequestID
	UserID    UserID
	StartDate time.Time
	EndDate   time.Time
	Status    RequestStatus
	Reason    string

	// Set together, only on transition out of pending.
	ApproverID *UserID
	DecisionAt *time.Time

	CreatedAt time.Time
}

// =============================================================================
// USER DIRECTORY RECORD
// =============================================================================

type Role string

const (
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

// User is the directory view the engine needs: identity plus the yearly
// allocation. The allocation is overwritten in place by admins; no history
// of past values is kept.
type User struct {
	ID             UserID
	Name           string
	Email          string
	Role           Role
	AllocationDays int
	CreatedAt      time.Time
}

// =============================================================================
// HOLIDAYS - Opaque date -> name mapping supplied by a collaborator
// =============================================================================

// HolidayMap maps ISO dates ("2006-01-02") to holiday names. The engine
// never computes holidays itself.
type HolidayMap map[string]string

// Holiday is a persisted holiday row, for administration only. Providers
// flatten these into a HolidayMap before the engine sees them.
type Holiday struct {
	ID        string
	Date      time.Time
	Name      string
	CreatedAt time.Time
}

// =============================================================================
// DERIVED VALUE OBJECTS - Computed on demand, never persisted
// =============================================================================

// DayCount describes a date range in days, with the breakdown the UI uses
// to explain which days were excluded from the working-day figure.
type DayCount struct {
	CalendarDays        int
	WorkingDays         int
	ExcludedWeekendDays int
	ExcludedHolidays    []ExcludedHoliday
}

// ExcludedHoliday is a holiday falling inside a counted range.
type ExcludedHoliday struct {
	Date time.Time
	Name string
}

// BalanceSnapshot is a user's leave accounting at read time.
type BalanceSnapshot struct {
	TotalAllocationDays int
	ApprovedDays        int
	PendingDays         int
	RemainingDays       int
	BalanceAfterPending int
	PercentUsed         decimal.Decimal
}

// AdminStatus is the dashboard triage bucket derived per user.
type AdminStatus string

const (
	AdminCritical        AdminStatus = "critical"
	AdminWarningUsage    AdminStatus = "warning_usage"
	AdminWarningInactive AdminStatus = "warning_inactive"
	AdminGood            AdminStatus = "good"
	AdminUnallocated     AdminStatus = "unallocated"
)

// CalendarDay is one day of the month view with everyone absent that day.
type CalendarDay struct {
	Date      time.Time
	Weekend   bool
	Holiday   string // holiday name, empty if none
	Absentees []Absentee
}

// Absentee identifies a user covered by an approved request on a given day.
type Absentee struct {
	UserID    UserID
	RequestID RequestID
}

// =============================================================================
// DATE NORMALIZATION
// =============================================================================

// StartOfDay truncates t to 00:00:00 UTC of its day.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// EndOfDay normalizes t to 23:59:59 UTC of its day.
func EndOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, time.UTC)
}

// IsWeekend reports whether t falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// ISODate formats t as the holiday-map key ("2006-01-02").
func ISODate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
