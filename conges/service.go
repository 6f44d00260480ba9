/*
service.go - Request lifecycle and read-side orchestration

PURPOSE:
  Orchestrates the leave-request state machine and assembles the
  dashboard, calendar and preview reads. This is the only component that
  mutates requests.

STATE MACHINE:
  pending (initial) -> approved | rejected | cancelled (all terminal)

  Create   pending, or approved directly when a privileged caller asks
           for auto-approval (the only path that skips pending)
  Edit     owner only, pending only; re-runs the conflict detector
           excluding the request's own id
  Decide   pending only; sets approver and decision time together
  Cancel   owner only, pending only; no approver fields are set

  Operations on terminal requests fail with ErrNotPending; a second
  Decide never silently succeeds and never alters the first decision.

ATOMICITY:
  Create and Edit run the overlap check and the write inside
  Store.WithTx; two concurrent creates for the same user with colliding
  ranges resolve to exactly one success and one ErrLeaveOverlap. Decide
  and Cancel also run their read-check-write under WithTx so the
  terminal-state guard cannot race. No partial writes: a failed
  validation leaves no mutation applied.

NOT RE-CHECKED AT DECIDE TIME:
  Approving a request does not re-run overlap detection. Create/Edit
  enforcement upstream is the single authority; see DESIGN.md for the
  accepted risk.

SEE ALSO:
  - overlap.go: The conflict predicate
  - balance.go: Snapshot derivation used by the dashboards
*/
package conges

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service wires the lifecycle to its store and collaborators.
type Service struct {
	store      TxStore
	directory  Directory
	holidays   HolidayProvider
	thresholds Thresholds
	log        *zap.Logger

	// now is injectable for tests.
	now func() time.Time
}

// NewService creates a Service with default thresholds and a no-op logger.
func NewService(store TxStore, directory Directory, holidays HolidayProvider) *Service {
	return &Service{
		store:      store,
		directory:  directory,
		holidays:   holidays,
		thresholds: DefaultThresholds(),
		log:        zap.NewNop(),
		now:        time.Now,
	}
}

// WithThresholds replaces the classifier policy constants.
func (s *Service) WithThresholds(t Thresholds) *Service {
	s.thresholds = t
	return s
}

// WithLogger replaces the no-op logger.
func (s *Service) WithLogger(log *zap.Logger) *Service {
	if log != nil {
		s.log = log
	}
	return s
}

// WithClock replaces the time source. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// =============================================================================
// LIFECYCLE - Mutations
// =============================================================================

// CreateParams carries the inputs of a create operation. AutoApprove is
// honored only for privileged callers (the API layer gates it on role);
// ActorID identifies the approver in that case.
type CreateParams struct {
	UserID      UserID
	Start       time.Time
	End         time.Time
	Reason      string
	AutoApprove bool
	ActorID     UserID
}

// Create validates and records a new leave request. The request is
// created pending, or approved directly under auto-approval.
func (s *Service) Create(ctx context.Context, p CreateParams) (*LeaveRequest, error) {
	start := StartOfDay(p.Start)
	end := EndOfDay(p.End)
	if StartOfDay(end).Before(start) {
		return nil, ErrInvalidRange
	}
	if len(p.Reason) > MaxReasonLength {
		return nil, ErrReasonTooLong
	}

	user, err := s.directory.GetUser(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("directory lookup: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	now := s.now().UTC()
	req := LeaveRequest{
		ID:        RequestID(uuid.NewString()),
		UserID:    p.UserID,
		StartDate: start,
		EndDate:   end,
		Status:    StatusPending,
		Reason:    p.Reason,
		CreatedAt: now,
	}
	if p.AutoApprove {
		approver := p.ActorID
		decidedAt := now
		req.Status = StatusApproved
		req.ApproverID = &approver
		req.DecisionAt = &decidedAt
	}

	err = s.store.WithTx(ctx, func(tx Store) error {
		active, err := tx.ListActiveByUser(ctx, p.UserID)
		if err != nil {
			return err
		}
		if HasOverlap(active, p.UserID, req.StartDate, req.EndDate, "") {
			return ErrLeaveOverlap
		}
		return tx.PutRequest(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("leave request created",
		zap.String("request_id", string(req.ID)),
		zap.String("user_id", string(req.UserID)),
		zap.String("status", string(req.Status)))
	return &req, nil
}

// Edit replaces the dates and reason of a pending request in place.
// Status, approver and decision fields are untouched.
func (s *Service) Edit(ctx context.Context, id RequestID, requesterID UserID, newStart, newEnd time.Time, newReason string) (*LeaveRequest, error) {
	start := StartOfDay(newStart)
	end := EndOfDay(newEnd)
	if StartOfDay(end).Before(start) {
		return nil, ErrInvalidRange
	}
	if len(newReason) > MaxReasonLength {
		return nil, ErrReasonTooLong
	}

	var updated LeaveRequest
	err := s.store.WithTx(ctx, func(tx Store) error {
		req, err := tx.GetRequest(ctx, id)
		if err != nil {
			return err
		}
		if req == nil {
			return ErrRequestNotFound
		}
		if req.UserID != requesterID {
			return ErrNotOwner
		}
		if req.Status != StatusPending {
			return ErrNotPending
		}

		active, err := tx.ListActiveByUser(ctx, req.UserID)
		if err != nil {
			return err
		}
		if HasOverlap(active, req.UserID, start, end, req.ID) {
			return ErrLeaveOverlap
		}

		req.StartDate = start
		req.EndDate = end
		req.Reason = newReason
		updated = *req
		return tx.PutRequest(ctx, *req)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("leave request edited", zap.String("request_id", string(id)))
	return &updated, nil
}

// Decide approves or rejects a pending request, setting the approver and
// decision time together. Decision must be StatusApproved or
// StatusRejected. No overlap re-validation happens here.
func (s *Service) Decide(ctx context.Context, id RequestID, approverID UserID, decision RequestStatus) (*LeaveRequest, error) {
	if decision != StatusApproved && decision != StatusRejected {
		return nil, ErrInvalidDecision
	}

	var decided LeaveRequest
	err := s.store.WithTx(ctx, func(tx Store) error {
		req, err := tx.GetRequest(ctx, id)
		if err != nil {
			return err
		}
		if req == nil {
			return ErrRequestNotFound
		}
		if req.Status != StatusPending {
			return ErrNotPending
		}

		approver := approverID
		decidedAt := s.now().UTC()
		req.Status = decision
		req.ApproverID = &approver
		req.DecisionAt = &decidedAt
		decided = *req
		return tx.PutRequest(ctx, *req)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("leave request decided",
		zap.String("request_id", string(id)),
		zap.String("approver_id", string(approverID)),
		zap.String("decision", string(decision)))
	return &decided, nil
}

// Cancel moves a pending request to cancelled. Owner only; approver and
// decision fields stay empty.
func (s *Service) Cancel(ctx context.Context, id RequestID, requesterID UserID) (*LeaveRequest, error) {
	var cancelled LeaveRequest
	err := s.store.WithTx(ctx, func(tx Store) error {
		req, err := tx.GetRequest(ctx, id)
		if err != nil {
			return err
		}
		if req == nil {
			return ErrRequestNotFound
		}
		if req.UserID != requesterID {
			return ErrNotOwner
		}
		if req.Status != StatusPending {
			return ErrNotPending
		}

		req.Status = StatusCancelled
		cancelled = *req
		return tx.PutRequest(ctx, *req)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("leave request cancelled", zap.String("request_id", string(id)))
	return &cancelled, nil
}

// =============================================================================
// READS - Dashboards, calendar, preview
// =============================================================================

// UserDashboard is the self-service view: balance plus full history.
type UserDashboard struct {
	User    User
	Balance BalanceSnapshot
	History []LeaveRequest
}

// GetUserDashboard assembles a user's balance snapshot and request
// history, most recent first.
func (s *Service) GetUserDashboard(ctx context.Context, userID UserID) (*UserDashboard, error) {
	user, err := s.directory.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	requests, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.Slice(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})

	return &UserDashboard{
		User:    *user,
		Balance: ComputeBalance(user.AllocationDays, requests),
		History: requests,
	}, nil
}

// AdminUserRow is one employee on the admin dashboard.
type AdminUserRow struct {
	User                 User
	Balance              BalanceSnapshot
	Status               AdminStatus
	LastApprovedLeaveEnd *time.Time
}

// AdminDashboard is the triage view: every user classified, plus the
// pending approval queue.
type AdminDashboard struct {
	Users           []AdminUserRow
	PendingRequests []LeaveRequest
}

// GetAdminDashboard derives the triage rows for every directory user.
// Balances and statuses are recomputed on each call.
func (s *Service) GetAdminDashboard(ctx context.Context) (*AdminDashboard, error) {
	users, err := s.directory.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	rows := make([]AdminUserRow, 0, len(users))
	for _, u := range users {
		requests, err := s.store.ListByUser(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		balance := ComputeBalance(u.AllocationDays, requests)
		lastEnd := LastApprovedLeaveEnd(requests)
		rows = append(rows, AdminUserRow{
			User:                 u,
			Balance:              balance,
			Status:               s.thresholds.ClassifyBalance(balance, lastEnd, now),
			LastApprovedLeaveEnd: lastEnd,
		})
	}

	pending, err := s.store.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})

	return &AdminDashboard{Users: rows, PendingRequests: pending}, nil
}

// GetMonthCalendar builds the absence view for one month.
func (s *Service) GetMonthCalendar(ctx context.Context, year int, month time.Month) ([]CalendarDay, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	approved, err := s.store.ListApprovedInRange(ctx, first, EndOfDay(last))
	if err != nil {
		return nil, err
	}
	holidays, err := s.holidays.Holidays(ctx, year, year)
	if err != nil {
		return nil, err
	}
	return BuildMonth(year, month, approved, holidays), nil
}

// DayCountPreview is the pre-submission view of a candidate range: the
// day breakdown plus the data the caller needs for its insufficient-days
// warning. The engine itself never blocks an overdraw.
type DayCountPreview struct {
	DayCount            DayCount
	RemainingDays       int
	BalanceAfterPending int
	ExceedsRemaining    bool
}

// PreviewDayCount counts a candidate range against the holiday calendar
// and the user's current balance.
func (s *Service) PreviewDayCount(ctx context.Context, userID UserID, start, end time.Time) (*DayCountPreview, error) {
	if StartOfDay(end).Before(StartOfDay(start)) {
		return nil, ErrInvalidRange
	}

	user, err := s.directory.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	holidays, err := s.holidays.Holidays(ctx, start.Year(), end.Year())
	if err != nil {
		return nil, err
	}
	dc := Count(start, end, holidays)

	requests, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	balance := ComputeBalance(user.AllocationDays, requests)

	return &DayCountPreview{
		DayCount:            dc,
		RemainingDays:       balance.RemainingDays,
		BalanceAfterPending: balance.BalanceAfterPending,
		ExceedsRemaining:    dc.CalendarDays > balance.BalanceAfterPending,
	}, nil
}
