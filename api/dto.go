/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

Dates cross the wire as "YYYY-MM-DD"; timestamps as RFC3339.
Validation is done in handlers; DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/medintra/conges-engine/conges"
)

const dateLayout = "2006-01-02"

// =============================================================================
// REQUEST TYPES
// =============================================================================

// CreateRequestRequest is the body of POST /api/requests.
type CreateRequestRequest struct {
	UserID      string `json:"user_id"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Reason      string `json:"reason,omitempty"`
	AutoApprove bool   `json:"auto_approve,omitempty"`
	ActorID     string `json:"actor_id,omitempty"`
}

// EditRequestRequest is the body of PUT /api/requests/{id}.
type EditRequestRequest struct {
	RequesterID string `json:"requester_id"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Reason      string `json:"reason,omitempty"`
}

// DecideRequestRequest is the body of the approve/reject endpoints.
type DecideRequestRequest struct {
	ApproverID string `json:"approver_id"`
}

// CancelRequestRequest is the body of POST /api/requests/{id}/cancel.
type CancelRequestRequest struct {
	RequesterID string `json:"requester_id"`
}

// CreateUserRequest is the body of POST /api/users.
type CreateUserRequest struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email,omitempty"`
	Role           string `json:"role,omitempty"`
	AllocationDays int    `json:"allocation_days"`
}

// CreateHolidayRequest is the body of POST /api/holidays.
type CreateHolidayRequest struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

// SeedHolidaysRequest is the body of POST /api/holidays/defaults.
type SeedHolidaysRequest struct {
	FromYear int `json:"from_year"`
	ToYear   int `json:"to_year"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// LeaveRequestDTO represents a leave request in API responses.
type LeaveRequestDTO struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	Status     string  `json:"status"`
	Reason     string  `json:"reason,omitempty"`
	ApproverID *string `json:"approver_id,omitempty"`
	DecisionAt *string `json:"decision_at,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

func toLeaveRequestDTO(r conges.LeaveRequest) LeaveRequestDTO {
	dto := LeaveRequestDTO{
		ID:        string(r.ID),
		UserID:    string(r.UserID),
		StartDate: r.StartDate.Format(dateLayout),
		EndDate:   r.EndDate.Format(dateLayout),
		Status:    string(r.Status),
		Reason:    r.Reason,
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
	}
	if r.ApproverID != nil {
		id := string(*r.ApproverID)
		dto.ApproverID = &id
	}
	if r.DecisionAt != nil {
		at := r.DecisionAt.Format(time.RFC3339)
		dto.DecisionAt = &at
	}
	return dto
}

func toLeaveRequestDTOs(requests []conges.LeaveRequest) []LeaveRequestDTO {
	dtos := make([]LeaveRequestDTO, len(requests))
	for i, r := range requests {
		dtos[i] = toLeaveRequestDTO(r)
	}
	return dtos
}

// UserDTO represents a directory record in API responses.
type UserDTO struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email,omitempty"`
	Role           string `json:"role"`
	AllocationDays int    `json:"allocation_days"`
}

func toUserDTO(u conges.User) UserDTO {
	return UserDTO{
		ID:             string(u.ID),
		Name:           u.Name,
		Email:          u.Email,
		Role:           string(u.Role),
		AllocationDays: u.AllocationDays,
	}
}

// BalanceDTO represents a balance snapshot.
type BalanceDTO struct {
	TotalAllocationDays int     `json:"total_allocation_days"`
	ApprovedDays        int     `json:"approved_days"`
	PendingDays         int     `json:"pending_days"`
	RemainingDays       int     `json:"remaining_days"`
	BalanceAfterPending int     `json:"balance_after_pending"`
	PercentUsed         float64 `json:"percent_used"`
}

func toBalanceDTO(b conges.BalanceSnapshot) BalanceDTO {
	percent, _ := b.PercentUsed.Round(1).Float64()
	return BalanceDTO{
		TotalAllocationDays: b.TotalAllocationDays,
		ApprovedDays:        b.ApprovedDays,
		PendingDays:         b.PendingDays,
		RemainingDays:       b.RemainingDays,
		BalanceAfterPending: b.BalanceAfterPending,
		PercentUsed:         percent,
	}
}

// UserDashboardDTO is the self-service dashboard response.
type UserDashboardDTO struct {
	User    UserDTO           `json:"user"`
	Balance BalanceDTO        `json:"balance"`
	History []LeaveRequestDTO `json:"history"`
}

// AdminUserRowDTO is one employee row on the admin dashboard.
type AdminUserRowDTO struct {
	User                 UserDTO    `json:"user"`
	Balance              BalanceDTO `json:"balance"`
	Status               string     `json:"status"`
	LastApprovedLeaveEnd *string    `json:"last_approved_leave_end,omitempty"`
}

// AdminDashboardDTO is the admin dashboard response.
type AdminDashboardDTO struct {
	Users           []AdminUserRowDTO `json:"users"`
	PendingRequests []LeaveRequestDTO `json:"pending_requests"`
}

// CalendarDayDTO is one day of the month view.
type CalendarDayDTO struct {
	Date      string        `json:"date"`
	Weekend   bool          `json:"weekend"`
	Holiday   string        `json:"holiday,omitempty"`
	Absentees []AbsenteeDTO `json:"absentees"`
}

// AbsenteeDTO identifies an absent user on a day.
type AbsenteeDTO struct {
	UserID    string `json:"user_id"`
	RequestID string `json:"request_id"`
}

func toCalendarDayDTOs(days []conges.CalendarDay) []CalendarDayDTO {
	dtos := make([]CalendarDayDTO, len(days))
	for i, d := range days {
		dto := CalendarDayDTO{
			Date:      d.Date.Format(dateLayout),
			Weekend:   d.Weekend,
			Holiday:   d.Holiday,
			Absentees: make([]AbsenteeDTO, 0, len(d.Absentees)),
		}
		for _, a := range d.Absentees {
			dto.Absentees = append(dto.Absentees, AbsenteeDTO{
				UserID:    string(a.UserID),
				RequestID: string(a.RequestID),
			})
		}
		dtos[i] = dto
	}
	return dtos
}

// DayCountPreviewDTO is the pre-submission day-count response.
type DayCountPreviewDTO struct {
	CalendarDays        int                  `json:"calendar_days"`
	WorkingDays         int                  `json:"working_days"`
	ExcludedWeekendDays int                  `json:"excluded_weekend_days"`
	ExcludedHolidays    []ExcludedHolidayDTO `json:"excluded_holidays"`
	RemainingDays       int                  `json:"remaining_days"`
	BalanceAfterPending int                  `json:"balance_after_pending"`
	ExceedsRemaining    bool                 `json:"exceeds_remaining"`
}

// ExcludedHolidayDTO is a holiday inside a previewed range.
type ExcludedHolidayDTO struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

// HolidayDTO represents a persisted holiday row.
type HolidayDTO struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Name string `json:"name"`
}
