/*
handlers.go - HTTP handlers for the leave engine

PURPOSE:
  Exposes the engine over REST. Handlers parse and validate transport
  concerns (JSON, date formats, URL params), delegate to the lifecycle
  service or the store, and map the engine's error taxonomy to HTTP
  status codes.

ENDPOINTS:
  Requests:
    POST   /api/requests                 Create a leave request
    PUT    /api/requests/{id}            Edit a pending request (owner)
    POST   /api/requests/{id}/approve    Approve (sets approver+time)
    POST   /api/requests/{id}/reject     Reject
    POST   /api/requests/{id}/cancel     Cancel (owner)
    GET    /api/requests/pending         Approval queue

  Dashboards:
    GET    /api/users/{id}/dashboard     Balance + history
    GET    /api/admin/dashboard          Per-user triage + pending queue

  Calendar & preview:
    GET    /api/calendar/{year}/{month}  Month absence view
    GET    /api/daycount                 Working-day preview for a range

  Directory & holidays (administration):
    GET/POST /api/users
    GET/POST /api/holidays, POST /api/holidays/defaults,
    DELETE /api/holidays/{id}

ERROR MAPPING:
  invalidRange/reason/decision 400, notOwner 403, not found 404,
  leaveOverlap/notPending 409, anything else 500.

SECURITY NOTE:
  Caller identity arrives in request bodies (requester_id, approver_id);
  session-based authentication is the portal shell's concern, not the
  engine's. Auto-approval is honored only when the acting user holds the
  admin role.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/medintra/conges-engine/conges"
	"github.com/medintra/conges-engine/holiday"
	"github.com/medintra/conges-engine/store/sqlite"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Svc   *conges.Service
	Store *sqlite.Store
	Log   *zap.Logger
}

// NewHandler creates a handler around the lifecycle service and the
// store used for directory/holiday administration.
func NewHandler(svc *conges.Service, store *sqlite.Store, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Svc: svc, Store: store, Log: log}
}

// =============================================================================
// REQUEST LIFECYCLE HANDLERS
// =============================================================================

// CreateRequest submits a new leave request.
// POST /api/requests
func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req CreateRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	params := conges.CreateParams{
		UserID: conges.UserID(req.UserID),
		Start:  start,
		End:    end,
		Reason: req.Reason,
	}

	if req.AutoApprove {
		actor, err := h.Store.GetUser(r.Context(), conges.UserID(req.ActorID))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to look up actor", err)
			return
		}
		if actor == nil || actor.Role != conges.RoleAdmin {
			writeError(w, http.StatusForbidden, "Auto-approval requires an admin actor", nil)
			return
		}
		params.AutoApprove = true
		params.ActorID = actor.ID
	}

	created, err := h.Svc.Create(r.Context(), params)
	if err != nil {
		writeEngineError(w, "Failed to create request", err)
		return
	}
	writeJSON(w, http.StatusCreated, toLeaveRequestDTO(*created))
}

// EditRequest replaces a pending request's dates and reason.
// PUT /api/requests/{id}
func (h *Handler) EditRequest(w http.ResponseWriter, r *http.Request) {
	id := conges.RequestID(chi.URLParam(r, "id"))

	var req EditRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	updated, err := h.Svc.Edit(r.Context(), id, conges.UserID(req.RequesterID), start, end, req.Reason)
	if err != nil {
		writeEngineError(w, "Failed to edit request", err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaveRequestDTO(*updated))
}

// ApproveRequest approves a pending request.
// POST /api/requests/{id}/approve
func (h *Handler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, conges.StatusApproved)
}

// RejectRequest rejects a pending request.
// POST /api/requests/{id}/reject
func (h *Handler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, conges.StatusRejected)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, decision conges.RequestStatus) {
	id := conges.RequestID(chi.URLParam(r, "id"))

	var req DecideRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	decided, err := h.Svc.Decide(r.Context(), id, conges.UserID(req.ApproverID), decision)
	if err != nil {
		writeEngineError(w, "Failed to decide request", err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaveRequestDTO(*decided))
}

// CancelRequest cancels a pending request.
// POST /api/requests/{id}/cancel
func (h *Handler) CancelRequest(w http.ResponseWriter, r *http.Request) {
	id := conges.RequestID(chi.URLParam(r, "id"))

	var req CancelRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	cancelled, err := h.Svc.Cancel(r.Context(), id, conges.UserID(req.RequesterID))
	if err != nil {
		writeEngineError(w, "Failed to cancel request", err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaveRequestDTO(*cancelled))
}

// ListPendingRequests returns the approval queue, oldest first.
// GET /api/requests/pending
func (h *Handler) ListPendingRequests(w http.ResponseWriter, r *http.Request) {
	pending, err := h.Store.ListPending(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list pending requests", err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaveRequestDTOs(pending))
}

// =============================================================================
// DASHBOARD HANDLERS
// =============================================================================

// GetUserDashboard returns a user's balance and request history.
// GET /api/users/{id}/dashboard
func (h *Handler) GetUserDashboard(w http.ResponseWriter, r *http.Request) {
	userID := conges.UserID(chi.URLParam(r, "id"))

	dash, err := h.Svc.GetUserDashboard(r.Context(), userID)
	if err != nil {
		writeEngineError(w, "Failed to build dashboard", err)
		return
	}

	writeJSON(w, http.StatusOK, UserDashboardDTO{
		User:    toUserDTO(dash.User),
		Balance: toBalanceDTO(dash.Balance),
		History: toLeaveRequestDTOs(dash.History),
	})
}

// GetAdminDashboard returns triage rows for every user plus the pending
// queue.
// GET /api/admin/dashboard
func (h *Handler) GetAdminDashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.Svc.GetAdminDashboard(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build admin dashboard", err)
		return
	}

	rows := make([]AdminUserRowDTO, len(dash.Users))
	for i, row := range dash.Users {
		dto := AdminUserRowDTO{
			User:    toUserDTO(row.User),
			Balance: toBalanceDTO(row.Balance),
			Status:  string(row.Status),
		}
		if row.LastApprovedLeaveEnd != nil {
			end := row.LastApprovedLeaveEnd.Format(dateLayout)
			dto.LastApprovedLeaveEnd = &end
		}
		rows[i] = dto
	}

	writeJSON(w, http.StatusOK, AdminDashboardDTO{
		Users:           rows,
		PendingRequests: toLeaveRequestDTOs(dash.PendingRequests),
	})
}

// =============================================================================
// CALENDAR & PREVIEW HANDLERS
// =============================================================================

// GetMonthCalendar returns the day-by-day absence view for a month.
// GET /api/calendar/{year}/{month}
func (h *Handler) GetMonthCalendar(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "Invalid month", err)
		return
	}

	days, err := h.Svc.GetMonthCalendar(r.Context(), year, time.Month(month))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build calendar", err)
		return
	}
	writeJSON(w, http.StatusOK, toCalendarDayDTOs(days))
}

// PreviewDayCount counts a candidate range for the submission form.
// GET /api/daycount?user_id=...&start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *Handler) PreviewDayCount(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, end, err := parseRange(q.Get("start"), q.Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	preview, err := h.Svc.PreviewDayCount(r.Context(), conges.UserID(q.Get("user_id")), start, end)
	if err != nil {
		writeEngineError(w, "Failed to preview day count", err)
		return
	}

	dto := DayCountPreviewDTO{
		CalendarDays:        preview.DayCount.CalendarDays,
		WorkingDays:         preview.DayCount.WorkingDays,
		ExcludedWeekendDays: preview.DayCount.ExcludedWeekendDays,
		ExcludedHolidays:    make([]ExcludedHolidayDTO, 0, len(preview.DayCount.ExcludedHolidays)),
		RemainingDays:       preview.RemainingDays,
		BalanceAfterPending: preview.BalanceAfterPending,
		ExceedsRemaining:    preview.ExceedsRemaining,
	}
	for _, eh := range preview.DayCount.ExcludedHolidays {
		dto.ExcludedHolidays = append(dto.ExcludedHolidays, ExcludedHolidayDTO{
			Date: eh.Date.Format(dateLayout),
			Name: eh.Name,
		})
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// DIRECTORY HANDLERS
// =============================================================================

// ListUsers returns all directory records.
// GET /api/users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Store.ListUsers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list users", err)
		return
	}

	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = toUserDTO(u)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateUser creates or updates a directory record. Allocation changes
// overwrite in place.
// POST /api/users
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}

	role := conges.Role(req.Role)
	if role == "" {
		role = conges.RoleEmployee
	}

	user := conges.User{
		ID:             conges.UserID(req.ID),
		Name:           req.Name,
		Email:          req.Email,
		Role:           role,
		AllocationDays: req.AllocationDays,
	}
	if err := h.Store.SaveUser(r.Context(), user); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save user", err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserDTO(user))
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

// ListHolidays returns all holiday rows.
// GET /api/holidays
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.Store.ListHolidays(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list holidays", err)
		return
	}

	dtos := make([]HolidayDTO, len(holidays))
	for i, hd := range holidays {
		dtos[i] = HolidayDTO{ID: hd.ID, Date: hd.Date.Format(dateLayout), Name: hd.Name}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateHoliday adds one holiday row.
// POST /api/holidays
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}

	hd := conges.Holiday{ID: uuid.NewString(), Date: date, Name: req.Name}
	if err := h.Store.SaveHoliday(r.Context(), hd); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save holiday", err)
		return
	}
	writeJSON(w, http.StatusCreated, HolidayDTO{ID: hd.ID, Date: req.Date, Name: hd.Name})
}

// SeedDefaultHolidays loads the French public holidays for a year range
// into the holiday table.
// POST /api/holidays/defaults
func (h *Handler) SeedDefaultHolidays(w http.ResponseWriter, r *http.Request) {
	var req SeedHolidaysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.FromYear == 0 {
		req.FromYear = time.Now().Year()
	}
	if req.ToYear < req.FromYear {
		req.ToYear = req.FromYear
	}

	seeded := 0
	for date, name := range holiday.FrenchHolidays(req.FromYear, req.ToYear) {
		d, err := time.Parse(dateLayout, date)
		if err != nil {
			continue
		}
		if err := h.Store.SaveHoliday(r.Context(), conges.Holiday{
			ID:   uuid.NewString(),
			Date: d,
			Name: name,
		}); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to seed holidays", err)
			return
		}
		seeded++
	}
	writeJSON(w, http.StatusOK, map[string]any{"seeded": seeded})
}

// DeleteHoliday removes one holiday row.
// DELETE /api/holidays/{id}
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteHoliday(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete holiday", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

// =============================================================================
// HELPERS
// =============================================================================

func parseRange(start, end string) (time.Time, time.Time, error) {
	s, err := time.Parse(dateLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start date: %w", err)
	}
	e, err := time.Parse(dateLayout, end)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end date: %w", err)
	}
	return s, e, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeEngineError maps the engine's error taxonomy to HTTP status codes.
func writeEngineError(w http.ResponseWriter, message string, err error) {
	switch {
	case conges.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	case errors.Is(err, conges.ErrNotOwner):
		writeError(w, http.StatusForbidden, message, err)
	case conges.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case conges.IsConflict(err):
		writeError(w, http.StatusConflict, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
