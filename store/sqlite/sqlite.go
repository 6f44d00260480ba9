/*
Package sqlite provides the SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements conges.TxStore, conges.Directory and conges.HolidayProvider
  on SQLite. In production the same patterns apply to PostgreSQL - only
  minor SQL dialect differences.

KEY TABLES:
  leave_requests: One row per request; status transitions update in place
  users:          Directory records with the yearly allocation
  holidays:       Admin-managed holiday dates the engine consumes as a map

ATOMICITY:
  The database is opened with _txlock=immediate, so WithTx takes the
  write lock at BEGIN. Two concurrent create operations for the same user
  therefore serialize: the second transaction sees the first one's insert
  and its overlap check fails. This is the storage-boundary guarantee the
  engine's check-then-act pattern relies on; it holds across processes
  sharing the database file.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so readers don't block
  behind the single writer.

USAGE:
  store, err := sqlite.New("./data/conges.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := conges.NewService(store, store, store)

SEE ALSO:
  - conges/store.go: Interface definitions and the atomicity contract
  - store/memory: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/medintra/conges-engine/conges"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a SQLite store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Directory records. allocation_days is overwritten in place; no
	-- history of past values is kept.
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		role TEXT NOT NULL DEFAULT 'employee',
		allocation_days INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	-- Leave requests. Dates are stored normalized (start 00:00:00,
	-- end 23:59:59, UTC, RFC3339).
	CREATE TABLE IF NOT EXISTS leave_requests (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		reason TEXT,
		approver_id TEXT,
		decision_at TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_requests_user
		ON leave_requests(user_id);
	CREATE INDEX IF NOT EXISTS idx_requests_status
		ON leave_requests(status);
	-- Hot path: conflict detection loads a user's active requests.
	CREATE INDEX IF NOT EXISTS idx_requests_user_status
		ON leave_requests(user_id, status);
	-- Calendar aggregation scans approved requests by date range.
	CREATE INDEX IF NOT EXISTS idx_requests_status_dates
		ON leave_requests(status, start_date, end_date);

	-- Admin-managed holidays, flattened into the date -> name map.
	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_holidays_unique
		ON holidays(date, name);
	CREATE INDEX IF NOT EXISTS idx_holidays_date
		ON holidays(date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// querier abstracts *sql.DB and *sql.Tx so the same queries serve both.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// =============================================================================
// REQUEST STORE (conges.Store interface)
// =============================================================================

func (s *Store) PutRequest(ctx context.Context, req conges.LeaveRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return putRequest(ctx, s.db, req)
}

func putRequest(ctx context.Context, db querier, req conges.LeaveRequest) error {
	query := `
		INSERT INTO leave_requests
		(id, user_id, start_date, end_date, status, reason, approver_id, decision_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			status = excluded.status,
			reason = excluded.reason,
			approver_id = excluded.approver_id,
			decision_at = excluded.decision_at
	`

	var approverID sql.NullString
	if req.ApproverID != nil {
		approverID = sql.NullString{String: string(*req.ApproverID), Valid: true}
	}
	var decisionAt sql.NullString
	if req.DecisionAt != nil {
		decisionAt = sql.NullString{String: req.DecisionAt.UTC().Format(time.RFC3339), Valid: true}
	}

	_, err := db.ExecContext(ctx, query,
		req.ID,
		req.UserID,
		req.StartDate.UTC().Format(time.RFC3339),
		req.EndDate.UTC().Format(time.RFC3339),
		req.Status,
		nullString(req.Reason),
		approverID,
		decisionAt,
		req.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			// A storage-level conflict on active ranges surfaces as the
			// domain's overlap error, never as a raw store error.
			return conges.ErrLeaveOverlap
		}
		return fmt.Errorf("failed to save request: %w", err)
	}
	return nil
}

const selectRequests = `
	SELECT id, user_id, start_date, end_date, status, reason, approver_id, decision_at, created_at
	FROM leave_requests
`

func (s *Store) GetRequest(ctx context.Context, id conges.RequestID) (*conges.LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getRequest(ctx, s.db, id)
}

func getRequest(ctx context.Context, db querier, id conges.RequestID) (*conges.LeaveRequest, error) {
	requests, err := queryRequests(ctx, db, selectRequests+" WHERE id = ?", id)
	if err != nil || len(requests) == 0 {
		return nil, err
	}
	return &requests[0], nil
}

func (s *Store) ListByUser(ctx context.Context, userID conges.UserID) ([]conges.LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return queryRequests(ctx, s.db,
		selectRequests+" WHERE user_id = ? ORDER BY start_date ASC", userID)
}

func (s *Store) ListActiveByUser(ctx context.Context, userID conges.UserID) ([]conges.LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listActiveByUser(ctx, s.db, userID)
}

func listActiveByUser(ctx context.Context, db querier, userID conges.UserID) ([]conges.LeaveRequest, error) {
	return queryRequests(ctx, db,
		selectRequests+" WHERE user_id = ? AND status IN ('pending', 'approved') ORDER BY start_date ASC",
		userID)
}

func (s *Store) ListPending(ctx context.Context) ([]conges.LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return queryRequests(ctx, s.db,
		selectRequests+" WHERE status = 'pending' ORDER BY created_at ASC")
}

func (s *Store) ListApprovedInRange(ctx context.Context, from, to time.Time) ([]conges.LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listApprovedInRange(ctx, s.db, from, to)
}

func listApprovedInRange(ctx context.Context, db querier, from, to time.Time) ([]conges.LeaveRequest, error) {
	// Inclusive range intersection: start <= to AND end >= from.
	return queryRequests(ctx, db,
		selectRequests+` WHERE status = 'approved' AND start_date <= ? AND end_date >= ?
		ORDER BY start_date ASC`,
		conges.EndOfDay(to).Format(time.RFC3339),
		conges.StartOfDay(from).Format(time.RFC3339))
}

func queryRequests(ctx context.Context, db querier, query string, args ...any) ([]conges.LeaveRequest, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}
	defer rows.Close()

	var requests []conges.LeaveRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

func scanRequest(rows *sql.Rows) (conges.LeaveRequest, error) {
	var (
		req        conges.LeaveRequest
		startDate  string
		endDate    string
		reason     sql.NullString
		approverID sql.NullString
		decisionAt sql.NullString
		createdAt  string
	)

	err := rows.Scan(&req.ID, &req.UserID, &startDate, &endDate, &req.Status,
		&reason, &approverID, &decisionAt, &createdAt)
	if err != nil {
		return req, fmt.Errorf("failed to scan request: %w", err)
	}

	req.StartDate, _ = time.Parse(time.RFC3339, startDate)
	req.EndDate, _ = time.Parse(time.RFC3339, endDate)
	req.Reason = reason.String
	if approverID.Valid {
		id := conges.UserID(approverID.String)
		req.ApproverID = &id
	}
	if decisionAt.Valid {
		t, _ := time.Parse(time.RFC3339, decisionAt.String)
		req.DecisionAt = &t
	}
	req.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return req, nil
}

// =============================================================================
// TRANSACTIONS (conges.TxStore interface)
// =============================================================================

// WithTx executes fn atomically. The connection's _txlock=immediate means
// the write lock is taken at BEGIN, so concurrent check-then-act
// sequences serialize at the storage boundary.
func (s *Store) WithTx(ctx context.Context, fn func(conges.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&txStore{tx: sqlTx}); err != nil {
		return err
	}
	return sqlTx.Commit()
}

// txStore is the Store view bound to one SQL transaction.
type txStore struct {
	tx *sql.Tx
}

func (ts *txStore) PutRequest(ctx context.Context, req conges.LeaveRequest) error {
	return putRequest(ctx, ts.tx, req)
}

func (ts *txStore) GetRequest(ctx context.Context, id conges.RequestID) (*conges.LeaveRequest, error) {
	return getRequest(ctx, ts.tx, id)
}

func (ts *txStore) ListByUser(ctx context.Context, userID conges.UserID) ([]conges.LeaveRequest, error) {
	return queryRequests(ctx, ts.tx,
		selectRequests+" WHERE user_id = ? ORDER BY start_date ASC", userID)
}

func (ts *txStore) ListActiveByUser(ctx context.Context, userID conges.UserID) ([]conges.LeaveRequest, error) {
	return listActiveByUser(ctx, ts.tx, userID)
}

func (ts *txStore) ListPending(ctx context.Context) ([]conges.LeaveRequest, error) {
	return queryRequests(ctx, ts.tx,
		selectRequests+" WHERE status = 'pending' ORDER BY created_at ASC")
}

func (ts *txStore) ListApprovedInRange(ctx context.Context, from, to time.Time) ([]conges.LeaveRequest, error) {
	return listApprovedInRange(ctx, ts.tx, from, to)
}

// =============================================================================
// DIRECTORY (conges.Directory interface)
// =============================================================================

// SaveUser inserts or replaces a directory record. Allocation changes
// overwrite in place.
func (s *Store) SaveUser(ctx context.Context, u conges.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := u.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := `
		INSERT INTO users (id, name, email, role, allocation_days, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			role = excluded.role,
			allocation_days = excluded.allocation_days
	`
	_, err := s.db.ExecContext(ctx, query,
		u.ID, u.Name, nullString(u.Email), u.Role, u.AllocationDays,
		createdAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

const selectUsers = `
	SELECT id, name, email, role, allocation_days, created_at FROM users
`

func (s *Store) GetUser(ctx context.Context, id conges.UserID) (*conges.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users, err := s.queryUsers(ctx, selectUsers+" WHERE id = ?", id)
	if err != nil || len(users) == 0 {
		return nil, err
	}
	return &users[0], nil
}

func (s *Store) ListUsers(ctx context.Context) ([]conges.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryUsers(ctx, selectUsers+" ORDER BY name ASC")
}

func (s *Store) queryUsers(ctx context.Context, query string, args ...any) ([]conges.User, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []conges.User
	for rows.Next() {
		var (
			u         conges.User
			email     sql.NullString
			createdAt string
		)
		if err := rows.Scan(&u.ID, &u.Name, &email, &u.Role, &u.AllocationDays, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		u.Email = email.String
		u.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		users = append(users, u)
	}
	return users, rows.Err()
}

// =============================================================================
// HOLIDAYS (conges.HolidayProvider interface + administration)
// =============================================================================

// Holidays flattens the holiday table into the date -> name map for the
// inclusive year range.
func (s *Store) Holidays(ctx context.Context, fromYear, toYear int) (conges.HolidayMap, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT date, name FROM holidays WHERE date >= ? AND date <= ?",
		fmt.Sprintf("%04d-01-01", fromYear),
		fmt.Sprintf("%04d-12-31", toYear))
	if err != nil {
		return nil, fmt.Errorf("failed to query holidays: %w", err)
	}
	defer rows.Close()

	holidays := make(conges.HolidayMap)
	for rows.Next() {
		var date, name string
		if err := rows.Scan(&date, &name); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		holidays[date] = name
	}
	return holidays, rows.Err()
}

// SaveHoliday upserts one holiday row. Duplicate date+name pairs are
// ignored so re-seeding defaults is harmless.
func (s *Store) SaveHoliday(ctx context.Context, h conges.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO holidays (id, date, name, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(date, name) DO NOTHING`,
		h.ID, conges.ISODate(h.Date), h.Name, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save holiday: %w", err)
	}
	return nil
}

// ListHolidays returns all holiday rows ordered by date.
func (s *Store) ListHolidays(ctx context.Context) ([]conges.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, date, name, created_at FROM holidays ORDER BY date ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query holidays: %w", err)
	}
	defer rows.Close()

	var holidays []conges.Holiday
	for rows.Next() {
		var (
			h         conges.Holiday
			date      string
			createdAt string
		)
		if err := rows.Scan(&h.ID, &date, &h.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		h.Date, _ = time.Parse("2006-01-02", date)
		h.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// DeleteHoliday removes one holiday row.
func (s *Store) DeleteHoliday(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM holidays WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key"))
}
