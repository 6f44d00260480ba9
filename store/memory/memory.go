// Package memory provides an in-memory store and directory for tests and
// development. WithTx serializes under the store mutex and rolls back via
// snapshot, which makes it a faithful stand-in for the SQLite store's
// atomicity guarantee within a single process.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/medintra/conges-engine/conges"
)

// =============================================================================
// MEMORY STORE - conges.TxStore + conges.Directory
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	requests map[conges.RequestID]conges.LeaveRequest
	users    map[conges.UserID]conges.User
}

func New() *Memory {
	return &Memory{
		requests: make(map[conges.RequestID]conges.LeaveRequest),
		users:    make(map[conges.UserID]conges.User),
	}
}

// =============================================================================
// REQUEST STORE
// =============================================================================

func (m *Memory) PutRequest(_ context.Context, req conges.LeaveRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[req.ID] = req
	return nil
}

func (m *Memory) GetRequest(_ context.Context, id conges.RequestID) (*conges.LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getLocked(id), nil
}

func (m *Memory) ListByUser(_ context.Context, userID conges.UserID) ([]conges.LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listLocked(func(r conges.LeaveRequest) bool { return r.UserID == userID }), nil
}

func (m *Memory) ListActiveByUser(_ context.Context, userID conges.UserID) ([]conges.LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listLocked(func(r conges.LeaveRequest) bool {
		return r.UserID == userID && r.Status.Active()
	}), nil
}

func (m *Memory) ListPending(_ context.Context) ([]conges.LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listLocked(func(r conges.LeaveRequest) bool { return r.Status == conges.StatusPending }), nil
}

func (m *Memory) ListApprovedInRange(_ context.Context, from, to time.Time) ([]conges.LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listLocked(func(r conges.LeaveRequest) bool {
		return r.Status == conges.StatusApproved && conges.Overlaps(from, to, r.StartDate, r.EndDate)
	}), nil
}

func (m *Memory) getLocked(id conges.RequestID) *conges.LeaveRequest {
	r, ok := m.requests[id]
	if !ok {
		return nil
	}
	cp := r
	return &cp
}

func (m *Memory) listLocked(keep func(conges.LeaveRequest) bool) []conges.LeaveRequest {
	var result []conges.LeaveRequest
	for _, r := range m.requests {
		if keep(r) {
			result = append(result, r)
		}
	}
	return result
}

// =============================================================================
// TRANSACTIONS - Snapshot + rollback under the store mutex
// =============================================================================

// WithTx holds the write lock for the whole callback, so concurrent
// check-then-act sequences are serialized. On error the request map is
// restored from a snapshot.
func (m *Memory) WithTx(ctx context.Context, fn func(conges.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := make(map[conges.RequestID]conges.LeaveRequest, len(m.requests))
	for k, v := range m.requests {
		snapshot[k] = v
	}

	if err := fn(&txView{parent: m}); err != nil {
		m.requests = snapshot
		return err
	}
	return nil
}

// txView accesses the parent without re-locking; only valid inside WithTx.
type txView struct {
	parent *Memory
}

func (tv *txView) PutRequest(_ context.Context, req conges.LeaveRequest) error {
	tv.parent.requests[req.ID] = req
	return nil
}

func (tv *txView) GetRequest(_ context.Context, id conges.RequestID) (*conges.LeaveRequest, error) {
	return tv.parent.getLocked(id), nil
}

func (tv *txView) ListByUser(_ context.Context, userID conges.UserID) ([]conges.LeaveRequest, error) {
	return tv.parent.listLocked(func(r conges.LeaveRequest) bool { return r.UserID == userID }), nil
}

func (tv *txView) ListActiveByUser(_ context.Context, userID conges.UserID) ([]conges.LeaveRequest, error) {
	return tv.parent.listLocked(func(r conges.LeaveRequest) bool {
		return r.UserID == userID && r.Status.Active()
	}), nil
}

func (tv *txView) ListPending(_ context.Context) ([]conges.LeaveRequest, error) {
	return tv.parent.listLocked(func(r conges.LeaveRequest) bool { return r.Status == conges.StatusPending }), nil
}

func (tv *txView) ListApprovedInRange(_ context.Context, from, to time.Time) ([]conges.LeaveRequest, error) {
	return tv.parent.listLocked(func(r conges.LeaveRequest) bool {
		return r.Status == conges.StatusApproved && conges.Overlaps(from, to, r.StartDate, r.EndDate)
	}), nil
}

// =============================================================================
// DIRECTORY - conges.Directory
// =============================================================================

func (m *Memory) PutUser(_ context.Context, u conges.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	return nil
}

func (m *Memory) GetUser(_ context.Context, id conges.UserID) (*conges.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := u
	return &cp, nil
}

func (m *Memory) ListUsers(_ context.Context) ([]conges.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]conges.User, 0, len(m.users))
	for _, u := range m.users {
		result = append(result, u)
	}
	return result, nil
}
