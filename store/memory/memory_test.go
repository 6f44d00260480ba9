package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medintra/conges-engine/conges"
	"github.com/medintra/conges-engine/store/memory"
)

func day(d int) time.Time {
	return time.Date(2025, time.October, d, 0, 0, 0, 0, time.UTC)
}

func pendingRequest(id, userID string, start, end int) conges.LeaveRequest {
	return conges.LeaveRequest{
		ID:        conges.RequestID(id),
		UserID:    conges.UserID(userID),
		StartDate: conges.StartOfDay(day(start)),
		EndDate:   conges.EndOfDay(day(end)),
		Status:    conges.StatusPending,
		CreatedAt: time.Now().UTC(),
	}
}

func TestMemory_RoundTrip(t *testing.T) {
	// GIVEN: An empty store
	// WHEN: Putting and reading back a request
	// THEN: The copy matches and mutations of it don't leak into the store

	store := memory.New()
	ctx := context.Background()

	req := pendingRequest("r1", "alice", 6, 10)
	require.NoError(t, store.PutRequest(ctx, req))

	got, err := store.GetRequest(ctx, "r1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, req.ID, got.ID)

	got.Status = conges.StatusApproved
	again, _ := store.GetRequest(ctx, "r1")
	assert.Equal(t, conges.StatusPending, again.Status, "reads return copies")
}

func TestMemory_GetRequest_Missing(t *testing.T) {
	store := memory.New()

	got, err := store.GetRequest(context.Background(), "nope")

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemory_ListActiveByUser(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	r1 := pendingRequest("r1", "alice", 1, 2)
	r2 := pendingRequest("r2", "alice", 10, 12)
	r2.Status = conges.StatusCancelled
	r3 := pendingRequest("r3", "bob", 1, 2)
	require.NoError(t, store.PutRequest(ctx, r1))
	require.NoError(t, store.PutRequest(ctx, r2))
	require.NoError(t, store.PutRequest(ctx, r3))

	active, err := store.ListActiveByUser(ctx, "alice")
	require.NoError(t, err)

	require.Len(t, active, 1)
	assert.Equal(t, conges.RequestID("r1"), active[0].ID)
}

func TestMemory_WithTx_RollsBackOnError(t *testing.T) {
	// GIVEN: A transaction that writes then fails
	// WHEN: WithTx returns the error
	// THEN: The write is discarded

	store := memory.New()
	ctx := context.Background()

	boom := errors.New("boom")
	err := store.WithTx(ctx, func(tx conges.Store) error {
		if err := tx.PutRequest(ctx, pendingRequest("r1", "alice", 1, 2)); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, _ := store.GetRequest(ctx, "r1")
	assert.Nil(t, got)
}

func TestMemory_WithTx_WritesVisibleInside(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	err := store.WithTx(ctx, func(tx conges.Store) error {
		if err := tx.PutRequest(ctx, pendingRequest("r1", "alice", 1, 2)); err != nil {
			return err
		}
		got, err := tx.GetRequest(ctx, "r1")
		if err != nil {
			return err
		}
		require.NotNil(t, got)
		return nil
	})
	require.NoError(t, err)

	got, _ := store.GetRequest(ctx, "r1")
	assert.NotNil(t, got)
}
