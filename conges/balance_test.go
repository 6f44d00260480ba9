package conges_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medintra/conges-engine/conges"
)

// =============================================================================
// BALANCE DERIVATION TESTS
// =============================================================================

func TestComputeBalance_ApprovedAndPending(t *testing.T) {
	// GIVEN: Allocation of 30; one 9-day approved request, one 3-day pending
	// WHEN: Deriving the balance
	// THEN: approved=9 pending=3 remaining=21 afterPending=18, pct=30

	requests := []conges.LeaveRequest{
		request("r1", "alice", conges.StatusApproved, day(2025, time.June, 2), day(2025, time.June, 10)),
		request("r2", "alice", conges.StatusPending, day(2025, time.July, 1), day(2025, time.July, 3)),
	}

	b := conges.ComputeBalance(30, requests)

	assert.Equal(t, 30, b.TotalAllocationDays)
	assert.Equal(t, 9, b.ApprovedDays)
	assert.Equal(t, 3, b.PendingDays)
	assert.Equal(t, 21, b.RemainingDays)
	assert.Equal(t, 18, b.BalanceAfterPending)
	assert.True(t, b.PercentUsed.Equal(decimal.NewFromInt(30)),
		"percent used should be 30, got %s", b.PercentUsed)
}

func TestComputeBalance_CalendarDaysNotWorkingDays(t *testing.T) {
	// GIVEN: An approved Monday-to-Sunday week (5 working, 7 calendar days)
	// WHEN: Deriving the balance
	// THEN: The ledger charges calendar days, weekends included

	requests := []conges.LeaveRequest{
		request("r1", "alice", conges.StatusApproved, day(2025, time.June, 2), day(2025, time.June, 8)),
	}

	b := conges.ComputeBalance(30, requests)

	assert.Equal(t, 7, b.ApprovedDays)
}

func TestComputeBalance_TerminalInactiveContributeNothing(t *testing.T) {
	// GIVEN: Rejected and cancelled requests alongside one approved day
	// WHEN: Deriving the balance
	// THEN: Only the approved request is charged

	requests := []conges.LeaveRequest{
		request("r1", "alice", conges.StatusApproved, day(2025, time.June, 2), day(2025, time.June, 2)),
		request("r2", "alice", conges.StatusRejected, day(2025, time.June, 10), day(2025, time.June, 20)),
		request("r3", "alice", conges.StatusCancelled, day(2025, time.July, 1), day(2025, time.July, 15)),
	}

	b := conges.ComputeBalance(30, requests)

	assert.Equal(t, 1, b.ApprovedDays)
	assert.Equal(t, 0, b.PendingDays)
	assert.Equal(t, 29, b.RemainingDays)
}

func TestComputeBalance_OverdrawClampsToZero(t *testing.T) {
	// GIVEN: 40 approved days against an allocation of 30
	// WHEN: Deriving the balance
	// THEN: Remaining clamps to 0 and percent used caps at 100

	requests := []conges.LeaveRequest{
		request("r1", "alice", conges.StatusApproved, day(2025, time.June, 1), day(2025, time.July, 10)),
	}

	b := conges.ComputeBalance(30, requests)

	assert.Equal(t, 40, b.ApprovedDays)
	assert.Equal(t, 0, b.RemainingDays)
	assert.Equal(t, 0, b.BalanceAfterPending)
	assert.True(t, b.PercentUsed.Equal(decimal.NewFromInt(100)),
		"percent used caps at 100, got %s", b.PercentUsed)
}

func TestComputeBalance_PendingOverdrawClampsAfterPending(t *testing.T) {
	// GIVEN: 25 remaining but 30 pending days
	// WHEN: Deriving the balance
	// THEN: balanceAfterPending clamps to 0, remaining is untouched

	requests := []conges.LeaveRequest{
		request("r1", "alice", conges.StatusApproved, day(2025, time.June, 1), day(2025, time.June, 5)),
		request("r2", "alice", conges.StatusPending, day(2025, time.July, 1), day(2025, time.July, 30)),
	}

	b := conges.ComputeBalance(30, requests)

	assert.Equal(t, 25, b.RemainingDays)
	assert.Equal(t, 30, b.PendingDays)
	assert.Equal(t, 0, b.BalanceAfterPending)
}

func TestComputeBalance_ZeroAllocation(t *testing.T) {
	// GIVEN: No allocation assigned yet
	// WHEN: Deriving the balance
	// THEN: Percent used is 0, not a division error

	requests := []conges.LeaveRequest{
		request("r1", "alice", conges.StatusApproved, day(2025, time.June, 2), day(2025, time.June, 4)),
	}

	b := conges.ComputeBalance(0, requests)

	assert.Equal(t, 0, b.TotalAllocationDays)
	assert.True(t, b.PercentUsed.IsZero())
	assert.Equal(t, 0, b.RemainingDays)
}

func TestComputeBalance_NoRequests(t *testing.T) {
	// GIVEN: A fresh user with no requests
	// WHEN: Deriving the balance
	// THEN: Everything is still available

	b := conges.ComputeBalance(25, nil)

	assert.Equal(t, 25, b.RemainingDays)
	assert.Equal(t, 25, b.BalanceAfterPending)
	assert.True(t, b.PercentUsed.IsZero())
}

// =============================================================================
// LAST APPROVED LEAVE TESTS
// =============================================================================

func TestLastApprovedLeaveEnd_PicksLatest(t *testing.T) {
	// GIVEN: Several approved requests plus a later pending one
	// WHEN: Finding the last approved leave end
	// THEN: The latest APPROVED end date wins; pending is ignored

	requests := []conges.LeaveRequest{
		request("r1", "alice", conges.StatusApproved, day(2025, time.March, 1), day(2025, time.March, 5)),
		request("r2", "alice", conges.StatusApproved, day(2025, time.May, 1), day(2025, time.May, 9)),
		request("r3", "alice", conges.StatusPending, day(2025, time.August, 1), day(2025, time.August, 10)),
	}

	last := conges.LastApprovedLeaveEnd(requests)

	require.NotNil(t, last)
	assert.Equal(t, conges.EndOfDay(day(2025, time.May, 9)), *last)
}

func TestLastApprovedLeaveEnd_NoneApproved(t *testing.T) {
	// GIVEN: Only pending and rejected requests
	// WHEN: Finding the last approved leave end
	// THEN: nil

	requests := []conges.LeaveRequest{
		request("r1", "alice", conges.StatusPending, day(2025, time.March, 1), day(2025, time.March, 5)),
		request("r2", "alice", conges.StatusRejected, day(2025, time.May, 1), day(2025, time.May, 9)),
	}

	assert.Nil(t, conges.LastApprovedLeaveEnd(requests))
}
