/*
balance.go - Balance derivation from the live request set

PURPOSE:
  Computes a user's BalanceSnapshot from their yearly allocation and their
  requests. Balances are pure derivations recomputed on every read;
  persisting them would require invalidation on every request mutation and
  reintroduce the race the atomic create/edit path exists to prevent.

COUNTING RULE:
  The authoritative balance sums inclusive CALENDAR days of approved and
  pending requests. The working-day figure (weekends and holidays
  excluded) is served only by the day-count preview.

CLAMPING:
  remainingDays       = max(allocation - approvedDays, 0)
  balanceAfterPending = max(remainingDays - pendingDays, 0)
  percentUsed         = min(approved / allocation * 100, 100), 0 when
                        the allocation is zero
  Administrators may knowingly overdraw an allocation; the ledger clamps
  the derived figures instead of rejecting the state.
*/
package conges

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ComputeBalance derives a BalanceSnapshot from an allocation and the
// user's requests. Cancelled and rejected requests contribute nothing.
func ComputeBalance(allocationDays int, requests []LeaveRequest) BalanceSnapshot {
	var approved, pending int
	for _, r := range requests {
		switch r.Status {
		case StatusApproved:
			approved += CalendarDays(r.StartDate, r.EndDate)
		case StatusPending:
			pending += CalendarDays(r.StartDate, r.EndDate)
		}
	}

	remaining := allocationDays - approved
	if remaining < 0 {
		remaining = 0
	}
	afterPending := remaining - pending
	if afterPending < 0 {
		afterPending = 0
	}

	percentUsed := decimal.Zero
	if allocationDays > 0 {
		percentUsed = decimal.NewFromInt(int64(approved)).
			Mul(hundred).
			Div(decimal.NewFromInt(int64(allocationDays)))
		if percentUsed.GreaterThan(hundred) {
			percentUsed = hundred
		}
	}

	return BalanceSnapshot{
		TotalAllocationDays: allocationDays,
		ApprovedDays:        approved,
		PendingDays:         pending,
		RemainingDays:       remaining,
		BalanceAfterPending: afterPending,
		PercentUsed:         percentUsed,
	}
}

// LastApprovedLeaveEnd returns the latest end date among the user's
// approved requests, or nil when none exist. Feeds the inactivity rule of
// the classifier.
func LastApprovedLeaveEnd(requests []LeaveRequest) *time.Time {
	var last *time.Time
	for _, r := range requests {
		if r.Status != StatusApproved {
			continue
		}
		end := r.EndDate
		if last == nil || end.After(*last) {
			last = &end
		}
	}
	return last
}
