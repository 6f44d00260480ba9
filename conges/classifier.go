/*
classifier.go - Admin dashboard status classification

PURPOSE:
  Derives the triage bucket shown per employee on the admin dashboard
  from their balance and their most recent approved leave.

RULE TABLE (first match wins):
  1. allocation == 0                                  -> unallocated
  2. remaining < criticalRemainingDays
     OR percentUsed > criticalUsagePercent            -> critical
  3. percentUsed >= warningUsagePercent               -> warning_usage
  4. no approved leave, or last approved leave ended
     more than inactivityMonths ago                   -> warning_inactive
  5. otherwise                                        -> good

The thresholds are the only tunable business rule in the engine; they are
carried as a Thresholds value populated from configuration, never inlined
at the call sites.
*/
package conges

import (
	"time"

	"github.com/shopspring/decimal"
)

// Thresholds holds the classifier policy constants.
type Thresholds struct {
	// CriticalRemainingDays: below this remaining balance the user is critical.
	CriticalRemainingDays int
	// CriticalUsagePercent: strictly above this usage the user is critical.
	CriticalUsagePercent decimal.Decimal
	// WarningUsagePercent: at or above this usage the user is a usage warning.
	WarningUsagePercent decimal.Decimal
	// InactivityMonths: months without an approved leave before an
	// inactivity warning.
	InactivityMonths int
}

// DefaultThresholds returns the portal's stock policy: 5 days, 80%, 60%,
// 2 months.
func DefaultThresholds() Thresholds {
	return Thresholds{
		CriticalRemainingDays: 5,
		CriticalUsagePercent:  decimal.NewFromInt(80),
		WarningUsagePercent:   decimal.NewFromInt(60),
		InactivityMonths:      2,
	}
}

// Classify derives the AdminStatus for one user. lastApprovedLeaveEnd is
// nil when the user has no approved leave on record. now anchors the
// inactivity window.
func (t Thresholds) Classify(allocationDays, remainingDays int, percentUsed decimal.Decimal, lastApprovedLeaveEnd *time.Time, now time.Time) AdminStatus {
	if allocationDays == 0 {
		return AdminUnallocated
	}
	if remainingDays < t.CriticalRemainingDays || percentUsed.GreaterThan(t.CriticalUsagePercent) {
		return AdminCritical
	}
	if percentUsed.GreaterThanOrEqual(t.WarningUsagePercent) {
		return AdminWarningUsage
	}
	cutoff := now.AddDate(0, -t.InactivityMonths, 0)
	if lastApprovedLeaveEnd == nil || lastApprovedLeaveEnd.Before(cutoff) {
		return AdminWarningInactive
	}
	return AdminGood
}

// ClassifyBalance is the common case: classify from a snapshot.
func (t Thresholds) ClassifyBalance(b BalanceSnapshot, lastApprovedLeaveEnd *time.Time, now time.Time) AdminStatus {
	return t.Classify(b.TotalAllocationDays, b.RemainingDays, b.PercentUsed, lastApprovedLeaveEnd, now)
}
