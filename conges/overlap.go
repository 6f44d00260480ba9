/*
overlap.go - Conflict detection between leave ranges

PURPOSE:
  Decides whether a candidate date range collides with a user's existing
  pending or approved requests. This predicate is the sole authority for
  rejecting a create or edit with ErrLeaveOverlap; the lifecycle runs it
  inside the store transaction so the check and the write are atomic.

OVERLAP RULE:
  Two inclusive day ranges [a1,a2] and [b1,b2] overlap iff
  a1 <= b2 && b1 <= a2, after normalizing to day boundaries. Adjacent
  ranges (b1 = a2 + 1 day) do not overlap.
*/
package conges

import "time"

// Overlaps reports whether the inclusive day ranges [aStart,aEnd] and
// [bStart,bEnd] share at least one calendar day.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	a1, a2 := StartOfDay(aStart), StartOfDay(aEnd)
	b1, b2 := StartOfDay(bStart), StartOfDay(bEnd)
	return !a1.After(b2) && !b1.After(a2)
}

// HasOverlap reports whether [start,end] collides with any of userID's
// pending or approved requests. excludeID skips a request when editing it
// against itself; pass the zero RequestID otherwise. Requests belonging to
// other users or in terminal-inactive states are ignored.
func HasOverlap(existing []LeaveRequest, userID UserID, start, end time.Time, excludeID RequestID) bool {
	for _, r := range existing {
		if r.UserID != userID || !r.Status.Active() {
			continue
		}
		if excludeID != "" && r.ID == excludeID {
			continue
		}
		if Overlaps(start, end, r.StartDate, r.EndDate) {
			return true
		}
	}
	return false
}
