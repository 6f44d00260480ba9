/*
calendar.go - Month view aggregation

PURPOSE:
  Produces the day-by-day absence view for a month: one entry per calendar
  day listing every user whose approved request covers that day. Weekends
  and holidays are flagged so the UI can shade them; padding the grid with
  leading/trailing days of adjacent months is a presentation concern and
  stays out of the engine.
*/
package conges

import "time"

// BuildMonth returns one CalendarDay per day of the given month. Only
// approved requests contribute absentees; the per-day membership test is
// the single-day specialization of the range overlap rule.
func BuildMonth(year int, month time.Month, approved []LeaveRequest, holidays HolidayMap) []CalendarDay {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)

	days := make([]CalendarDay, 0, 31)
	for d := first; d.Before(next); d = d.AddDate(0, 0, 1) {
		cd := CalendarDay{
			Date:    d,
			Weekend: IsWeekend(d),
			Holiday: holidays[ISODate(d)],
		}
		for _, r := range approved {
			if r.Status != StatusApproved {
				continue
			}
			if Overlaps(d, d, r.StartDate, r.EndDate) {
				cd.Absentees = append(cd.Absentees, Absentee{UserID: r.UserID, RequestID: r.ID})
			}
		}
		days = append(days, cd)
	}
	return days
}
