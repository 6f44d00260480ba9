/*
daycount.go - Day counting against the holiday map

PURPOSE:
  Given a date range and the holiday mapping, computes the inclusive
  calendar-day count and the working-day count (calendar days minus
  weekends minus holidays), plus the list of excluded days so the UI can
  explain the difference.

COUNTING RULES:
  - calendarDays = floor(end - start in days) + 1, both ends normalized
    to day boundaries; a range with end before start collapses to a
    single day at start
  - A day is a weekend day if its weekday is Saturday or Sunday
  - A day is a holiday if its ISO date is a key in the holiday map,
    regardless of weekday
  - A holiday falling on a weekend is listed once as a holiday and not
    counted among excluded weekend days

Pure function of its inputs; no side effects.
*/
package conges

import "time"

// Count computes the DayCount for the inclusive range [start, end].
func Count(start, end time.Time, holidays HolidayMap) DayCount {
	first := StartOfDay(start)
	last := StartOfDay(end)
	if last.Before(first) {
		// Collapse to a single-day range at start.
		last = first
	}

	var dc DayCount
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		dc.CalendarDays++

		name, isHoliday := holidays[ISODate(d)]
		switch {
		case isHoliday:
			dc.ExcludedHolidays = append(dc.ExcludedHolidays, ExcludedHoliday{Date: d, Name: name})
		case IsWeekend(d):
			dc.ExcludedWeekendDays++
		default:
			dc.WorkingDays++
		}
	}
	return dc
}

// CalendarDays returns just the inclusive calendar-day count of a range.
// This is the figure the balance ledger sums.
func CalendarDays(start, end time.Time) int {
	first := StartOfDay(start)
	last := StartOfDay(end)
	if last.Before(first) {
		return 1
	}
	return int(last.Sub(first).Hours()/24) + 1
}
