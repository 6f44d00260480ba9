/*
Package holiday supplies holiday mappings to the engine.

The engine consumes holidays only as an opaque ISO-date -> name map
(conges.HolidayMap). This package provides two sources: a Static provider
wrapping a fixed map (tests, development) and the French public-holiday
catalog used to seed the portal's holiday table.
*/
package holiday

import (
	"context"
	"fmt"

	"github.com/medintra/conges-engine/conges"
)

// Static serves a fixed holiday map, filtered to the requested years.
type Static struct {
	Days conges.HolidayMap
}

// NewStatic wraps a fixed date -> name map.
func NewStatic(days conges.HolidayMap) *Static {
	return &Static{Days: days}
}

// Holidays returns the subset of the map falling in [fromYear, toYear].
func (s *Static) Holidays(_ context.Context, fromYear, toYear int) (conges.HolidayMap, error) {
	// ISO date strings compare correctly as strings.
	lo := fmt.Sprintf("%04d-01-01", fromYear)
	hi := fmt.Sprintf("%04d-12-31", toYear)

	out := make(conges.HolidayMap)
	for date, name := range s.Days {
		if date >= lo && date <= hi {
			out[date] = name
		}
	}
	return out, nil
}
