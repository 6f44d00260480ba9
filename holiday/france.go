package holiday

import (
	"context"

	"github.com/rickar/cal/v2/fr"

	"github.com/medintra/conges-engine/conges"
)

// FrenchHolidays computes the French public holidays ("jours fériés")
// for the inclusive year range as a date -> name map. Used to seed the
// portal's holiday table.
func FrenchHolidays(fromYear, toYear int) conges.HolidayMap {
	out := make(conges.HolidayMap)
	for year := fromYear; year <= toYear; year++ {
		for _, h := range fr.Holidays {
			actual, _ := h.Calc(year)
			if actual.IsZero() {
				continue
			}
			out[actual.Format("2006-01-02")] = h.Name
		}
	}
	return out
}

// France computes jours fériés on the fly, for deployments that don't
// want an admin-managed holiday table.
type France struct{}

// Holidays implements conges.HolidayProvider.
func (France) Holidays(_ context.Context, fromYear, toYear int) (conges.HolidayMap, error) {
	return FrenchHolidays(fromYear, toYear), nil
}
