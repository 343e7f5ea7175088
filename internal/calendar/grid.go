// Package calendar lets a user build a trip by tapping days on a month grid.
//
// Planner holds the selection state machine. MonthGrid derives the per-day
// facts a renderer needs; it draws nothing itself.
package calendar

import (
	"github.com/pkordes/tripplanner/internal/domain"
)

// Selection is the tentative date range being picked on the grid.
// A zero Start means nothing is selected.
type Selection struct {
	Start domain.Date
	End   domain.Date
}

// IsEmpty reports whether no day has been picked.
func (s Selection) IsEmpty() bool { return s.Start.IsZero() }

// Contains reports whether day is inside the selection. With no end picked
// only the start day is inside.
func (s Selection) Contains(day domain.Date) bool {
	switch {
	case s.Start.IsZero():
		return false
	case s.End.IsZero():
		return day.Equal(s.Start)
	default:
		return !day.Before(s.Start) && !day.After(s.End)
	}
}

// IsBoundary reports whether day is the first or last day of the selection.
func (s Selection) IsBoundary(day domain.Date) bool {
	if s.Start.IsZero() {
		return false
	}
	return day.Equal(s.Start) || (!s.End.IsZero() && day.Equal(s.End))
}

// Day describes a single cell of the month grid.
type Day struct {
	Date         domain.Date
	IsToday      bool
	InRange      bool
	IsRangeStart bool
	IsRangeEnd   bool
	Legs         []domain.Leg
}

// IsBoundary reports whether the cell starts or ends the selection.
func (d Day) IsBoundary() bool { return d.IsRangeStart || d.IsRangeEnd }

// HasLeg reports whether any leg covers the cell.
func (d Day) HasLeg() bool { return len(d.Legs) > 0 }

// MonthGrid returns one Day for every day of the month containing month,
// first to last. Leading weekday padding is left to the renderer, which can
// read it from the first Day's weekday.
func MonthGrid(month domain.Date, legs []domain.Leg, today domain.Date, sel Selection) []Day {
	if month.IsZero() {
		return nil
	}
	first := month.FirstOfMonth()
	n := DaysIn(first)

	days := make([]Day, 0, n)
	for i := 0; i < n; i++ {
		date := first.AddDays(i)
		days = append(days, Day{
			Date:         date,
			IsToday:      date.Equal(today),
			InRange:      sel.Contains(date),
			IsRangeStart: !sel.Start.IsZero() && date.Equal(sel.Start),
			IsRangeEnd:   !sel.End.IsZero() && date.Equal(sel.End),
			Legs:         LegsOn(legs, date),
		})
	}
	return days
}

// LegsOn returns the legs whose span covers day, in the order given.
func LegsOn(legs []domain.Leg, day domain.Date) []domain.Leg {
	var out []domain.Leg
	for _, leg := range legs {
		if leg.Span().Contains(day) {
			out = append(out, leg)
		}
	}
	return out
}

// DaysIn returns the number of days in month's month.
func DaysIn(month domain.Date) int {
	return month.FirstOfMonth().AddDate(0, 1, -1).Day()
}
