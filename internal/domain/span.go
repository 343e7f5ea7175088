package domain

import "math"

// SpanKind classifies how much of a date range is known.
type SpanKind string

const (
	// SpanUnscheduled has no dates at all.
	SpanUnscheduled SpanKind = "unscheduled"
	// SpanOpen has a start date and no end date.
	SpanOpen SpanKind = "open"
	// SpanClosed has both dates.
	SpanClosed SpanKind = "closed"
)

// Span is a possibly partial date range. An End without a Start is not a
// meaningful span and classifies as unscheduled.
type Span struct {
	Start Date
	End   Date
}

// Kind classifies s.
func (s Span) Kind() SpanKind {
	switch {
	case s.Start.IsZero():
		return SpanUnscheduled
	case s.End.IsZero():
		return SpanOpen
	default:
		return SpanClosed
	}
}

// Dated reports whether s has a start date and so takes part in ordering.
func (s Span) Dated() bool {
	return s.Kind() != SpanUnscheduled
}

// Overlaps reports whether a and b share a day. Closed ranges compare with
// strict inequalities (a.Start < b.End && a.End > b.Start), so a range ending
// on the day another starts does not overlap it. An open span runs from its
// start with no end. Unscheduled spans never overlap, and neither do two open
// spans.
func Overlaps(a, b Span) bool {
	switch {
	case a.Kind() == SpanClosed && b.Kind() == SpanClosed:
		return a.Start.Before(b.End) && a.End.After(b.Start)
	case a.Kind() == SpanOpen && b.Kind() == SpanClosed:
		return b.End.After(a.Start)
	case a.Kind() == SpanClosed && b.Kind() == SpanOpen:
		return a.End.After(b.Start)
	default:
		return false
	}
}

// DurationDays returns the ceiling of the number of days between start and
// end. ok is false unless s is closed.
func DurationDays(s Span) (days int, ok bool) {
	if s.Kind() != SpanClosed {
		return 0, false
	}
	hours := s.End.Time().Sub(s.Start.Time()).Hours()
	return int(math.Ceil(hours / 24)), true
}

// Contains reports whether day is drawn as part of s on a calendar. Closed
// spans cover both boundary days; an open span covers only its start day.
func (s Span) Contains(day Date) bool {
	switch s.Kind() {
	case SpanClosed:
		return !day.Before(s.Start) && !day.After(s.End)
	case SpanOpen:
		return day.Equal(s.Start)
	default:
		return false
	}
}

// StartsBefore orders spans by start date ascending with unscheduled spans last.
func StartsBefore(a, b Span) bool {
	switch {
	case !a.Dated():
		return false
	case !b.Dated():
		return true
	default:
		return a.Start.Before(b.Start)
	}
}

// String formats s for people: "Mar 1 - Mar 5", "from Mar 1" or "no dates".
func (s Span) String() string {
	switch s.Kind() {
	case SpanClosed:
		return s.Start.Short() + " - " + s.End.Short()
	case SpanOpen:
		return "from " + s.Start.Short()
	default:
		return "no dates"
	}
}
