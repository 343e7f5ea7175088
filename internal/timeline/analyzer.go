// Package timeline analyzes a candidate leg against the legs already in a
// trip. Every function here is pure: it reads a snapshot of legs and returns
// findings, and the caller decides what to do with them.
package timeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/tripplanner/internal/domain"
)

// Kind identifies the check that produced a Finding.
type Kind string

const (
	KindCountryRequired Kind = domain.RuleCountryRequired
	KindInvalidRange    Kind = domain.RuleInvalidRange
	KindMinDuration     Kind = domain.RuleMinDuration
	KindOverlap         Kind = domain.RuleOverlap
	KindDuplicate       Kind = domain.RuleDuplicateDestination
	KindGapFill         Kind = "gap_fill"
	KindChronological   Kind = "chronological_order"
)

// maxYearsFromToday bounds how far from today either date of a leg may be.
const maxYearsFromToday = 10

// Finding is the result of one check that did not pass cleanly.
// Blocking findings prevent a save; the rest are advisories the user may
// acknowledge and continue past.
type Finding struct {
	Kind     Kind
	Blocking bool
	Message  string

	// Conflict is the existing leg a KindOverlap finding collided with.
	Conflict domain.Leg
	// Previous and Next bracket the gap a KindGapFill finding fills.
	Previous domain.Leg
	Next     domain.Leg
	// SuggestedStart is the day a KindChronological finding proposes.
	SuggestedStart domain.Date
	// Duplicates are the existing legs a KindDuplicate finding matched.
	Duplicates []domain.Leg
}

// Err converts the finding into the error a store write would report for it.
func (f Finding) Err() error {
	return &domain.ValidationError{Rule: string(f.Kind), Message: f.Message}
}

func blocked(kind Kind, format string, args ...any) Finding {
	return Finding{Kind: kind, Blocking: true, Message: fmt.Sprintf(format, args...)}
}

// CheckCountry requires a non-blank destination.
func CheckCountry(candidate domain.Leg) (Finding, bool) {
	if strings.TrimSpace(candidate.Country) == "" {
		return blocked(KindCountryRequired, "country is required"), true
	}
	return Finding{}, false
}

// CheckRange validates the candidate's own dates: an end date needs a start
// date, the end may not precede the start, and neither date may be more than
// ten years away from today.
func CheckRange(candidate domain.Leg, today domain.Date) (Finding, bool) {
	start, end := candidate.StartDate, candidate.EndDate
	if start.IsZero() && !end.IsZero() {
		return blocked(KindInvalidRange, "an end date requires a start date"), true
	}
	if !end.IsZero() && end.Before(start) {
		return blocked(KindInvalidRange, "end date %s is before start date %s", end, start), true
	}

	earliest := today.AddDate(-maxYearsFromToday, 0, 0)
	latest := today.AddDate(maxYearsFromToday, 0, 0)
	for _, d := range []domain.Date{start, end} {
		if d.IsZero() {
			continue
		}
		if d.Before(earliest) || d.After(latest) {
			return blocked(KindInvalidRange, "%s is more than %d years from today", d, maxYearsFromToday), true
		}
	}
	return Finding{}, false
}

// CheckMinDuration requires a closed range to span at least one day.
func CheckMinDuration(candidate domain.Leg) (Finding, bool) {
	days, ok := domain.DurationDays(candidate.Span())
	if ok && days < 1 {
		return blocked(KindMinDuration, "a leg must span at least one day"), true
	}
	return Finding{}, false
}

// FindOverlap reports the first existing leg, in the order given, whose dates
// overlap the candidate's. The leg being edited is skipped.
func FindOverlap(existing []domain.Leg, candidate domain.Leg, editingID uuid.UUID) (Finding, bool) {
	for _, leg := range others(existing, editingID) {
		if !domain.Overlaps(candidate.Span(), leg.Span()) {
			continue
		}
		f := blocked(KindOverlap, "dates overlap with %s (%s)", leg.Country, leg.Span())
		f.Conflict = leg
		return f, true
	}
	return Finding{}, false
}

// FindDuplicates reports existing legs with the same destination, compared
// case-insensitively. It is a confirmation gate, not a block.
func FindDuplicates(existing []domain.Leg, candidate domain.Leg, editingID uuid.UUID) (Finding, bool) {
	country := strings.TrimSpace(candidate.Country)
	var matches []domain.Leg
	for _, leg := range others(existing, editingID) {
		if strings.EqualFold(strings.TrimSpace(leg.Country), country) {
			matches = append(matches, leg)
		}
	}
	if len(matches) == 0 {
		return Finding{}, false
	}

	var ranges []string
	for _, leg := range matches {
		if leg.Span().Dated() {
			ranges = append(ranges, leg.Span().String())
		}
	}
	msg := fmt.Sprintf("%s is already in this trip %s", matches[0].Country, times(len(matches)))
	if len(ranges) > 0 {
		msg += " (" + strings.Join(ranges, ", ") + ")"
	}
	return Finding{Kind: KindDuplicate, Message: msg, Duplicates: matches}, true
}

// FindGap reports when the candidate starts the day after one leg ends and,
// if it has an end date, finishes before the next leg starts.
func FindGap(existing []domain.Leg, candidate domain.Leg, editingID uuid.UUID) (Finding, bool) {
	if candidate.StartDate.IsZero() {
		return Finding{}, false
	}
	sorted := Chronological(others(existing, editingID))
	for i := 0; i+1 < len(sorted); i++ {
		current, next := sorted[i], sorted[i+1]
		if current.EndDate.IsZero() {
			continue
		}
		if !candidate.StartDate.Equal(current.EndDate.AddDays(1)) {
			continue
		}
		if !candidate.EndDate.IsZero() && !candidate.EndDate.Before(next.StartDate) {
			continue
		}
		return Finding{
			Kind:     KindGapFill,
			Message:  fmt.Sprintf("this leg fills the gap between %s and %s", current.Country, next.Country),
			Previous: current,
			Next:     next,
		}, true
	}
	return Finding{}, false
}

// SuggestOrder proposes moving the candidate after the chronologically last
// leg when it starts on or before that leg's end date.
func SuggestOrder(existing []domain.Leg, candidate domain.Leg, editingID uuid.UUID) (Finding, bool) {
	if candidate.StartDate.IsZero() {
		return Finding{}, false
	}
	sorted := Chronological(others(existing, editingID))
	if len(sorted) == 0 {
		return Finding{}, false
	}
	last := sorted[len(sorted)-1]
	if last.EndDate.IsZero() || candidate.StartDate.After(last.EndDate) {
		return Finding{}, false
	}
	suggested := last.EndDate.AddDays(1)
	return Finding{
		Kind: KindChronological,
		Message: fmt.Sprintf("%s ends %s; consider starting this leg on %s",
			last.Country, last.EndDate.Short(), suggested.Short()),
		Previous:       last,
		SuggestedStart: suggested,
	}, true
}

// Chronological returns the dated legs sorted by start date. Unscheduled legs
// are dropped. The input is not modified.
func Chronological(legs []domain.Leg) []domain.Leg {
	out := make([]domain.Leg, 0, len(legs))
	for _, leg := range legs {
		if leg.Span().Dated() {
			out = append(out, leg)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return domain.StartsBefore(out[i].Span(), out[j].Span())
	})
	return out
}

func others(legs []domain.Leg, editingID uuid.UUID) []domain.Leg {
	if editingID == uuid.Nil {
		return legs
	}
	out := make([]domain.Leg, 0, len(legs))
	for _, leg := range legs {
		if leg.ID != editingID {
			out = append(out, leg)
		}
	}
	return out
}

func times(n int) string {
	if n == 1 {
		return "1 time"
	}
	return fmt.Sprintf("%d times", n)
}
