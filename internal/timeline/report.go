package timeline

import (
	"github.com/google/uuid"

	"github.com/pkordes/tripplanner/internal/domain"
)

// Status summarizes a Report for the presentation layer.
type Status string

const (
	StatusOK       Status = "ok"
	StatusBlocked  Status = "blocked"
	StatusAdvisory Status = "advisory"
)

// Options tunes Analyze.
type Options struct {
	// EditingID excludes the leg being edited from every comparison.
	EditingID uuid.UUID
	// Today anchors the ten-year range window.
	Today domain.Date
	// SkipOverlap leaves the overlap check out entirely. Used by callers that
	// have already accepted overlapping dates.
	SkipOverlap bool
}

// Report is the outcome of running every check in save order.
type Report struct {
	// Blocked is set when a hard rule failed; no advisories follow it.
	Blocked *Finding
	// Advisories are in the order the user must acknowledge them:
	// duplicate destination, gap fill, chronological order.
	Advisories []Finding
}

// Status reports ok, blocked or advisory.
func (r Report) Status() Status {
	switch {
	case r.Blocked != nil:
		return StatusBlocked
	case len(r.Advisories) > 0:
		return StatusAdvisory
	default:
		return StatusOK
	}
}

// Advisory returns the advisory of the given kind, if present.
func (r Report) Advisory(kind Kind) (Finding, bool) {
	for _, f := range r.Advisories {
		if f.Kind == kind {
			return f, true
		}
	}
	return Finding{}, false
}

// Analyze runs the checks in save order: country, range, minimum duration,
// overlap, duplicate destination, gap fill, chronological order. The first
// hard failure stops evaluation. A gap fill suppresses the chronological
// suggestion, since the leg was deliberately placed inside the timeline.
func Analyze(existing []domain.Leg, candidate domain.Leg, opts Options) Report {
	hard := []func() (Finding, bool){
		func() (Finding, bool) { return CheckCountry(candidate) },
		func() (Finding, bool) { return CheckRange(candidate, opts.Today) },
		func() (Finding, bool) { return CheckMinDuration(candidate) },
	}
	if !opts.SkipOverlap {
		hard = append(hard, func() (Finding, bool) {
			return FindOverlap(existing, candidate, opts.EditingID)
		})
	}
	for _, check := range hard {
		if f, failed := check(); failed {
			return Report{Blocked: &f}
		}
	}

	var r Report
	if f, ok := FindDuplicates(existing, candidate, opts.EditingID); ok {
		r.Advisories = append(r.Advisories, f)
	}
	if f, ok := FindGap(existing, candidate, opts.EditingID); ok {
		r.Advisories = append(r.Advisories, f)
	} else if f, ok := SuggestOrder(existing, candidate, opts.EditingID); ok {
		r.Advisories = append(r.Advisories, f)
	}
	return r
}
