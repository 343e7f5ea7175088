package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/tripplanner/internal/domain"
	"github.com/pkordes/tripplanner/internal/repo"
	"github.com/pkordes/tripplanner/internal/timeline"
)

// LegService is the single write path for Legs. Every create, update and
// delete goes through it, and it re-checks the scheduling rules so a caller
// that skipped the timeline checks still cannot store a malformed leg.
//
// Country, date range and minimum duration are enforced on every write.
// Overlap and duplicate destination are enforced unless the caller passes
// bypass=true, which means the user already saw and accepted those findings.
//
// Writes to one trip are serialized, so the rules are checked against the
// same leg set the write lands in.
type LegService struct {
	trips repo.TripRepo
	legs  repo.LegRepo
	log   *slog.Logger
	now   func() time.Time
	locks tripLocks
}

// ruleChecks selects the comparisons against other legs a write must pass.
type ruleChecks struct {
	overlap   bool
	duplicate bool
}

// LegServiceOption configures a LegService.
type LegServiceOption func(*LegService)

// WithLogger sets the logger used for write events. Defaults to slog.Default().
func WithLogger(l *slog.Logger) LegServiceOption {
	return func(s *LegService) { s.log = l }
}

// WithClock sets the source of "today" for the ten-year range rule.
func WithClock(now func() time.Time) LegServiceOption {
	return func(s *LegService) { s.now = now }
}

// NewLegService constructs a LegService backed by the provided repos.
func NewLegService(trips repo.TripRepo, legs repo.LegRepo, opts ...LegServiceOption) *LegService {
	s := &LegService{
		trips: trips,
		legs:  legs,
		log:   slog.Default(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today returns the service's current calendar day.
func (s *LegService) Today() domain.Date {
	return domain.DateOf(s.now())
}

// Create validates the leg, verifies the parent trip exists, then persists it
// with a new ID. Returns a *domain.ValidationError (matching
// domain.ErrValidation) if a rule fails, domain.ErrNotFound if the trip does
// not exist.
func (s *LegService) Create(ctx context.Context, tripID uuid.UUID, leg domain.Leg, bypass bool) (domain.Leg, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return domain.Leg{}, fmt.Errorf("service.LegService.Create: %w", err)
	}

	leg.ID = uuid.Nil
	leg.TripID = tripID
	leg.Country = strings.TrimSpace(leg.Country)

	unlock := s.locks.lock(tripID)
	defer unlock()

	checks := ruleChecks{overlap: !bypass, duplicate: !bypass}
	if err := s.validate(ctx, leg, uuid.Nil, checks); err != nil {
		return domain.Leg{}, fmt.Errorf("service.LegService.Create: %w", err)
	}

	result, err := s.legs.Create(ctx, leg)
	if err != nil {
		return domain.Leg{}, fmt.Errorf("service.LegService.Create: %w", err)
	}
	s.logWrite(ctx, "leg created", result, bypass)
	return result, nil
}

// Update replaces the country, dates and budget of an existing leg.
// The owning trip cannot change: a non-nil TripID different from the stored
// one is rejected. Returns domain.ErrNotFound if the leg does not exist.
//
// Without bypass, overlap is re-checked only when the dates change and
// duplicate destination only when the country changes, so a leg stored
// with an accepted overlap can still be renamed.
func (s *LegService) Update(ctx context.Context, leg domain.Leg, bypass bool) (domain.Leg, error) {
	stored, err := s.legs.GetByID(ctx, leg.ID)
	if err != nil {
		return domain.Leg{}, fmt.Errorf("service.LegService.Update: %w", err)
	}
	if leg.TripID != uuid.Nil && leg.TripID != stored.TripID {
		return domain.Leg{}, fmt.Errorf("service.LegService.Update: %w", &domain.ValidationError{
			Rule:    domain.RuleTripImmutable,
			Message: "a leg cannot move to another trip",
		})
	}

	unlock := s.locks.lock(stored.TripID)
	defer unlock()

	// Re-read under the lock; another write may have landed in between.
	stored, err = s.legs.GetByID(ctx, leg.ID)
	if err != nil {
		return domain.Leg{}, fmt.Errorf("service.LegService.Update: %w", err)
	}

	next := stored
	next.Country = strings.TrimSpace(leg.Country)
	next.StartDate = leg.StartDate
	next.EndDate = leg.EndDate
	next.Budget = leg.Budget

	checks := ruleChecks{
		overlap:   !bypass && !sameDates(stored, next),
		duplicate: !bypass && !strings.EqualFold(stored.Country, next.Country),
	}
	if err := s.validate(ctx, next, next.ID, checks); err != nil {
		return domain.Leg{}, fmt.Errorf("service.LegService.Update: %w", err)
	}

	result, err := s.legs.Update(ctx, next)
	if err != nil {
		return domain.Leg{}, fmt.Errorf("service.LegService.Update: %w", err)
	}
	s.logWrite(ctx, "leg updated", result, bypass)
	return result, nil
}

// Delete removes a leg. Deleting a leg that does not exist is a no-op.
func (s *LegService) Delete(ctx context.Context, legID uuid.UUID) error {
	err := s.legs.Delete(ctx, legID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("service.LegService.Delete: %w", err)
	}
	s.log.InfoContext(ctx, "leg deleted", "leg_id", legID)
	return nil
}

// GetByID returns a single leg.
// Returns domain.ErrNotFound if it does not exist.
func (s *LegService) GetByID(ctx context.Context, legID uuid.UUID) (domain.Leg, error) {
	result, err := s.legs.GetByID(ctx, legID)
	if err != nil {
		return domain.Leg{}, fmt.Errorf("service.LegService.GetByID: %w", err)
	}
	return result, nil
}

// ListByTrip returns a trip's legs in insertion order. The slice is a copy the
// caller may keep; it is never nil.
func (s *LegService) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Leg, error) {
	legs, err := s.legs.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.LegService.ListByTrip: %w", err)
	}
	out := make([]domain.Leg, len(legs))
	copy(out, legs)
	return out, nil
}

// Check runs the full timeline analysis for a candidate leg against the
// trip's current legs without writing anything. Pass the leg's own ID as
// editingID when re-validating an edit, uuid.Nil otherwise.
func (s *LegService) Check(ctx context.Context, tripID uuid.UUID, candidate domain.Leg, editingID uuid.UUID) (timeline.Report, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return timeline.Report{}, fmt.Errorf("service.LegService.Check: %w", err)
	}
	existing, err := s.legs.ListByTripID(ctx, tripID)
	if err != nil {
		return timeline.Report{}, fmt.Errorf("service.LegService.Check: %w", err)
	}
	return timeline.Analyze(existing, candidate, timeline.Options{
		EditingID: editingID,
		Today:     s.Today(),
	}), nil
}

// validate enforces the write rules for leg. editingID excludes the leg
// itself from the overlap and duplicate comparisons.
func (s *LegService) validate(ctx context.Context, leg domain.Leg, editingID uuid.UUID, checks ruleChecks) error {
	if f, failed := timeline.CheckCountry(leg); failed {
		return f.Err()
	}
	if f, failed := timeline.CheckRange(leg, s.Today()); failed {
		return f.Err()
	}
	if f, failed := timeline.CheckMinDuration(leg); failed {
		return f.Err()
	}
	if !checks.overlap && !checks.duplicate {
		return nil
	}

	existing, err := s.legs.ListByTripID(ctx, leg.TripID)
	if err != nil {
		return err
	}
	if checks.overlap {
		if f, found := timeline.FindOverlap(existing, leg, editingID); found {
			return f.Err()
		}
	}
	if checks.duplicate {
		if f, found := timeline.FindDuplicates(existing, leg, editingID); found {
			return f.Err()
		}
	}
	return nil
}

func sameDates(a, b domain.Leg) bool {
	return a.StartDate.Equal(b.StartDate) && a.EndDate.Equal(b.EndDate)
}

func (s *LegService) logWrite(ctx context.Context, msg string, leg domain.Leg, bypass bool) {
	s.log.InfoContext(ctx, msg,
		"leg_id", leg.ID,
		"trip_id", leg.TripID,
		"country", leg.Country,
		"span", leg.Span().Kind(),
		"bypass", bypass,
	)
}
