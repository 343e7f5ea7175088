// Package flow drives a single add-or-edit save attempt for a leg.
//
// A Flow walks the timeline checks in order, stopping at each advisory until
// the user continues or cancels, and only writes to the store once every gate
// has been passed. It holds no locks; one Flow serves one interaction.
package flow

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/tripplanner/internal/domain"
	"github.com/pkordes/tripplanner/internal/timeline"
)

// State is a step of the save attempt.
type State string

const (
	StateIdle                          State = "idle"
	StateValidating                    State = "validating"
	StateBlocked                       State = "blocked"
	StateAwaitingDuplicateConfirmation State = "awaiting_duplicate_confirmation"
	StateAwaitingGapAcknowledgment     State = "awaiting_gap_acknowledgment"
	StateAwaitingOrderAcknowledgment   State = "awaiting_order_acknowledgment"
	StateCommitting                    State = "committing"
	StateSaved                         State = "saved"
	StateFailed                        State = "failed"
)

// IsAwaiting reports whether the flow is paused on an advisory.
func (s State) IsAwaiting() bool {
	switch s {
	case StateAwaitingDuplicateConfirmation,
		StateAwaitingGapAcknowledgment,
		StateAwaitingOrderAcknowledgment:
		return true
	default:
		return false
	}
}

// ErrInvalidTransition is returned when an action is not allowed in the
// current state.
var ErrInvalidTransition = errors.New("flow: invalid transition")

// Draft is the form the user is filling in. Dates are ISO strings; empty
// means no date.
type Draft struct {
	Country   string
	StartDate string
	EndDate   string
	Budget    float64
}

// LegStore is the subset of the leg service a Flow writes through.
type LegStore interface {
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Leg, error)
	Create(ctx context.Context, tripID uuid.UUID, leg domain.Leg, bypass bool) (domain.Leg, error)
	Update(ctx context.Context, leg domain.Leg, bypass bool) (domain.Leg, error)
}

// Option configures a Flow.
type Option func(*Flow)

// WithClock sets the source of "today" for the range check.
func WithClock(now func() time.Time) Option {
	return func(f *Flow) { f.now = now }
}

// Flow is the add/edit state machine for one trip.
type Flow struct {
	store  LegStore
	tripID uuid.UUID
	now    func() time.Time

	state   State
	draft   Draft
	editing uuid.UUID

	finding *timeline.Finding
	pending []timeline.Finding
	bypass  bool

	saved domain.Leg
	err   error
}

// New returns an idle Flow that adds legs to tripID.
func New(store LegStore, tripID uuid.UUID, opts ...Option) *Flow {
	f := &Flow{
		store:  store,
		tripID: tripID,
		now:    time.Now,
		state:  StateIdle,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// State returns the current step.
func (f *Flow) State() State       { return f.state }
func (f *Flow) Draft() Draft       { return f.draft }
func (f *Flow) Editing() uuid.UUID { return f.editing }
func (f *Flow) Saved() domain.Leg  { return f.saved }
func (f *Flow) Err() error         { return f.err }
func (f *Flow) Bypass() bool       { return f.bypass }
func (f *Flow) TripID() uuid.UUID  { return f.tripID }
func (f *Flow) IsEditing() bool    { return f.editing != uuid.Nil }
func (f *Flow) today() domain.Date { return domain.DateOf(f.now()) }
func (f *Flow) editable() bool     { return !f.state.IsAwaiting() }

// Finding returns the block or advisory the flow is currently stopped on.
func (f *Flow) Finding() (timeline.Finding, bool) {
	if f.finding == nil {
		return timeline.Finding{}, false
	}
	return *f.finding, true
}

// SetDraft replaces the form contents. Not allowed while an advisory is
// waiting for an answer.
func (f *Flow) SetDraft(d Draft) error {
	if !f.editable() {
		return ErrInvalidTransition
	}
	f.draft = d
	f.reset(StateIdle)
	return nil
}

// Edit loads an existing leg into the form. The next commit updates it
// instead of creating a new one.
func (f *Flow) Edit(leg domain.Leg) error {
	if !f.editable() {
		return ErrInvalidTransition
	}
	if leg.TripID != uuid.Nil && leg.TripID != f.tripID {
		return ErrInvalidTransition
	}
	f.editing = leg.ID
	f.draft = Draft{
		Country:   leg.Country,
		StartDate: leg.StartDate.String(),
		EndDate:   leg.EndDate.String(),
		Budget:    leg.Budget,
	}
	f.reset(StateIdle)
	return nil
}

// Submit starts a save attempt. It returns the state the flow stopped in:
// Blocked, one of the Awaiting states, Saved or Failed. The error is non-nil
// only for a store failure or an invalid transition.
func (f *Flow) Submit(ctx context.Context) (State, error) {
	if !f.editable() {
		return f.state, ErrInvalidTransition
	}
	f.reset(StateValidating)

	candidate, ok := f.candidate()
	if !ok {
		return f.state, nil
	}
	existing, err := f.store.ListByTrip(ctx, f.tripID)
	if err != nil {
		return f.fail(err)
	}

	report := timeline.Analyze(existing, candidate, timeline.Options{
		EditingID: f.editing,
		Today:     f.today(),
	})
	if report.Blocked != nil {
		f.block(*report.Blocked)
		return f.state, nil
	}
	f.pending = report.Advisories
	return f.advance(ctx, candidate)
}

// Continue accepts the advisory the flow is waiting on and moves to the next
// one, or commits when none remain. Accepting a duplicate destination makes
// the write bypass the store's duplicate rule.
func (f *Flow) Continue(ctx context.Context) (State, error) {
	if !f.state.IsAwaiting() {
		return f.state, ErrInvalidTransition
	}
	if f.finding.Kind == timeline.KindDuplicate {
		f.bypass = true
	}
	candidate, _ := f.candidate()
	return f.advance(ctx, candidate)
}

// Cancel abandons the attempt without writing. The draft is kept so the user
// can correct it.
func (f *Flow) Cancel() {
	f.reset(StateIdle)
}

// SubmitDirect saves the draft in one step, treating gap and chronological
// advisories as already accepted. A duplicate destination or any hard rule
// stops the save and is returned as a *domain.ValidationError. With
// allowOverlap the overlap rule is skipped and the store write bypasses it.
func (f *Flow) SubmitDirect(ctx context.Context, allowOverlap bool) (domain.Leg, error) {
	if !f.editable() {
		return domain.Leg{}, ErrInvalidTransition
	}
	f.reset(StateValidating)

	candidate, ok := f.candidate()
	if !ok {
		return domain.Leg{}, f.finding.Err()
	}
	existing, err := f.store.ListByTrip(ctx, f.tripID)
	if err != nil {
		_, err = f.fail(err)
		return domain.Leg{}, err
	}

	report := timeline.Analyze(existing, candidate, timeline.Options{
		EditingID:   f.editing,
		Today:       f.today(),
		SkipOverlap: allowOverlap,
	})
	if report.Blocked != nil {
		f.block(*report.Blocked)
		return domain.Leg{}, f.finding.Err()
	}
	if dup, found := report.Advisory(timeline.KindDuplicate); found {
		dup.Blocking = true
		f.block(dup)
		return domain.Leg{}, f.finding.Err()
	}

	f.bypass = allowOverlap
	if _, err := f.commit(ctx, candidate); err != nil {
		return domain.Leg{}, err
	}
	return f.saved, nil
}

// candidate converts the draft into a leg. Unreadable input blocks the flow.
func (f *Flow) candidate() (domain.Leg, bool) {
	leg := domain.Leg{
		ID:      f.editing,
		TripID:  f.tripID,
		Country: strings.TrimSpace(f.draft.Country),
		Budget:  f.draft.Budget,
	}
	if finding, failed := timeline.CheckCountry(leg); failed {
		f.block(finding)
		return domain.Leg{}, false
	}

	var err error
	if leg.StartDate, err = domain.ParseDate(f.draft.StartDate); err != nil {
		f.block(inputFinding(err))
		return domain.Leg{}, false
	}
	if leg.EndDate, err = domain.ParseDate(f.draft.EndDate); err != nil {
		f.block(inputFinding(err))
		return domain.Leg{}, false
	}
	return leg, true
}

func inputFinding(err error) timeline.Finding {
	return timeline.Finding{
		Kind:     timeline.KindInvalidRange,
		Blocking: true,
		Message:  err.Error(),
	}
}

func (f *Flow) advance(ctx context.Context, candidate domain.Leg) (State, error) {
	if len(f.pending) == 0 {
		return f.commit(ctx, candidate)
	}
	next := f.pending[0]
	f.pending = f.pending[1:]
	f.finding = &next
	f.state = awaitingState(next.Kind)
	return f.state, nil
}

func awaitingState(kind timeline.Kind) State {
	switch kind {
	case timeline.KindDuplicate:
		return StateAwaitingDuplicateConfirmation
	case timeline.KindGapFill:
		return StateAwaitingGapAcknowledgment
	default:
		return StateAwaitingOrderAcknowledgment
	}
}

// commit writes the candidate with the accumulated bypass flag.
func (f *Flow) commit(ctx context.Context, candidate domain.Leg) (State, error) {
	f.state = StateCommitting
	f.finding = nil

	var (
		saved domain.Leg
		err   error
	)
	if f.editing != uuid.Nil {
		saved, err = f.store.Update(ctx, candidate, f.bypass)
	} else {
		saved, err = f.store.Create(ctx, f.tripID, candidate, f.bypass)
	}
	if err != nil {
		return f.fail(err)
	}

	f.saved = saved
	f.draft = Draft{}
	f.editing = uuid.Nil
	f.bypass = false
	f.state = StateSaved
	return f.state, nil
}

func (f *Flow) fail(err error) (State, error) {
	f.err = err
	f.finding = nil
	f.pending = nil
	f.state = StateFailed
	return f.state, err
}

func (f *Flow) block(finding timeline.Finding) {
	f.finding = &finding
	f.pending = nil
	f.state = StateBlocked
}

// reset clears per-attempt state and moves to s.
func (f *Flow) reset(s State) {
	f.state = s
	f.finding = nil
	f.pending = nil
	f.bypass = false
	f.err = nil
}
