package calendar

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/tripplanner/internal/domain"
	"github.com/pkordes/tripplanner/internal/flow"
)

// Mode gates whether taps on the grid do anything.
type Mode string

const (
	ModeView Mode = "view"
	ModeEdit Mode = "edit"
)

// State is the selection step the planner is in.
type State string

const (
	StateViewing          State = "viewing"
	StateSelectingDates   State = "selecting_dates"
	StateSelectingCountry State = "selecting_country"
)

var (
	// ErrInvalidTransition is returned when an action is not allowed in the
	// current state.
	ErrInvalidTransition = errors.New("calendar: invalid transition")
	// ErrDeleteNotRequested is returned by ConfirmDelete without a prior
	// RequestDelete.
	ErrDeleteNotRequested = errors.New("calendar: delete was not requested")
)

// Store is what the planner reads and writes legs through.
type Store interface {
	flow.LegStore
	Delete(ctx context.Context, legID uuid.UUID) error
}

// Option configures a Planner.
type Option func(*Planner)

// WithClock sets the source of "today".
func WithClock(now func() time.Time) Option {
	return func(p *Planner) { p.now = now }
}

// WithAllowOverlap controls whether legs created from the grid may overlap
// existing ones. Defaults to true.
func WithAllowOverlap(allow bool) Option {
	return func(p *Planner) { p.allowOverlap = allow }
}

// Planner is the calendar selection state machine for one trip.
type Planner struct {
	store        Store
	tripID       uuid.UUID
	now          func() time.Time
	allowOverlap bool

	mode  Mode
	state State
	month domain.Date
	legs  []domain.Leg

	sel              Selection
	country          string
	editing          *domain.Leg
	confirmingDelete bool
}

// New returns a planner in view mode showing the current month. Call Load to
// read the trip's legs.
func New(store Store, tripID uuid.UUID, opts ...Option) *Planner {
	p := &Planner{
		store:        store,
		tripID:       tripID,
		now:          time.Now,
		allowOverlap: true,
		mode:         ModeView,
		state:        StateViewing,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.month = p.Today().FirstOfMonth()
	return p
}

// Mode returns whether taps are armed.
func (p *Planner) Mode() Mode                 { return p.mode }
func (p *Planner) State() State               { return p.state }
func (p *Planner) Month() domain.Date         { return p.month }
func (p *Planner) Selection() Selection       { return p.sel }
func (p *Planner) Country() string            { return p.country }
func (p *Planner) ConfirmingDelete() bool     { return p.confirmingDelete }
func (p *Planner) Legs() []domain.Leg         { return p.legs }
func (p *Planner) Today() domain.Date         { return domain.DateOf(p.now()) }
func (p *Planner) IsToday(d domain.Date) bool { return d.Equal(p.Today()) }

// Editing returns the leg being edited, if the selection came from one.
func (p *Planner) Editing() (domain.Leg, bool) {
	if p.editing == nil {
		return domain.Leg{}, false
	}
	return *p.editing, true
}

// Load refreshes the planner's copy of the trip's legs.
func (p *Planner) Load(ctx context.Context) error {
	legs, err := p.store.ListByTrip(ctx, p.tripID)
	if err != nil {
		return fmt.Errorf("calendar.Planner.Load: %w", err)
	}
	p.legs = legs
	return nil
}

// SetMode switches between view and edit. Entering view mode drops any
// selection in progress.
func (p *Planner) SetMode(m Mode) {
	p.mode = m
	if m == ModeView {
		p.Reset()
	}
}

// ToggleMode flips between view and edit.
func (p *Planner) ToggleMode() {
	if p.mode == ModeView {
		p.SetMode(ModeEdit)
		return
	}
	p.SetMode(ModeView)
}

// PrevMonth shows the previous month. The selection is untouched.
func (p *Planner) PrevMonth() { p.month = p.month.AddDate(0, -1, 0) }

// NextMonth shows the next month. The selection is untouched.
func (p *Planner) NextMonth() { p.month = p.month.AddDate(0, 1, 0) }

// TapDay applies a tap on day and reports whether it changed anything.
// Taps do nothing in view mode. Once a range is complete, a tap starts a new
// one; while a leg is being edited the new range replaces its dates.
func (p *Planner) TapDay(day domain.Date) bool {
	if p.mode != ModeEdit || day.IsZero() {
		return false
	}

	switch p.state {
	case StateViewing:
		if covering := LegsOn(p.legs, day); len(covering) > 0 {
			leg := covering[0]
			p.editing = &leg
			p.sel = Selection{Start: leg.StartDate, End: leg.EndDate}
			p.country = leg.Country
			p.state = StateSelectingCountry
			return true
		}
		p.startRange(day)
		return true

	case StateSelectingDates:
		if day.Before(p.sel.Start) {
			p.startRange(day)
			return true
		}
		p.sel.End = day
		p.state = StateSelectingCountry
		return true

	case StateSelectingCountry:
		p.startRange(day)
		return true
	}
	return false
}

// startRange begins a new selection at day. An edited leg keeps its country.
func (p *Planner) startRange(day domain.Date) {
	p.sel = Selection{Start: day}
	if p.editing == nil {
		p.country = ""
	}
	p.confirmingDelete = false
	p.state = StateSelectingDates
}

// SelectCountry sets the destination for the selected range.
func (p *Planner) SelectCountry(country string) error {
	if p.state != StateSelectingCountry {
		return ErrInvalidTransition
	}
	p.country = country
	return nil
}

// CanCommit reports whether a range and a destination are both chosen.
func (p *Planner) CanCommit() bool {
	return p.state == StateSelectingCountry && strings.TrimSpace(p.country) != ""
}

// Commit writes the selection. A new range is created through the add flow
// with advisories pre-accepted; an edited leg gets the selected country and
// dates, with every rule enforced. On success the planner reloads its legs and
// returns to viewing; on failure the selection is kept so the user can adjust
// it. If the write succeeds but the reload fails, the saved leg is returned
// along with the reload error.
func (p *Planner) Commit(ctx context.Context) (domain.Leg, error) {
	if !p.CanCommit() {
		return domain.Leg{}, ErrInvalidTransition
	}

	var (
		saved domain.Leg
		err   error
	)
	if p.editing != nil {
		leg := *p.editing
		leg.Country = p.country
		leg.StartDate = p.sel.Start
		leg.EndDate = p.sel.End
		saved, err = p.store.Update(ctx, leg, false)
	} else {
		f := flow.New(p.store, p.tripID, flow.WithClock(p.now))
		if err = f.SetDraft(flow.Draft{
			Country:   p.country,
			StartDate: p.sel.Start.String(),
			EndDate:   p.sel.End.String(),
		}); err == nil {
			saved, err = f.SubmitDirect(ctx, p.allowOverlap)
		}
	}
	if err != nil {
		return domain.Leg{}, fmt.Errorf("calendar.Planner.Commit: %w", err)
	}

	p.Reset()
	if err := p.Load(ctx); err != nil {
		return saved, fmt.Errorf("calendar.Planner.Commit: reload: %w", err)
	}
	return saved, nil
}

// RequestDelete asks for confirmation before deleting the edited leg.
func (p *Planner) RequestDelete() error {
	if p.state != StateSelectingCountry || p.editing == nil {
		return ErrInvalidTransition
	}
	p.confirmingDelete = true
	return nil
}

// CancelDelete withdraws a delete request; the leg stays selected.
func (p *Planner) CancelDelete() { p.confirmingDelete = false }

// ConfirmDelete deletes the edited leg and returns to viewing.
func (p *Planner) ConfirmDelete(ctx context.Context) error {
	if !p.confirmingDelete || p.editing == nil {
		return ErrDeleteNotRequested
	}
	if err := p.store.Delete(ctx, p.editing.ID); err != nil {
		return fmt.Errorf("calendar.Planner.ConfirmDelete: %w", err)
	}
	p.Reset()
	return p.Load(ctx)
}

// Reset drops the selection and returns to viewing. Mode and month are kept.
func (p *Planner) Reset() {
	p.state = StateViewing
	p.sel = Selection{}
	p.country = ""
	p.editing = nil
	p.confirmingDelete = false
}

// InCandidateRange reports whether day is inside the current selection.
func (p *Planner) InCandidateRange(day domain.Date) bool { return p.sel.Contains(day) }

// IsRangeBoundary reports whether day starts or ends the current selection.
func (p *Planner) IsRangeBoundary(day domain.Date) bool { return p.sel.IsBoundary(day) }

// LegsOn returns the loaded legs covering day.
func (p *Planner) LegsOn(day domain.Date) []domain.Leg { return LegsOn(p.legs, day) }

// Days returns the grid for the displayed month.
func (p *Planner) Days() []Day {
	return MonthGrid(p.month, p.legs, p.Today(), p.sel)
}
