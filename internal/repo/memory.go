package repo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/tripplanner/internal/domain"
)

// Memory is an in-process store holding trips and legs. It behaves like the
// Postgres schema: ids are assigned on create, legs keep insertion order, and
// deleting a trip deletes its legs. Safe for concurrent use.
type Memory struct {
	mu sync.RWMutex

	trips     map[uuid.UUID]domain.Trip
	tripOrder []uuid.UUID

	legs     map[uuid.UUID]domain.Leg
	legOrder []uuid.UUID

	now func() time.Time
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		trips: make(map[uuid.UUID]domain.Trip),
		legs:  make(map[uuid.UUID]domain.Leg),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Trips returns a TripRepo view of m.
func (m *Memory) Trips() TripRepo { return memTripRepo{m} }

// Legs returns a LegRepo view of m.
func (m *Memory) Legs() LegRepo { return memLegRepo{m} }

// newID returns a random id not yet used by any trip or leg. Caller holds mu.
func (m *Memory) newID() uuid.UUID {
	for {
		id := uuid.New()
		_, trip := m.trips[id]
		_, leg := m.legs[id]
		if !trip && !leg {
			return id
		}
	}
}

func without(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

type memTripRepo struct{ m *Memory }

func (r memTripRepo) Create(_ context.Context, trip domain.Trip) (domain.Trip, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	trip.ID = r.m.newID()
	trip.CreatedAt = r.m.now()
	trip.UpdatedAt = trip.CreatedAt
	r.m.trips[trip.ID] = trip
	r.m.tripOrder = append(r.m.tripOrder, trip.ID)
	return trip, nil
}

func (r memTripRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Trip, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	trip, ok := r.m.trips[id]
	if !ok {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", domain.ErrNotFound)
	}
	return trip, nil
}

func (r memTripRepo) List(_ context.Context) ([]domain.Trip, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	trips := make([]domain.Trip, 0, len(r.m.tripOrder))
	for _, id := range r.m.tripOrder {
		trips = append(trips, r.m.trips[id])
	}
	return trips, nil
}

func (r memTripRepo) Update(_ context.Context, trip domain.Trip) (domain.Trip, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	stored, ok := r.m.trips[trip.ID]
	if !ok {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", domain.ErrNotFound)
	}
	stored.Name = trip.Name
	stored.Notes = trip.Notes
	stored.UpdatedAt = r.m.now()
	r.m.trips[trip.ID] = stored
	return stored, nil
}

func (r memTripRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.trips[id]; !ok {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	delete(r.m.trips, id)
	r.m.tripOrder = without(r.m.tripOrder, id)

	for legID, leg := range r.m.legs {
		if leg.TripID == id {
			delete(r.m.legs, legID)
			r.m.legOrder = without(r.m.legOrder, legID)
		}
	}
	return nil
}

type memLegRepo struct{ m *Memory }

func (r memLegRepo) Create(_ context.Context, leg domain.Leg) (domain.Leg, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	leg.ID = r.m.newID()
	leg.CreatedAt = r.m.now()
	leg.UpdatedAt = leg.CreatedAt
	r.m.legs[leg.ID] = leg
	r.m.legOrder = append(r.m.legOrder, leg.ID)
	return leg, nil
}

func (r memLegRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Leg, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	leg, ok := r.m.legs[id]
	if !ok {
		return domain.Leg{}, fmt.Errorf("repo.LegRepo.GetByID: %w", domain.ErrNotFound)
	}
	return leg, nil
}

func (r memLegRepo) ListByTripID(_ context.Context, tripID uuid.UUID) ([]domain.Leg, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	legs := []domain.Leg{}
	for _, id := range r.m.legOrder {
		if leg := r.m.legs[id]; leg.TripID == tripID {
			legs = append(legs, leg)
		}
	}
	return legs, nil
}

func (r memLegRepo) Update(_ context.Context, leg domain.Leg) (domain.Leg, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	stored, ok := r.m.legs[leg.ID]
	if !ok {
		return domain.Leg{}, fmt.Errorf("repo.LegRepo.Update: %w", domain.ErrNotFound)
	}
	stored.Country = leg.Country
	stored.StartDate = leg.StartDate
	stored.EndDate = leg.EndDate
	stored.Budget = leg.Budget
	stored.UpdatedAt = r.m.now()
	r.m.legs[leg.ID] = stored
	return stored, nil
}

func (r memLegRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.legs[id]; !ok {
		return fmt.Errorf("repo.LegRepo.Delete: %w", domain.ErrNotFound)
	}
	delete(r.m.legs, id)
	r.m.legOrder = without(r.m.legOrder, id)
	return nil
}
