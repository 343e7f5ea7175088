package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripplanner/internal/domain"
	"github.com/pkordes/tripplanner/internal/repo"
)

// mustCreateTrip inserts a parent trip and fails the test if the insert does
// not succeed.
func mustCreateTrip(t *testing.T, r repo.TripRepo) domain.Trip {
	t.Helper()
	trip, err := r.Create(context.Background(), tripFixture())
	require.NoError(t, err, "create parent trip")
	return trip
}

// legFixture returns a closed leg ready for insertion against tripID.
func legFixture(tripID uuid.UUID) domain.Leg {
	return domain.Leg{
		TripID:    tripID,
		Country:   "France",
		StartDate: domain.MustParseDate("2024-03-01"),
		EndDate:   domain.MustParseDate("2024-03-05"),
		Budget:    1200.5,
	}
}

func TestLegRepo_Create(t *testing.T) {
	eachBackend(t, func(t *testing.T, newRepos reposFactory) {
		trips, legs := newRepos(t)
		parent := mustCreateTrip(t, trips)
		input := legFixture(parent.ID)

		got, err := legs.Create(context.Background(), input)

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, got.ID, "ID should be assigned on create")
		assert.Equal(t, parent.ID, got.TripID)
		assert.Equal(t, "France", got.Country)
		assert.Equal(t, input.StartDate, got.StartDate)
		assert.Equal(t, input.EndDate, got.EndDate)
		assert.InDelta(t, 1200.5, got.Budget, 0.001)
		assert.False(t, got.CreatedAt.IsZero())
	})
}

func TestLegRepo_Create_NoDates(t *testing.T) {
	eachBackend(t, func(t *testing.T, newRepos reposFactory) {
		trips, legs := newRepos(t)
		parent := mustCreateTrip(t, trips)
		input := legFixture(parent.ID)
		input.StartDate, input.EndDate = domain.Date{}, domain.Date{}

		got, err := legs.Create(context.Background(), input)

		require.NoError(t, err)
		assert.True(t, got.StartDate.IsZero())
		assert.True(t, got.EndDate.IsZero())
		assert.Equal(t, domain.SpanUnscheduled, got.Span().Kind())
	})
}

func TestLegRepo_Create_FreshIDs(t *testing.T) {
	eachBackend(t, func(t *testing.T, newRepos reposFactory) {
		trips, legs := newRepos(t)
		parent := mustCreateTrip(t, trips)
		ctx := context.Background()

		seen := map[uuid.UUID]bool{parent.ID: true}
		for i := 0; i < 5; i++ {
			got, err := legs.Create(ctx, legFixture(parent.ID))
			require.NoError(t, err)
			assert.False(t, seen[got.ID], "id reused")
			seen[got.ID] = true
		}
	})
}

func TestLegRepo_ListByTripID_InsertionOrder(t *testing.T) {
	eachBackend(t, func(t *testing.T, newRepos reposFactory) {
		trips, legs := newRepos(t)
		ctx := context.Background()
		parent := mustCreateTrip(t, trips)
		other := mustCreateTrip(t, trips)

		for _, c := range []string{"Italy", "France", "Spain"} {
			l := legFixture(parent.ID)
			l.Country = c
			_, err := legs.Create(ctx, l)
			require.NoError(t, err)
		}
		_, err := legs.Create(ctx, legFixture(other.ID))
		require.NoError(t, err)

		got, err := legs.ListByTripID(ctx, parent.ID)

		require.NoError(t, err)
		require.Len(t, got, 3, "should return only legs for the given trip")
		assert.Equal(t, "Italy", got[0].Country)
		assert.Equal(t, "France", got[1].Country)
		assert.Equal(t, "Spain", got[2].Country)
	})
}

func TestLegRepo_ListByTripID_Empty(t *testing.T) {
	eachBackend(t, func(t *testing.T, newRepos reposFactory) {
		trips, legs := newRepos(t)
		parent := mustCreateTrip(t, trips)

		got, err := legs.ListByTripID(context.Background(), parent.ID)

		require.NoError(t, err)
		assert.NotNil(t, got, "should return empty slice, not nil")
		assert.Empty(t, got)
	})
}

func TestLegRepo_Update(t *testing.T) {
	eachBackend(t, func(t *testing.T, newRepos reposFactory) {
		trips, legs := newRepos(t)
		ctx := context.Background()
		parent := mustCreateTrip(t, trips)
		created, err := legs.Create(ctx, legFixture(parent.ID))
		require.NoError(t, err)

		created.Country = "Belgium"
		created.EndDate = domain.Date{}
		created.Budget = 0

		updated, err := legs.Update(ctx, created)

		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, "Belgium", updated.Country)
		assert.True(t, updated.EndDate.IsZero())
		assert.Equal(t, domain.SpanOpen, updated.Span().Kind())
	})
}

func TestLegRepo_Update_KeepsTrip(t *testing.T) {
	eachBackend(t, func(t *testing.T, newRepos reposFactory) {
		trips, legs := newRepos(t)
		ctx := context.Background()
		parent := mustCreateTrip(t, trips)
		other := mustCreateTrip(t, trips)
		created, err := legs.Create(ctx, legFixture(parent.ID))
		require.NoError(t, err)

		created.TripID = other.ID
		updated, err := legs.Update(ctx, created)

		require.NoError(t, err)
		assert.Equal(t, parent.ID, updated.TripID)
	})
}

func TestLegRepo_Update_NotFound(t *testing.T) {
	eachBackend(t, func(t *testing.T, newRepos reposFactory) {
		_, legs := newRepos(t)
		ghost := legFixture(uuid.New())
		ghost.ID = uuid.New()

		_, err := legs.Update(context.Background(), ghost)

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestLegRepo_Delete(t *testing.T) {
	eachBackend(t, func(t *testing.T, newRepos reposFactory) {
		trips, legs := newRepos(t)
		ctx := context.Background()
		parent := mustCreateTrip(t, trips)
		created, err := legs.Create(ctx, legFixture(parent.ID))
		require.NoError(t, err)

		require.NoError(t, legs.Delete(ctx, created.ID))

		_, err = legs.GetByID(ctx, created.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.ErrorIs(t, legs.Delete(ctx, created.ID), domain.ErrNotFound)
	})
}

func TestLegRepo_TripDeleteCascades(t *testing.T) {
	eachBackend(t, func(t *testing.T, newRepos reposFactory) {
		trips, legs := newRepos(t)
		ctx := context.Background()
		parent := mustCreateTrip(t, trips)
		created, err := legs.Create(ctx, legFixture(parent.ID))
		require.NoError(t, err)

		require.NoError(t, trips.Delete(ctx, parent.ID))

		_, err = legs.GetByID(ctx, created.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
