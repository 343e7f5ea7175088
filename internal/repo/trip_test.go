package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripplanner/internal/domain"
	"github.com/pkordes/tripplanner/internal/repo"
	"github.com/pkordes/tripplanner/testutil"
)

// reposFactory returns a TripRepo and LegRepo that share one backing store.
// Every test in this package runs once per backend so the in-memory store and
// the Postgres store are held to the same behaviour.
type reposFactory func(t *testing.T) (repo.TripRepo, repo.LegRepo)

// newMemoryRepos returns repos over a fresh in-memory store.
func newMemoryRepos(t *testing.T) (repo.TripRepo, repo.LegRepo) {
	t.Helper()
	m := repo.NewMemory()
	return m.Trips(), m.Legs()
}

// newPostgresRepos returns repos bound to a per-test transaction that is
// rolled back when the test finishes.
//
// Requires TEST_DATABASE_URL to be set; TestMain applies the migrations.
func newPostgresRepos(t *testing.T) (repo.TripRepo, repo.LegRepo) {
	t.Helper()
	tx := testutil.NewTx(t)
	return repo.NewTripRepo(tx), repo.NewLegRepo(tx)
}

// eachBackend runs fn as a subtest against every repo implementation.
func eachBackend(t *testing.T, fn func(t *testing.T, newRepos reposFactory)) {
	t.Run("memory", func(t *testing.T) { fn(t, newMemoryRepos) })
	t.Run("postgres", func(t *testing.T) { fn(t, newPostgresRepos) })
}

// tripFixture returns a domain.Trip with sensible defaults for use in tests.
func tripFixture() domain.Trip {
	return domain.Trip{
		Name:  "Spring in Europe",
		Notes: "Test notes",
	}
}

func TestTripRepo_Create(t *testing.T) {
	eachBackend(t, func(t *testing.T, newRepos reposFactory) {
		trips, _ := newRepos(t)

		input := tripFixture()
		got, err := trips.Create(context.Background(), input)

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, got.ID, "ID should be generated")
		assert.Equal(t, input.Name, got.Name)
		assert.Equal(t, input.Notes, got.Notes)
		assert.False(t, got.CreatedAt.IsZero(), "CreatedAt should be set")
		assert.False(t, got.UpdatedAt.IsZero(), "UpdatedAt should be set")
	})
}

func TestTripRepo_GetByID(t *testing.T) {
	eachBackend(t, func(t *testing.T, newRepos reposFactory) {
		trips, _ := newRepos(t)
		ctx := context.Background()

		created, err := trips.Create(ctx, tripFixture())
		require.NoError(t, err)

		got, err := trips.GetByID(ctx, created.ID)

		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, created.Name, got.Name)
	})
}

func TestTripRepo_GetByID_NotFound(t *testing.T) {
	eachBackend(t, func(t *testing.T, newRepos reposFactory) {
		trips, _ := newRepos(t)

		_, err := trips.GetByID(context.Background(), uuid.New())

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestTripRepo_List(t *testing.T) {
	eachBackend(t, func(t *testing.T, newRepos reposFactory) {
		trips, _ := newRepos(t)
		ctx := context.Background()

		t1 := tripFixture()
		t1.Name = "First Trip"
		t2 := tripFixture()
		t2.Name = "Second Trip"

		_, err := trips.Create(ctx, t1)
		require.NoError(t, err)
		_, err = trips.Create(ctx, t2)
		require.NoError(t, err)

		got, err := trips.List(ctx)

		require.NoError(t, err)
		require.GreaterOrEqual(t, len(got), 2, "should return at least the two created trips")
		var names []string
		for _, tr := range got {
			names = append(names, tr.Name)
		}
		assert.Contains(t, names, "First Trip")
		assert.Contains(t, names, "Second Trip")
	})
}

func TestTripRepo_Update(t *testing.T) {
	eachBackend(t, func(t *testing.T, newRepos reposFactory) {
		trips, _ := newRepos(t)
		ctx := context.Background()

		created, err := trips.Create(ctx, tripFixture())
		require.NoError(t, err)

		created.Name = "Updated Name"
		created.Notes = "Updated notes"

		updated, err := trips.Update(ctx, created)

		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, "Updated Name", updated.Name)
		assert.Equal(t, "Updated notes", updated.Notes)
		assert.False(t, updated.UpdatedAt.IsZero())
	})
}

func TestTripRepo_Update_NotFound(t *testing.T) {
	eachBackend(t, func(t *testing.T, newRepos reposFactory) {
		trips, _ := newRepos(t)

		ghost := tripFixture()
		ghost.ID = uuid.New()

		_, err := trips.Update(context.Background(), ghost)

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestTripRepo_Delete(t *testing.T) {
	eachBackend(t, func(t *testing.T, newRepos reposFactory) {
		trips, _ := newRepos(t)
		ctx := context.Background()

		created, err := trips.Create(ctx, tripFixture())
		require.NoError(t, err)

		require.NoError(t, trips.Delete(ctx, created.ID))

		_, err = trips.GetByID(ctx, created.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound, "trip should be gone after delete")
	})
}

func TestTripRepo_Delete_NotFound(t *testing.T) {
	eachBackend(t, func(t *testing.T, newRepos reposFactory) {
		trips, _ := newRepos(t)

		err := trips.Delete(context.Background(), uuid.New())

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
