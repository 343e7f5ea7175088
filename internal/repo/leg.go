package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/tripplanner/internal/domain"
)

// LegRepo defines the persistence operations for Legs.
// The repo stores what it is given; rule enforcement belongs to the service.
type LegRepo interface {
	// Create inserts a new leg with a freshly assigned ID and returns it.
	Create(ctx context.Context, leg domain.Leg) (domain.Leg, error)

	// GetByID retrieves a single leg.
	// Returns domain.ErrNotFound if no leg with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Leg, error)

	// ListByTripID returns a trip's legs in insertion order.
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Leg, error)

	// Update overwrites country, dates and budget. The trip is never changed.
	// Returns domain.ErrNotFound if no leg with that ID exists.
	Update(ctx context.Context, leg domain.Leg) (domain.Leg, error)

	// Delete removes a leg.
	// Returns domain.ErrNotFound if no leg with that ID exists.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgLegRepo is the Postgres implementation of LegRepo.
// Insertion order is kept by the legs.seq BIGSERIAL column.
type pgLegRepo struct {
	db db
}

// NewLegRepo constructs a LegRepo backed by the provided db connection.
func NewLegRepo(db db) LegRepo {
	return &pgLegRepo{db: db}
}

const legColumns = `id, trip_id, country, start_date, end_date, budget, created_at, updated_at`

func (r *pgLegRepo) Create(ctx context.Context, leg domain.Leg) (domain.Leg, error) {
	const q = `
		INSERT INTO legs (trip_id, country, start_date, end_date, budget)
		VALUES (@trip_id, @country, @start_date, @end_date, @budget)
		RETURNING ` + legColumns

	args := pgx.NamedArgs{
		"trip_id":    leg.TripID,
		"country":    leg.Country,
		"start_date": pgDate(leg.StartDate), // zero Date becomes NULL
		"end_date":   pgDate(leg.EndDate),
		"budget":     leg.Budget,
	}

	result, err := scanLeg(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Leg{}, fmt.Errorf("repo.LegRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgLegRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Leg, error) {
	const q = `SELECT ` + legColumns + ` FROM legs WHERE id = @id`

	result, err := scanLeg(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Leg{}, fmt.Errorf("repo.LegRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgLegRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Leg, error) {
	const q = `
		SELECT ` + legColumns + `
		FROM legs
		WHERE trip_id = @trip_id
		ORDER BY seq`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.LegRepo.ListByTripID: %w", err)
	}
	defer rows.Close()

	legs := []domain.Leg{}
	for rows.Next() {
		leg, err := scanLeg(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.LegRepo.ListByTripID: scan: %w", err)
		}
		legs = append(legs, leg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.LegRepo.ListByTripID: rows: %w", err)
	}
	return legs, nil
}

func (r *pgLegRepo) Update(ctx context.Context, leg domain.Leg) (domain.Leg, error) {
	const q = `
		UPDATE legs
		SET country    = @country,
		    start_date = @start_date,
		    end_date   = @end_date,
		    budget     = @budget,
		    updated_at = now()
		WHERE id = @id
		RETURNING ` + legColumns

	args := pgx.NamedArgs{
		"id":         leg.ID,
		"country":    leg.Country,
		"start_date": pgDate(leg.StartDate),
		"end_date":   pgDate(leg.EndDate),
		"budget":     leg.Budget,
	}

	result, err := scanLeg(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Leg{}, fmt.Errorf("repo.LegRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgLegRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM legs WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.LegRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.LegRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// pgDate maps the zero Date to SQL NULL.
func pgDate(d domain.Date) pgtype.Date {
	if d.IsZero() {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: d.Time(), Valid: true}
}

// scanLeg maps a single database row into a domain.Leg.
// NULL dates become the zero Date.
func scanLeg(s scanner) (domain.Leg, error) {
	var (
		l          domain.Leg
		id, tripID pgtype.UUID
		start, end pgtype.Date
	)

	err := s.Scan(&id, &tripID, &l.Country, &start, &end, &l.Budget, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Leg{}, domain.ErrNotFound
		}
		return domain.Leg{}, err
	}

	l.ID = uuid.UUID(id.Bytes)
	l.TripID = uuid.UUID(tripID.Bytes)
	if start.Valid {
		l.StartDate = domain.DateOf(start.Time)
	}
	if end.Valid {
		l.EndDate = domain.DateOf(end.Time)
	}
	return l, nil
}
