// Package handler implements the HTTP handlers for the trip planner API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, trip.go, leg.go, calendar.go) but all share the same
// Server struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/tripplanner/internal/domain"
	"github.com/pkordes/tripplanner/internal/timeline"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	List(ctx context.Context) ([]domain.Trip, error)
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// LegServicer defines the leg operations the leg and calendar handlers
// depend on.
type LegServicer interface {
	Create(ctx context.Context, tripID uuid.UUID, leg domain.Leg, bypass bool) (domain.Leg, error)
	Update(ctx context.Context, leg domain.Leg, bypass bool) (domain.Leg, error)
	Delete(ctx context.Context, legID uuid.UUID) error
	GetByID(ctx context.Context, legID uuid.UUID) (domain.Leg, error)
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Leg, error)
	Check(ctx context.Context, tripID uuid.UUID, candidate domain.Leg, editingID uuid.UUID) (timeline.Report, error)
	Today() domain.Date
}

// Server holds the dependencies shared by every handler.
type Server struct {
	trips TripServicer
	legs  LegServicer
	log   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for unexpected errors. Defaults to
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// NewServer constructs the Server with all its dependencies.
func NewServer(trips TripServicer, legs LegServicer, opts ...Option) *Server {
	s := &Server{trips: trips, legs: legs, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes returns the API router. main.go mounts it behind the shared
// middleware stack; tests serve it directly.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)

	r.Route("/trips", func(r chi.Router) {
		r.Get("/", s.ListTrips)
		r.Post("/", s.CreateTrip)

		r.Route("/{tripId}", func(r chi.Router) {
			r.Get("/", s.GetTrip)
			r.Put("/", s.UpdateTrip)
			r.Delete("/", s.DeleteTrip)

			r.Get("/legs", s.ListLegs)
			r.Post("/legs", s.CreateLeg)
			r.Post("/legs/check", s.CheckLeg)
			r.Put("/legs/{legId}", s.UpdateLeg)
			r.Delete("/legs/{legId}", s.DeleteLeg)

			r.Get("/calendar", s.GetCalendar)
		})
	})
	return r
}
