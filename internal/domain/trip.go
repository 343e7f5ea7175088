// Package domain contains the core data types for the trip planner.
// This package is imported by every other internal package (timeline, repo,
// service, flow, calendar, handler) and holds no I/O.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip is the parent container for Legs. Only its identity matters to the
// timeline engine; Name and Notes are carried for display.
type Trip struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
