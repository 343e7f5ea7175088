package domain

import (
	"time"

	"github.com/google/uuid"
)

// Leg is one segment of a trip: a destination country with an optional date
// range. A zero StartDate and EndDate means the leg is unscheduled; a set
// StartDate with a zero EndDate means it is open-ended from that day.
type Leg struct {
	ID        uuid.UUID
	TripID    uuid.UUID
	Country   string
	StartDate Date
	EndDate   Date
	Budget    float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Span returns the leg's date range.
func (l Leg) Span() Span {
	return Span{Start: l.StartDate, End: l.EndDate}
}
