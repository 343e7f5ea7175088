package handler

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/tripplanner/internal/domain"
	"github.com/pkordes/tripplanner/internal/timeline"
)

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the envelope every non-2xx JSON response uses.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes what went wrong. Rule is set for validation failures
// that came from a named scheduling rule.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Rule    string `json:"rule,omitempty"`
}

// TripRequest is the body of POST /trips and PUT /trips/{tripId}.
type TripRequest struct {
	Name  string  `json:"name"`
	Notes *string `json:"notes,omitempty"`
}

// Trip is the wire form of domain.Trip.
type Trip struct {
	Id        openapi_types.UUID `json:"id"`
	Name      string             `json:"name"`
	Notes     *string            `json:"notes,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// LegRequest is the body of leg create, update and check. Dates are
// YYYY-MM-DD; empty or absent means no date.
type LegRequest struct {
	Country   string  `json:"country"`
	StartDate string  `json:"start_date,omitempty"`
	EndDate   string  `json:"end_date,omitempty"`
	Budget    float64 `json:"budget"`
}

// Leg is the wire form of domain.Leg.
type Leg struct {
	Id        openapi_types.UUID  `json:"id"`
	TripId    openapi_types.UUID  `json:"trip_id"`
	Country   string              `json:"country"`
	StartDate *openapi_types.Date `json:"start_date,omitempty"`
	EndDate   *openapi_types.Date `json:"end_date,omitempty"`
	Span      string              `json:"span"`
	Budget    float64             `json:"budget"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// CheckResponse is the analyzer's verdict on a candidate leg.
type CheckResponse struct {
	Status     string     `json:"status"`
	Blocked    *Blocked   `json:"blocked,omitempty"`
	Advisories []Advisory `json:"advisories"`
}

// Blocked names the hard rule that stops a save.
type Blocked struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// Advisory is a finding the user may acknowledge and continue past.
type Advisory struct {
	Kind           string              `json:"kind"`
	Message        string              `json:"message"`
	SuggestedStart *openapi_types.Date `json:"suggested_start,omitempty"`
}

// CalendarMonth is the body of GET /trips/{tripId}/calendar.
type CalendarMonth struct {
	Month string             `json:"month"`
	Today openapi_types.Date `json:"today"`
	// Offset is the weekday of the first day, Sunday = 0.
	Offset int           `json:"offset"`
	Days   []CalendarDay `json:"days"`
}

// CalendarDay carries the predicates a day cell needs.
type CalendarDay struct {
	Date         openapi_types.Date   `json:"date"`
	IsToday      bool                 `json:"is_today"`
	InRange      bool                 `json:"in_range"`
	IsRangeStart bool                 `json:"is_range_start"`
	IsRangeEnd   bool                 `json:"is_range_end"`
	LegIds       []openapi_types.UUID `json:"leg_ids"`
}

// --- mapping helpers --------------------------------------------------------

func tripToResponse(t domain.Trip) Trip {
	resp := Trip{
		Id:        t.ID,
		Name:      t.Name,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	if t.Notes != "" {
		resp.Notes = &t.Notes
	}
	return resp
}

func legToResponse(l domain.Leg) Leg {
	return Leg{
		Id:        l.ID,
		TripId:    l.TripID,
		Country:   l.Country,
		StartDate: dateToResponse(l.StartDate),
		EndDate:   dateToResponse(l.EndDate),
		Span:      string(l.Span().Kind()),
		Budget:    l.Budget,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

// dateToResponse returns nil for a zero date so it is omitted from JSON.
func dateToResponse(d domain.Date) *openapi_types.Date {
	if d.IsZero() {
		return nil
	}
	return &openapi_types.Date{Time: d.Time()}
}

// requestToLeg parses the dates of a leg body. A parse failure is reported as
// an invalid_range validation error.
func requestToLeg(body LegRequest) (domain.Leg, error) {
	start, err := domain.ParseDate(body.StartDate)
	if err != nil {
		return domain.Leg{}, &domain.ValidationError{Rule: domain.RuleInvalidRange, Message: err.Error()}
	}
	end, err := domain.ParseDate(body.EndDate)
	if err != nil {
		return domain.Leg{}, &domain.ValidationError{Rule: domain.RuleInvalidRange, Message: err.Error()}
	}
	return domain.Leg{
		Country:   body.Country,
		StartDate: start,
		EndDate:   end,
		Budget:    body.Budget,
	}, nil
}

func reportToResponse(r timeline.Report) CheckResponse {
	resp := CheckResponse{
		Status:     string(r.Status()),
		Advisories: make([]Advisory, 0, len(r.Advisories)),
	}
	if r.Blocked != nil {
		resp.Blocked = &Blocked{Reason: string(r.Blocked.Kind), Message: r.Blocked.Message}
	}
	for _, f := range r.Advisories {
		resp.Advisories = append(resp.Advisories, Advisory{
			Kind:           string(f.Kind),
			Message:        f.Message,
			SuggestedStart: dateToResponse(f.SuggestedStart),
		})
	}
	return resp
}
