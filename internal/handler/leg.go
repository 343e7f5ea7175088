package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/pkordes/tripplanner/internal/domain"
)

// ListLegs handles GET /trips/{tripId}/legs.
// Legs are returned in the order they were added.
func (s *Server) ListLegs(w http.ResponseWriter, r *http.Request) {
	tripID, ok := s.tripFromPath(w, r)
	if !ok {
		return
	}

	legs, err := s.legs.ListByTrip(r.Context(), tripID)
	if err != nil {
		s.writeError(w, r, err, "trip not found")
		return
	}

	data := make([]Leg, len(legs))
	for i, l := range legs {
		data[i] = legToResponse(l)
	}
	writeJSON(w, http.StatusOK, data)
}

// CreateLeg handles POST /trips/{tripId}/legs.
// ?bypass=true skips the overlap and duplicate-destination rules; the caller
// is asserting the user already accepted them.
func (s *Server) CreateLeg(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathUUID(r, "tripId")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}
	bypass, err := queryBool(r, "bypass")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}
	leg, ok := decodeLeg(w, r)
	if !ok {
		return
	}

	created, err := s.legs.Create(r.Context(), tripID, leg, bypass)
	if err != nil {
		s.writeError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusCreated, legToResponse(created))
}

// CheckLeg handles POST /trips/{tripId}/legs/check.
// It runs the timeline analysis for a candidate without saving it. Pass
// ?editing={legId} when re-checking an edit so the leg is not compared with
// itself.
func (s *Server) CheckLeg(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathUUID(r, "tripId")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}
	editing, err := queryUUID(r, "editing")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}
	var body LegRequest
	if !decodeBody(w, r, &body) {
		return
	}

	candidate, err := requestToLeg(body)
	if err != nil {
		// Unreadable dates are a blocked verdict, not a failed request.
		var verr *domain.ValidationError
		errors.As(err, &verr)
		writeJSON(w, http.StatusOK, CheckResponse{
			Status:     "blocked",
			Blocked:    &Blocked{Reason: verr.Rule, Message: verr.Message},
			Advisories: []Advisory{},
		})
		return
	}

	report, err := s.legs.Check(r.Context(), tripID, candidate, editing)
	if err != nil {
		s.writeError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, reportToResponse(report))
}

// UpdateLeg handles PUT /trips/{tripId}/legs/{legId}.
func (s *Server) UpdateLeg(w http.ResponseWriter, r *http.Request) {
	tripID, ok := s.tripFromPath(w, r)
	if !ok {
		return
	}
	legID, err := pathUUID(r, "legId")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}
	bypass, err := queryBool(r, "bypass")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}
	leg, ok := decodeLeg(w, r)
	if !ok {
		return
	}

	if _, found := s.legInTrip(w, r, tripID, legID); !found {
		return
	}

	leg.ID = legID
	leg.TripID = tripID
	updated, err := s.legs.Update(r.Context(), leg, bypass)
	if err != nil {
		s.writeError(w, r, err, "leg not found")
		return
	}
	writeJSON(w, http.StatusOK, legToResponse(updated))
}

// DeleteLeg handles DELETE /trips/{tripId}/legs/{legId}.
// Deleting a leg that no longer exists succeeds.
func (s *Server) DeleteLeg(w http.ResponseWriter, r *http.Request) {
	tripID, ok := s.tripFromPath(w, r)
	if !ok {
		return
	}
	legID, err := pathUUID(r, "legId")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}

	leg, err := s.legs.GetByID(r.Context(), legID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		w.WriteHeader(http.StatusNoContent)
		return
	case err != nil:
		s.writeError(w, r, err, "leg not found")
		return
	case leg.TripID != tripID:
		writeJSON(w, http.StatusNotFound, notFoundBody("leg not found"))
		return
	}

	if err := s.legs.Delete(r.Context(), legID); err != nil {
		s.writeError(w, r, err, "leg not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// tripFromPath binds {tripId} and confirms the trip exists.
func (s *Server) tripFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	tripID, err := pathUUID(r, "tripId")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return uuid.Nil, false
	}
	if _, err := s.trips.GetByID(r.Context(), tripID); err != nil {
		s.writeError(w, r, err, "trip not found")
		return uuid.Nil, false
	}
	return tripID, true
}

// legInTrip loads a leg and reports 404 unless it belongs to tripID.
func (s *Server) legInTrip(w http.ResponseWriter, r *http.Request, tripID, legID uuid.UUID) (domain.Leg, bool) {
	leg, err := s.legs.GetByID(r.Context(), legID)
	if err != nil {
		s.writeError(w, r, err, "leg not found")
		return domain.Leg{}, false
	}
	if leg.TripID != tripID {
		writeJSON(w, http.StatusNotFound, notFoundBody("leg not found"))
		return domain.Leg{}, false
	}
	return leg, true
}

// decodeLeg reads a LegRequest body and parses its dates.
func decodeLeg(w http.ResponseWriter, r *http.Request) (domain.Leg, bool) {
	var body LegRequest
	if !decodeBody(w, r, &body) {
		return domain.Leg{}, false
	}
	leg, err := requestToLeg(body)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, validationBody(err))
		return domain.Leg{}, false
	}
	return leg, true
}
