package handler

import (
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/tripplanner/internal/calendar"
)

// GetCalendar handles GET /trips/{tripId}/calendar.
//
// ?month=YYYY-MM picks the month (default: the current one). ?start= and
// ?end= describe a tentative selection so the grid can mark the candidate
// range the way the planner would.
func (s *Server) GetCalendar(w http.ResponseWriter, r *http.Request) {
	tripID, ok := s.tripFromPath(w, r)
	if !ok {
		return
	}

	today := s.legs.Today()
	month, err := queryMonth(r, "month", today)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}
	var sel calendar.Selection
	if sel.Start, err = queryDate(r, "start"); err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}
	if sel.End, err = queryDate(r, "end"); err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}

	legs, err := s.legs.ListByTrip(r.Context(), tripID)
	if err != nil {
		s.writeError(w, r, err, "trip not found")
		return
	}

	grid := calendar.MonthGrid(month, legs, today, sel)
	resp := CalendarMonth{
		Month:  month.Time().Format(monthLayout),
		Today:  openapi_types.Date{Time: today.Time()},
		Offset: int(month.Weekday()),
		Days:   make([]CalendarDay, 0, len(grid)),
	}
	for _, day := range grid {
		ids := make([]openapi_types.UUID, 0, len(day.Legs))
		for _, l := range day.Legs {
			ids = append(ids, l.ID)
		}
		resp.Days = append(resp.Days, CalendarDay{
			Date:         openapi_types.Date{Time: day.Date.Time()},
			IsToday:      day.IsToday,
			InRange:      day.InRange,
			IsRangeStart: day.IsRangeStart,
			IsRangeEnd:   day.IsRangeEnd,
			LegIds:       ids,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
