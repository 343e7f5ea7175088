package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pkordes/tripplanner/internal/domain"
)

// notFoundBody returns an ErrorResponse for a missing resource.
// The caller supplies the human-readable message (e.g. "trip not found")
// because the handler is the layer that knows what was being looked up.
func notFoundBody(message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "not_found", Message: message}}
}

// validationBody returns an ErrorResponse for a domain validation failure.
// Services report a *domain.ValidationError; a bare ErrValidation carries no
// message meant for clients, so it gets a generic one.
func validationBody(err error) ErrorResponse {
	detail := ErrorDetail{Code: "validation_error", Message: "request failed validation"}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		detail.Message = verr.Message
		detail.Rule = verr.Rule
	}
	return ErrorResponse{Error: detail}
}

// requestBody returns an ErrorResponse for a request rejected before
// reaching the service layer (e.g. malformed JSON or a bad parameter).
func requestBody(message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "bad_request", Message: message}}
}

func internalBody() ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "internal_error", Message: "internal server error"}}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a service error onto the response. notFound is the message
// used when err matches domain.ErrNotFound. Anything unrecognised is logged
// and reported as a 500 without leaking its text.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, notFoundBody(notFound))
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, validationBody(err))
	default:
		s.log.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, internalBody())
	}
}

// decodeBody reads a JSON request body into dst. It writes the error response
// itself and returns false when the body is missing, oversized or malformed.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil || r.Body == http.NoBody {
		writeJSON(w, http.StatusBadRequest, requestBody("request body is required"))
		return false
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, requestBody("request body too large"))
			return false
		}
		writeJSON(w, http.StatusBadRequest, requestBody("malformed JSON body: "+err.Error()))
		return false
	}
	return true
}
