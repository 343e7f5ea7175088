package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing country, overlapping dates).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// Rules reported by ValidationError.
const (
	RuleCountryRequired      = "country_required"
	RuleInvalidRange         = "invalid_range"
	RuleMinDuration          = "min_duration"
	RuleOverlap              = "overlap"
	RuleDuplicateDestination = "duplicate_destination"
	RuleTripImmutable        = "trip_immutable"
	RuleNameRequired         = "name_required"
)

// ValidationError names the rule a write violated. It matches ErrValidation
// under errors.Is, so callers that only care about the category keep working.
type ValidationError struct {
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error() + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
