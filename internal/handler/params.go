package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/tripplanner/internal/domain"
)

// monthLayout is the format of the ?month= calendar parameter.
const monthLayout = "2006-01"

// pathUUID binds a required UUID path parameter.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	return id, nil
}

// queryBool binds an optional boolean query parameter; absent is false.
func queryBool(r *http.Request, name string) (bool, error) {
	var v *bool
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		return false, fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	return v != nil && *v, nil
}

// queryUUID binds an optional UUID query parameter; absent is uuid.Nil.
func queryUUID(r *http.Request, name string) (uuid.UUID, error) {
	var v *openapi_types.UUID
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		return uuid.Nil, fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	if v == nil {
		return uuid.Nil, nil
	}
	return *v, nil
}

// queryDate binds an optional YYYY-MM-DD query parameter; absent is the zero
// Date.
func queryDate(r *http.Request, name string) (domain.Date, error) {
	var v *openapi_types.Date
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		return domain.Date{}, fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	if v == nil {
		return domain.Date{}, nil
	}
	return domain.DateOf(v.Time), nil
}

// queryMonth binds an optional YYYY-MM query parameter, returning the first
// day of that month, or of fallback's month when absent.
func queryMonth(r *http.Request, name string, fallback domain.Date) (domain.Date, error) {
	var v *string
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		return domain.Date{}, fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	if v == nil || *v == "" {
		return fallback.FirstOfMonth(), nil
	}
	t, err := time.Parse(monthLayout, *v)
	if err != nil {
		return domain.Date{}, fmt.Errorf("invalid format for parameter %s: %q is not YYYY-MM", name, *v)
	}
	return domain.DateOf(t), nil
}
