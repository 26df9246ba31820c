package validators

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	pkgerrors "github.com/velotown/bikerental-backend/pkg/errors"
)

// dateLayout matches the <input type="date"> values the storefront submits.
const dateLayout = "2006-01-02"

// UUIDParam parses a chi URL parameter as a UUID.
func UUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name)
	}
	return id, nil
}

// FormDate parses an optional yyyy-mm-dd form field, nil when absent.
func FormDate(r *http.Request, name string) (*time.Time, error) {
	raw := strings.TrimSpace(r.FormValue(name))
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name)
	}
	return &parsed, nil
}

// FormDateRequired parses a mandatory yyyy-mm-dd form field.
func FormDateRequired(r *http.Request, name string) (time.Time, error) {
	parsed, err := FormDate(r, name)
	if err != nil {
		return time.Time{}, err
	}
	if parsed == nil {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, name+" required")
	}
	return *parsed, nil
}

// OptionalFormValue returns a pointer to the trimmed field, nil when empty.
func OptionalFormValue(r *http.Request, name string) *string {
	raw := strings.TrimSpace(r.FormValue(name))
	if raw == "" {
		return nil
	}
	return &raw
}
