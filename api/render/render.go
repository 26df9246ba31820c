package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	pkgerrors "github.com/velotown/bikerental-backend/pkg/errors"
	"github.com/velotown/bikerental-backend/pkg/logger"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Renderer executes the embedded storefront templates.
type Renderer struct {
	templates *template.Template
	logg      *logger.Logger
}

// New parses the embedded template set.
func New(logg *logger.Logger) (*Renderer, error) {
	templates, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &Renderer{templates: templates, logg: logg}, nil
}

// HTML renders one named template. The page is buffered so a template error
// never leaks a half-written body.
func (r *Renderer) HTML(ctx context.Context, w http.ResponseWriter, status int, name string, data map[string]any) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		if r.logg != nil {
			r.logg.Error(ctx, "render.failed", err)
		}
		http.Error(w, "page unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// Error renders the fallback page carrying the error message, with the HTTP
// status taken from the error's code.
func (r *Renderer) Error(ctx context.Context, w http.ResponseWriter, err error) {
	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}
	meta := pkgerrors.MetadataFor(typed.Code())

	msg := meta.PublicMessage
	if typed.Code() == pkgerrors.CodeValidation || typed.Code() == pkgerrors.CodeNotFound {
		if m := typed.Message(); m != "" {
			msg = m
		}
	}

	if r.logg != nil {
		r.logg.Error(ctx, "request.error", err)
	}
	r.HTML(ctx, w, meta.HTTPStatus, "error.html", map[string]any{"error": msg})
}
