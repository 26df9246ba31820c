package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/velotown/bikerental-backend/api/responses"
	"github.com/velotown/bikerental-backend/pkg/config"
	pkgerrors "github.com/velotown/bikerental-backend/pkg/errors"
	"github.com/velotown/bikerental-backend/pkg/logger"
)

const adminKeyHeader = "X-Admin-Key"

// AdminKey guards the admin API with a shared header key. An empty
// configured key locks the admin surface entirely.
func AdminKey(cfg config.AdminConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			supplied := r.Header.Get(adminKeyHeader)
			if cfg.APIKey == "" || subtle.ConstantTimeCompare([]byte(supplied), []byte(cfg.APIKey)) != 1 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin key required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
