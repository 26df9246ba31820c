package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/velotown/bikerental-backend/pkg/config"
	"github.com/velotown/bikerental-backend/pkg/logger"
)

type sessionCtxKey struct{}

// Session identifies anonymous visitors for cart scoping. A first-time
// visitor gets a fresh uuid cookie; returning visitors keep theirs. The
// session carries no identity and no privileges.
func Session(cfg config.SessionConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if cookie, err := r.Cookie(cfg.CookieName); err == nil && cookie.Value != "" {
				sessionID = cookie.Value
			}
			if sessionID == "" {
				sessionID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CookieName,
					Value:    sessionID,
					Path:     "/",
					MaxAge:   int(cfg.TTL.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithSessionID attaches the visitor session id to the context.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, sessionID)
}

// SessionIDFromContext returns the visitor session id, empty when the
// session middleware did not run.
func SessionIDFromContext(ctx context.Context) string {
	if sessionID, ok := ctx.Value(sessionCtxKey{}).(string); ok {
		return sessionID
	}
	return ""
}
