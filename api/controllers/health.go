package controllers

import (
	"net/http"

	"github.com/velotown/bikerental-backend/api/responses"
	"github.com/velotown/bikerental-backend/pkg/config"
	"github.com/velotown/bikerental-backend/pkg/db"
	pkgerrors "github.com/velotown/bikerental-backend/pkg/errors"
	"github.com/velotown/bikerental-backend/pkg/logger"
	"github.com/velotown/bikerental-backend/pkg/redis"
)

const envHeader = "X-Bikerental-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the data stores; a failing dependency flips the probe.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		if dbP != nil {
			if err := dbP.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
				return
			}
		}
		if redisP != nil {
			if err := redisP.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unreachable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
