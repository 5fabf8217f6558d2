package controllers

import (
	"fmt"
	"net/http"

	"go.uber.org/multierr"

	"github.com/ananyakrishnan/safarnama-backend/api/responses"
	"github.com/ananyakrishnan/safarnama-backend/pkg/config"
	"github.com/ananyakrishnan/safarnama-backend/pkg/db"
	pkgerrors "github.com/ananyakrishnan/safarnama-backend/pkg/errors"
	"github.com/ananyakrishnan/safarnama-backend/pkg/logger"
	"github.com/ananyakrishnan/safarnama-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Safarnama-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when both backing stores answer a ping.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Safarnama-Env", cfg.App.Env)

		var errs error
		if dbP != nil {
			if err := dbP.Ping(r.Context()); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("database: %w", err))
			}
		}
		if redisP != nil {
			if err := redisP.Ping(r.Context()); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("redis: %w", err))
			}
		}
		if errs != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "backing stores unavailable"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
