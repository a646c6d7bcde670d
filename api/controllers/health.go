package controllers

import (
	"context"
	"net/http"

	"github.com/kalaasetu/kalaasetu-backend/api/responses"
	"github.com/kalaasetu/kalaasetu-backend/pkg/config"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// Health reports liveness plus the state of the DB and Redis dependencies.
// Any failing dependency turns the response into a 503.
func Health(cfg *config.Config, database, cache pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{}
		healthy := true

		if database != nil {
			if err := database.Ping(r.Context()); err != nil {
				checks["database"] = "unreachable"
				healthy = false
			} else {
				checks["database"] = "ok"
			}
		}
		if cache != nil {
			if err := cache.Ping(r.Context()); err != nil {
				checks["redis"] = "unreachable"
				healthy = false
			} else {
				checks["redis"] = "ok"
			}
		}

		payload := responses.Payload{
			"env":    cfg.App.Env,
			"checks": checks,
		}
		if !healthy {
			responses.WriteStatus(w, http.StatusServiceUnavailable, false, "degraded", payload)
			return
		}
		responses.WriteSuccess(w, "", payload)
	}
}
