package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/todo-api/shared/logger"
	"github.com/vasapolrittideah/todo-api/shared/utilities"
)

const healthCheckTimeout = 2 * time.Second

// Pinger reports whether a backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthResponse struct {
	Status string `json:"status"`
}

// Health answers 200 while the store responds to pings and 503 otherwise.
func Health(pinger Pinger, fallback *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		status, body := http.StatusOK, healthResponse{Status: "ok"}
		if err := pinger.Ping(ctx); err != nil {
			logger.FromContext(r.Context(), fallback).Error().Err(err).Msg("store ping failed")
			status, body = http.StatusServiceUnavailable, healthResponse{Status: "unavailable"}
		}

		_ = utilities.WriteJSON(w, status, body)
	}
}
