// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/tereport/internal/models"
)

// Index returns the server name. Portal deployments use it as a liveness check.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	respondText(w, http.StatusOK, h.config.Server.Name)
}

// Health reports uptime and upstream circuit breaker states.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	health := models.HealthStatus{
		Status: "healthy",
		Name:   h.config.Server.Name,
		Uptime: time.Since(h.startTime).Seconds(),
	}

	if len(h.breakers) > 0 {
		health.Breakers = make(map[string]string, len(h.breakers))
		for _, b := range h.breakers {
			state := b.BreakerState()
			health.Breakers[b.Service()] = state
			if state == "open" {
				health.Status = "degraded"
			}
		}
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   health,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}
