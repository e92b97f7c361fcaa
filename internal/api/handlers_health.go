// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"net/http"
	"time"
)

// HealthStatus is the body of the health endpoints.
type HealthStatus struct {
	Status         string  `json:"status"`
	CatalogLoaded  bool    `json:"catalog_loaded"`
	CatalogVersion int64   `json:"catalog_version,omitempty"`
	Uptime         float64 `json:"uptime_seconds"`
}

// HealthLive reports that the process is serving HTTP.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(HealthStatus{
		Status:        "alive",
		CatalogLoaded: h.engine.Ready(),
		Uptime:        time.Since(h.startTime).Seconds(),
	})
}

// HealthReady answers 200 once a catalog snapshot is installed and 503
// before that.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if !h.engine.Ready() {
		rw.ServiceUnavailable("Catalog is not loaded yet")
		return
	}
	rw.Success(HealthStatus{
		Status:         "ready",
		CatalogLoaded:  true,
		CatalogVersion: h.engine.Status().Snapshot.Version,
		Uptime:         time.Since(h.startTime).Seconds(),
	})
}
