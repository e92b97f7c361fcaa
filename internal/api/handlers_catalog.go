// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"net/http"

	"github.com/tomtom215/cinematch/internal/auth"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/recommend"
)

// CatalogStatus is the body of GET /catalog/status.
type CatalogStatus struct {
	recommend.Status
	Engine recommend.Metrics `json:"engine"`
}

// CatalogStatusHandler reports the installed snapshot and reload state.
func (h *Handler) CatalogStatusHandler(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(CatalogStatus{
		Status: h.engine.Status(),
		Engine: h.engine.Metrics(),
	})
}

// CatalogReload rebuilds the snapshot from the configured source and
// returns the new status. The previous snapshot keeps serving if the reload
// fails.
func (h *Handler) CatalogReload(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	logger := logging.Ctx(r.Context())

	if h.reloader == nil {
		writeEngineError(rw, r, ErrReloadUnavailable)
		return
	}

	event := logger.Info()
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		event = event.Str("subject", claims.Subject)
	}
	event.Msg("Catalog reload requested")

	if err := h.reloader.Reload(r.Context()); err != nil {
		logger.Warn().Err(err).Msg("Catalog reload request failed")
		writeEngineError(rw, r, err)
		return
	}
	rw.Success(h.engine.Status())
}
