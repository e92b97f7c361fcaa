// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/sony/gobreaker/v2"

	"github.com/tomtom215/cinematch/internal/catalog"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/recommend"
)

// ErrReloadUnavailable is returned when no reloader was wired into the handler.
var ErrReloadUnavailable = errors.New("catalog reload is not available")

// writeEngineError maps engine and reload errors to API responses.
// Anything unrecognized is logged and reported as an internal error.
func writeEngineError(rw *ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, recommend.ErrNotLoaded):
		rw.ServiceUnavailable("Catalog is not loaded yet")
	case errors.Is(err, recommend.ErrReloadInProgress):
		rw.Conflict("A catalog reload is already in progress")
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		rw.ServiceUnavailable("Catalog reloads are paused after repeated failures")
	case errors.Is(err, ErrReloadUnavailable), errors.Is(err, catalog.ErrNoSource):
		rw.ServiceUnavailable("No catalog source is configured")
	case errors.Is(err, recommend.ErrInvalidMode):
		rw.BadRequest(err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		rw.Error(http.StatusGatewayTimeout, ErrCodeTimeout, "Request timed out")
	case errors.Is(err, context.Canceled):
		// Client went away; nobody reads the body.
		logging.Ctx(r.Context()).Debug().Msg("Request canceled by client")
		rw.Error(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Request canceled")
	case errors.Is(err, catalog.ErrMissingColumn), errors.Is(err, catalog.ErrMalformedRow):
		logging.Ctx(r.Context()).Error().Err(err).Msg("Catalog data rejected")
		rw.ErrorWithDetails(http.StatusUnprocessableEntity, ErrCodeBadRequest, "Catalog data is invalid", sanitizeLogValue(err.Error()))
	default:
		logging.Ctx(r.Context()).Error().Str("error", sanitizeLogValue(err.Error())).Msg("API error")
		rw.InternalError("Internal server error")
	}
}
