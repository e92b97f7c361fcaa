// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"context"
	"time"

	"github.com/tomtom215/cinematch/internal/catalog"
	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/recommend"
)

// Engine is the part of recommend.Engine the handlers use.
type Engine interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error)
	Selectable() ([]string, error)
	Stats(title string) (catalog.TitleStats, bool, error)
	Status() recommend.Status
	Metrics() recommend.Metrics
	Ready() bool
}

// Reloader rebuilds the catalog snapshot on demand.
type Reloader interface {
	Reload(ctx context.Context) error
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_health.go: liveness and readiness
//   - handlers_movies.go: selectable list and title stats
//   - handlers_recommend.go: content, collaborative and combined recommendations
//   - handlers_catalog.go: snapshot status and reload
type Handler struct {
	engine    Engine
	reloader  Reloader
	config    *config.Config
	startTime time.Time
}

// NewHandler creates a new API handler. reloader may be nil, in which case
// the reload endpoint answers 503.
func NewHandler(engine Engine, reloader Reloader, cfg *config.Config) *Handler {
	if cfg == nil {
		cfg = config.Defaults()
	}
	return &Handler{
		engine:    engine,
		reloader:  reloader,
		config:    cfg,
		startTime: time.Now(),
	}
}
