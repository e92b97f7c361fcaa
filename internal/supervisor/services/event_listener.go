// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/events"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
)

// CachePurger drops cached responses of snapshot versions other than keep.
// recommend.Engine satisfies it.
type CachePurger interface {
	PurgeCache(keep int64) int
	SnapshotVersion() int64
}

// EventListener consumes catalog.reloaded events: it logs each reload and
// purges response-cache entries computed against older snapshots.
//
// A Watermill router runs once, so every Serve builds a fresh one; suture
// restarts therefore resubscribe cleanly.
type EventListener struct {
	bus       *events.Bus
	purger    CachePurger
	routerCfg events.RouterConfig
	logger    zerolog.Logger
	name      string

	// handled is called after each event; tests use it to synchronize.
	handled func(*events.CatalogReloaded)
}

// NewEventListener creates the listener.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEventListener(bus *events.Bus, purger CachePurger, cfg events.RouterConfig, logger zerolog.Logger) *EventListener {
	return &EventListener{
		bus:       bus,
		purger:    purger,
		routerCfg: cfg,
		logger:    logger.With().Str("service", "event-listener").Logger(),
		name:      "event-listener",
	}
}

// Serve implements suture.Service.
func (l *EventListener) Serve(ctx context.Context) error {
	router, err := events.NewRouter(l.routerCfg, l.bus.Logger())
	if err != nil {
		return fmt.Errorf("event listener: %w", err)
	}
	router.AddConsumerHandler(
		"catalog-reloaded-listener",
		events.TopicCatalogReloaded,
		l.bus.Subscriber(),
		events.CatalogReloadedHandler(l.handle),
	)

	l.logger.Info().Str("topic", events.TopicCatalogReloaded).Msg("Event listener starting")
	if err := router.Run(ctx); err != nil {
		return fmt.Errorf("event listener: %w", err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	// Router stopped without cancellation, e.g. the bus closed.
	return fmt.Errorf("event listener: router stopped")
}

func (l *EventListener) handle(ctx context.Context, ev *events.CatalogReloaded) error {
	purged := 0
	if l.purger != nil {
		// Events can arrive late or out of order; never purge the live
		// snapshot's entries on behalf of an older one.
		keep := max(ev.Version, l.purger.SnapshotVersion())
		purged = l.purger.PurgeCache(keep)
		metrics.RecordCacheEvictions("response", purged)
	}

	logging.Ctx(ctx).Info().
		Str("service", "event-listener").
		Str("event_id", ev.EventID).
		Int64("version", ev.Version).
		Str("source", ev.Source).
		Int("movies", ev.Movies).
		Int("ratings", ev.Ratings).
		Int("selectable", ev.Selectable).
		Int64("duration_ms", ev.DurationMS).
		Int("cache_purged", purged).
		Msg("Catalog snapshot announced")

	if l.handled != nil {
		l.handled(ev)
	}
	return nil
}

// String implements fmt.Stringer.
func (l *EventListener) String() string {
	return l.name
}
