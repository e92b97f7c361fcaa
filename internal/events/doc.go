// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package events carries catalog lifecycle events over an in-process Watermill
Go-channel pub/sub.

The recommendation engine publishes a CatalogReloaded event after each
successful snapshot swap through Bus, which implements recommend.Publisher.
Consumers attach with a Router, which adds panic recovery and retries in
front of each handler.

	bus := events.NewBus(events.BusConfig{BufferSize: 64}, nil)
	engine.SetPublisher(bus)

	router, _ := events.NewRouter(events.DefaultRouterConfig(), nil)
	router.AddConsumerHandler("purge-cache", events.TopicCatalogReloaded, bus.Subscriber(),
	    events.CatalogReloadedHandler(func(ctx context.Context, ev *events.CatalogReloaded) error {
	        engine.PurgeCache(max(ev.Version, engine.SnapshotVersion()))
	        return nil
	    }))
	go router.Run(ctx)

Messages are not persisted. Events published while nothing is subscribed
are dropped.
*/
package events
