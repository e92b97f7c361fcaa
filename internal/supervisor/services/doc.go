// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package services provides suture.Service implementations for Cinematch.

# Available Services

CatalogService:
  - Loads the catalog at startup when no snapshot is installed
  - Reloads on a fixed interval and on data-file changes (debounced)
  - Routes every reload through a gobreaker circuit breaker; the HTTP
    reload endpoint calls Reload on the same service

EventListener:
  - Consumes catalog.reloaded events from the Watermill bus
  - Purges response-cache entries of older snapshot versions

HTTPServerService:
  - Wraps *http.Server, translating ListenAndServe into Serve
  - Graceful shutdown bounded by a configurable timeout

# Error Handling

Return values determine supervisor behavior:

	nil         -> Service stopped cleanly, will not restart
	error       -> Service crashed, supervisor will restart
	ctx.Err()   -> Shutdown requested, normal termination

A failed catalog reload is logged and does not end CatalogService.Serve;
the previous snapshot keeps serving.

# Service Identification

All services implement fmt.Stringer ("catalog-service", "event-listener",
"http-server"); suture uses the name in its log events.
*/
package services
