// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package api provides the HTTP REST API for Cinematch.

All endpoints live under /api/v1 and answer with the same JSON envelope:

	{
	  "success": true,
	  "data": {...},
	  "error": {"code": "NOT_FOUND", "message": "...", "request_id": "..."},
	  "meta": {"request_id": "...", "timestamp": "...", "duration_ms": 3}
	}

Endpoints:

	GET  /api/v1/health/live                   process is up
	GET  /api/v1/health/ready                  503 until a catalog snapshot is installed
	GET  /api/v1/movies                        selectable titles, limit/offset paging
	GET  /api/v1/movies/stats?title=           rating count and mean of one title
	GET  /api/v1/recommendations/content       genre-similarity recommendations
	GET  /api/v1/recommendations/collaborative rating-correlation recommendations
	GET  /api/v1/recommendations               both lists side by side
	GET  /api/v1/catalog/status                snapshot version and sizes
	POST /api/v1/catalog/reload                reload the catalog (admin JWT when configured)
	GET  /metrics                              Prometheus exposition

Recommendation endpoints take title (required) and k (default
recommend.default_k, 0 <= k <= recommend.max_k). An empty list is a normal
answer and carries the user-facing message of its mode.

Middleware stack (outermost first): request ID with logging context, RealIP,
Recoverer, CORS, Prometheus request metrics, per-IP rate limiting via
go-chi/httprate, security headers and a handler timeout.
*/
package api
