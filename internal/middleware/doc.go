// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package middleware provides chi-compatible HTTP middleware shared by the API.

  - RequestID: accepts or generates X-Request-ID and seeds the logging
    context with request and correlation IDs
  - PrometheusMetrics: records request count, latency and in-flight gauge,
    labelled by chi route pattern to keep label cardinality bounded

Both have the func(http.Handler) http.Handler shape expected by chi:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
*/
package middleware
