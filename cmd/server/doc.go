// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package main is the entry point for the Cinematch server.

Cinematch loads a MovieLens-style catalog (movies.csv and ratings.csv, or a
DuckDB database) and serves two kinds of "more like this" recommendations
for a seed title: genre cosine similarity and Pearson item-item
collaborative filtering.

# Application Architecture

The server runs under a Suture v4 supervision tree:

	RootSupervisor ("cinematch")
	├── CatalogSupervisor ("catalog-layer")
	│   └── CatalogService (startup load, interval and file-change reloads)
	├── MessagingSupervisor ("messaging-layer")
	│   └── EventListener (only with EVENTS_ENABLED=true)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 with defaults, config file and environment
 2. Logging: zerolog, configured from the loaded config
 3. Catalog source: csv files or DuckDB
 4. Engine: recommend.Engine with Prometheus observer
 5. Event bus: Watermill gochannel (optional)
 6. Admin auth: JWT for POST /api/v1/catalog/reload (optional)
 7. HTTP router: chi with CORS, rate limiting and metrics
 8. Supervisor tree

Until the first load succeeds, recommendation endpoints answer 503 and
/api/v1/health/ready reports not ready.

# Configuration

Common environment variables:

	CATALOG_SOURCE=csv             # csv or duckdb
	MOVIES_PATH=data/movies.csv
	RATINGS_PATH=data/ratings.csv
	CATALOG_WATCH_FILES=true       # reload when the files change
	HTTP_PORT=8080
	ADMIN_JWT_SECRET=...           # protects the reload endpoint

# Admin Tokens

With ADMIN_JWT_SECRET set, mint a token and trigger a reload:

	./cinematch -admin-token
	curl -X POST -H "Authorization: Bearer $TOKEN" localhost:8080/api/v1/catalog/reload

# Signal Handling

SIGINT and SIGTERM cancel the root context; the HTTP server drains
in-flight requests within HTTP_SHUTDOWN_TIMEOUT before exit.
*/
package main
