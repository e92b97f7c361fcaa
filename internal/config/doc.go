// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package config loads and validates Cinematch configuration.

Configuration is layered with koanf v2, each layer overriding the previous:

 1. Built-in defaults (defaultConfig)
 2. Optional YAML file: $CONFIG_PATH, config.yaml, config.yml,
    /etc/cinematch/config.yaml, /etc/cinematch/config.yml
 3. Mapped environment variables

Unmapped environment variables are ignored.

# Sections

  - catalog: dataset source, CSV paths, reload schedule and file watching
  - database: DuckDB file, memory limit and CSV import
  - recommend: result counts, popularity threshold, co-rater floor, cache
  - events: in-process event bus
  - server: HTTP bind address and timeouts
  - api: paging for the selectable list
  - security: admin token secret, CORS, rate limiting
  - logging: level, format, caller

# Environment Variables

Catalog:
  - CATALOG_SOURCE: csv or duckdb (default: csv)
  - MOVIES_PATH: movies CSV (default: data/movies.csv)
  - RATINGS_PATH: ratings CSV (default: data/ratings.csv)
  - CATALOG_LOAD_ON_STARTUP: load before serving (default: true)
  - CATALOG_RELOAD_INTERVAL: periodic reload, 0 disables (default: 0)
  - CATALOG_WATCH_FILES: reload when a CSV changes (default: false)
  - CATALOG_BREAKER_MAX_FAILURES: consecutive failures before the reload
    breaker opens (default: 3)
  - CATALOG_BREAKER_TIMEOUT: open-state duration (default: 1m)

Database:
  - DUCKDB_PATH: database file, empty for in-memory (default: data/cinematch.duckdb)
  - DUCKDB_MAX_MEMORY: memory limit (default: 1GB)
  - DUCKDB_THREADS: worker threads, 0 for DuckDB's choice (default: 0)
  - DUCKDB_IMPORT_ON_STARTUP: import the CSVs into DuckDB first (default: true)

Recommendations:
  - RECOMMEND_DEFAULT_K (default: 5)
  - RECOMMEND_MAX_K (default: 100)
  - RECOMMEND_MIN_RATING_COUNT (default: 50)
  - RECOMMEND_MIN_CO_RATERS (default: 2)
  - RECOMMEND_NO_GENRE_LABEL (default: "", keeps every genre label)
  - RECOMMEND_WORKERS (default: 0, from GOMAXPROCS)
  - RECOMMEND_RELOAD_TIMEOUT (default: 10m)
  - RECOMMEND_CACHE_ENABLED (default: true)
  - RECOMMEND_CACHE_TTL (default: 10m)
  - RECOMMEND_CACHE_MAX_ENTRIES (default: 5000)

Server and security:
  - HTTP_HOST (default: 0.0.0.0), HTTP_PORT (default: 8080)
  - HTTP_TIMEOUT: handler timeout (default: 10s)
  - HTTP_SHUTDOWN_TIMEOUT (default: 15s)
  - ADMIN_JWT_SECRET: enables bearer auth on POST /catalog/reload
  - CORS_ORIGINS: comma-separated (default: *)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

Logging:
  - LOG_LEVEL, LOG_FORMAT (json or console), LOG_CALLER

# Usage

	cfg, err := config.LoadWithKoanf()
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	engine, err := recommend.NewEngine(cfg.EngineConfig(), logger)
*/
package config
