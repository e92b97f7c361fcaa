// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package metrics provides Prometheus metrics collection and export.

All collectors are registered on the default registry through promauto and
exposed at /metrics by the API router.

# Available Metrics

Catalog:
  - catalog_load_duration_seconds{source}: load plus snapshot build time
  - catalog_load_errors_total{error_type}: failed reloads
  - catalog_entries{kind}: movies, ratings, titles, users, genres, selectable
  - catalog_snapshot_version: installed snapshot version
  - catalog_last_reload_timestamp: unix time of the last successful reload
  - catalog_events_consumed_total{topic,result}: event bus consumption

Recommendations:
  - recommend_requests_total{mode}
  - recommend_duration_seconds{mode,cache}
  - recommend_empty_results_total{mode}

Cache:
  - cache_hits_total{cache_type}, cache_misses_total{cache_type}
  - cache_evictions_total{cache_type}

HTTP:
  - api_requests_total{method,endpoint,status}
  - api_request_duration_seconds{method,endpoint}
  - api_active_requests
  - api_rate_limit_hits_total{endpoint}

Circuit breaker:
  - circuit_breaker_state{name}: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total{name,result}
  - circuit_breaker_consecutive_failures{name}
  - circuit_breaker_state_transitions_total{name,from_state,to_state}

# Engine Integration

EngineObserver implements recommend.Observer so the engine can report
without importing this package:

	engine.SetObserver(metrics.EngineObserver{})

# Example Queries

	# p95 collaborative latency on cache misses
	histogram_quantile(0.95,
	  rate(recommend_duration_seconds_bucket{mode="collaborative",cache="miss"}[5m]))

	# share of empty results
	sum(rate(recommend_empty_results_total[5m])) / sum(rate(recommend_requests_total[5m]))
*/
package metrics
