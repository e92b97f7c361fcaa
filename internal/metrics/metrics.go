// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package metrics

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Catalog Metrics
	CatalogLoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_load_duration_seconds",
			Help:    "Duration of catalog load plus snapshot build in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"source"},
	)

	CatalogLoadErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_load_errors_total",
			Help: "Total number of failed catalog loads",
		},
		[]string{"error_type"}, // "parse", "missing_column", "io", "timeout", "other"
	)

	CatalogSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "catalog_entries",
			Help: "Number of entries in the current catalog snapshot",
		},
		[]string{"kind"}, // "movies", "ratings", "titles", "users", "genres", "selectable"
	)

	CatalogSnapshotVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_snapshot_version",
			Help: "Version of the currently installed catalog snapshot",
		},
	)

	CatalogLastReload = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_last_reload_timestamp",
			Help: "Unix timestamp of the last successful catalog reload",
		},
	)

	CatalogEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_events_total",
			Help: "Total number of catalog events published or consumed on the event bus",
		},
		[]string{"topic", "result"}, // result: "success", "error"
	)

	// Recommendation Metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"mode"},
	)

	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_duration_seconds",
			Help:    "Recommendation latency in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"mode", "cache"}, // cache: "hit", "miss"
	)

	RecommendEmptyResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_empty_results_total",
			Help: "Total number of recommendation requests that returned no titles",
		},
		[]string{"mode"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of entries purged from a cache",
		},
		[]string{"cache_type"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of API requests currently being processed",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"endpoint"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordCatalogLoad records a catalog reload attempt.
func RecordCatalogLoad(source string, duration time.Duration, err error) {
	if err != nil {
		CatalogLoadErrors.WithLabelValues(classifyLoadError(err)).Inc()
		return
	}
	if source == "" {
		source = "unknown"
	}
	CatalogLoadDuration.WithLabelValues(source).Observe(duration.Seconds())
	CatalogLastReload.Set(float64(time.Now().Unix()))
}

// SetCatalogSize updates the catalog size gauges.
func SetCatalogSize(version int64, movies, ratings, titles, users, genres, selectable int) {
	CatalogSnapshotVersion.Set(float64(version))
	CatalogSize.WithLabelValues("movies").Set(float64(movies))
	CatalogSize.WithLabelValues("ratings").Set(float64(ratings))
	CatalogSize.WithLabelValues("titles").Set(float64(titles))
	CatalogSize.WithLabelValues("users").Set(float64(users))
	CatalogSize.WithLabelValues("genres").Set(float64(genres))
	CatalogSize.WithLabelValues("selectable").Set(float64(selectable))
}

// RecordCatalogEvent records one event-bus publish or delivery.
func RecordCatalogEvent(topic string, ok bool) {
	result := "success"
	if !ok {
		result = "error"
	}
	CatalogEvents.WithLabelValues(topic, result).Inc()
}

// RecordRecommendation records one served recommendation request.
func RecordRecommendation(mode string, duration time.Duration, results int, cacheHit bool) {
	RecommendRequests.WithLabelValues(mode).Inc()
	cacheLabel := "miss"
	if cacheHit {
		cacheLabel = "hit"
		CacheHits.WithLabelValues("recommend").Inc()
	} else {
		CacheMisses.WithLabelValues("recommend").Inc()
	}
	RecommendDuration.WithLabelValues(mode, cacheLabel).Observe(duration.Seconds())
	if results == 0 {
		RecommendEmptyResults.WithLabelValues(mode).Inc()
	}
}

// RecordCacheEvictions records entries purged from a cache.
func RecordCacheEvictions(cacheType string, n int) {
	if n > 0 {
		CacheEvictions.WithLabelValues(cacheType).Add(float64(n))
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordRateLimitHit records a request rejected by the rate limiter.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// SetAppInfo publishes build information.
func SetAppInfo(version, goVersion string) {
	AppInfo.WithLabelValues(version, goVersion).Set(1)
}

func classifyLoadError(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	case errors.Is(err, os.ErrNotExist), errors.Is(err, os.ErrPermission):
		return "io"
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "missing required column"):
		return "missing_column"
	case strings.Contains(msg, "malformed row"):
		return "parse"
	default:
		return "other"
	}
}

// Breaker state label values mirror gobreaker.State ordering.
func breakerStateValue(state string) float64 {
	switch state {
	case "half-open":
		return 1
	case "open":
		return 2
	default:
		return 0
	}
}

// RecordBreakerTransition records a circuit breaker state change. States are
// the gobreaker state strings ("closed", "half-open", "open").
func RecordBreakerTransition(name, from, to string) {
	CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
}

// RecordBreakerRequest records the outcome of a call through a breaker.
// result is "success", "failure" or "rejected".
func RecordBreakerRequest(name, result string, consecutiveFailures uint32) {
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
	CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(float64(consecutiveFailures))
}
