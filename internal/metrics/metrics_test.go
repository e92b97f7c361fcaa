// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package metrics

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"

	"github.com/tomtom215/cinematch/internal/recommend"
)

func TestRecordRecommendation(t *testing.T) {
	tests := []struct {
		name      string
		mode      string
		results   int
		cacheHit  bool
		wantEmpty float64
	}{
		{"content hit", "content", 5, true, 0},
		{"collaborative miss", "collaborative", 3, false, 0},
		{"empty content", "content-empty-test", 0, false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(RecommendRequests.WithLabelValues(tt.mode))
			RecordRecommendation(tt.mode, 2*time.Millisecond, tt.results, tt.cacheHit)

			if got := testutil.ToFloat64(RecommendRequests.WithLabelValues(tt.mode)) - before; got != 1 {
				t.Errorf("requests delta = %v, want 1", got)
			}
			if got := testutil.ToFloat64(RecommendEmptyResults.WithLabelValues(tt.mode)); got != tt.wantEmpty {
				t.Errorf("empty results = %v, want %v", got, tt.wantEmpty)
			}
		})
	}
}

func TestRecordCatalogLoad(t *testing.T) {
	before := testutil.ToFloat64(CatalogLoadErrors.WithLabelValues("parse"))
	RecordCatalogLoad("csv", 0, fmt.Errorf("load csv catalog: %w", errors.New("ratings.csv:3: malformed row")))
	if got := testutil.ToFloat64(CatalogLoadErrors.WithLabelValues("parse")) - before; got != 1 {
		t.Errorf("parse errors delta = %v, want 1", got)
	}

	RecordCatalogLoad("csv", 1500*time.Millisecond, nil)
	if testutil.ToFloat64(CatalogLastReload) == 0 {
		t.Error("last reload timestamp not set")
	}
}

func TestClassifyLoadError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{context.DeadlineExceeded, "timeout"},
		{fmt.Errorf("open: %w", os.ErrNotExist), "io"},
		{errors.New(`movies.csv: "genres": missing required column`), "missing_column"},
		{errors.New("ratings.csv:9: malformed row"), "parse"},
		{errors.New("something else"), "other"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := classifyLoadError(tt.err); got != tt.want {
				t.Errorf("classifyLoadError(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestSetCatalogSize(t *testing.T) {
	SetCatalogSize(7, 10, 100, 9, 5, 3, 2)

	if got := testutil.ToFloat64(CatalogSnapshotVersion); got != 7 {
		t.Errorf("version = %v, want 7", got)
	}
	if got := testutil.ToFloat64(CatalogSize.WithLabelValues("ratings")); got != 100 {
		t.Errorf("ratings = %v, want 100", got)
	}
	if got := testutil.ToFloat64(CatalogSize.WithLabelValues("selectable")); got != 2 {
		t.Errorf("selectable = %v, want 2", got)
	}
}

func TestEngineObserver(t *testing.T) {
	var obs recommend.Observer = EngineObserver{}
	obs.ObserveReload(recommend.ReloadInfo{Version: 42, Source: "static", Movies: 3}, nil)

	if got := testutil.ToFloat64(CatalogSnapshotVersion); got != 42 {
		t.Errorf("version = %v, want 42", got)
	}
	if got := testutil.ToFloat64(CatalogSize.WithLabelValues("movies")); got != 3 {
		t.Errorf("movies = %v, want 3", got)
	}
}

func TestCircuitBreakerMetrics(t *testing.T) {
	RecordBreakerTransition("catalog-test", "closed", "open")
	if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues("catalog-test")); got != 2 {
		t.Errorf("state = %v, want 2 (open)", got)
	}
	RecordBreakerTransition("catalog-test", "open", "half-open")
	if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues("catalog-test")); got != 1 {
		t.Errorf("state = %v, want 1 (half-open)", got)
	}

	RecordBreakerRequest("catalog-test", "failure", 3)
	if got := testutil.ToFloat64(CircuitBreakerConsecutiveFailures.WithLabelValues("catalog-test")); got != 3 {
		t.Errorf("consecutive failures = %v, want 3", got)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("active = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("active = %v, want %v", got, before)
	}
}

func TestRecordCacheEvictions(t *testing.T) {
	before := testutil.ToFloat64(CacheEvictions.WithLabelValues("evict-test"))
	RecordCacheEvictions("evict-test", 0)
	RecordCacheEvictions("evict-test", 4)
	if got := testutil.ToFloat64(CacheEvictions.WithLabelValues("evict-test")) - before; got != 4 {
		t.Errorf("evictions delta = %v, want 4", got)
	}
}

func TestMetricGathering(t *testing.T) {
	RecordAPIRequest("GET", "/api/v1/movies", "200", 3*time.Millisecond)
	RecordRateLimitHit("/api/v1/movies")
	SetAppInfo("test", "go1.24")

	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Fatalf("GatherAndLint() error = %v", err)
	}
	for _, p := range problems {
		t.Logf("lint: %s: %s", p.Metric, p.Text)
	}
}

func TestGatheredMetricTypes(t *testing.T) {
	SetCatalogSize(4, 7, 300, 7, 60, 3, 3)

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	want := map[string]dto.MetricType{
		"catalog_snapshot_version": dto.MetricType_GAUGE,
		"catalog_entries":          dto.MetricType_GAUGE,
	}
	found := map[string]*dto.MetricFamily{}
	for _, mf := range families {
		if _, ok := want[mf.GetName()]; ok {
			found[mf.GetName()] = mf
		}
	}

	for name, typ := range want {
		mf, ok := found[name]
		if !ok {
			t.Errorf("metric family %q not gathered", name)
			continue
		}
		if mf.GetType() != typ {
			t.Errorf("%s type = %v, want %v", name, mf.GetType(), typ)
		}
	}

	if mf := found["catalog_snapshot_version"]; mf != nil {
		if got := mf.GetMetric()[0].GetGauge().GetValue(); got != 4 {
			t.Errorf("catalog_snapshot_version = %v, want 4", got)
		}
	}
}
