// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package metrics

import (
	"time"

	"github.com/tomtom215/cinematch/internal/recommend"
)

// EngineObserver exports recommend.Engine measurements to Prometheus.
type EngineObserver struct{}

var _ recommend.Observer = EngineObserver{}

// ObserveRecommendation implements recommend.Observer.
func (EngineObserver) ObserveRecommendation(mode string, latency time.Duration, results int, cacheHit bool) {
	RecordRecommendation(mode, latency, results, cacheHit)
}

// ObserveReload implements recommend.Observer.
func (EngineObserver) ObserveReload(info recommend.ReloadInfo, err error) {
	RecordCatalogLoad(info.Source, info.Duration, err)
	if err != nil {
		return
	}
	SetCatalogSize(info.Version, info.Movies, info.Ratings, info.Titles, info.Users, info.Genres, info.Selectable)
}
