// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotLoaded is returned when no snapshot has been installed yet.
	ErrNotLoaded = errors.New("catalog not loaded")

	// ErrReloadInProgress is returned when Reload is called while another
	// reload is running.
	ErrReloadInProgress = errors.New("catalog reload already in progress")

	// ErrInvalidMode is returned for an unknown recommendation mode.
	ErrInvalidMode = errors.New("invalid recommendation mode")
)

// Empty-result messages shown to end users.
const (
	MessageNoContentData       = "No data found for this movie."
	MessageNoCollaborativeData = "Not enough user data to make a recommendation."
)

// Mode selects the scoring strategy.
type Mode string

const (
	// ModeContent ranks by genre similarity.
	ModeContent Mode = "content"
	// ModeCollaborative ranks by rating correlation.
	ModeCollaborative Mode = "collaborative"
)

// ParseMode converts a string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeContent:
		return ModeContent, nil
	case ModeCollaborative:
		return ModeCollaborative, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// EmptyMessage returns the message shown when the mode yields no results.
func (m Mode) EmptyMessage() string {
	if m == ModeCollaborative {
		return MessageNoCollaborativeData
	}
	return MessageNoContentData
}

// Recommendation is one recommended title and its score (cosine similarity
// or Pearson correlation depending on the mode).
type Recommendation struct {
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

// Titles projects recommendations onto their titles, keeping order.
func Titles(recs []Recommendation) []string {
	out := make([]string, len(recs))
	for i := range recs {
		out[i] = recs[i].Title
	}
	return out
}

// Request represents a recommendation request.
type Request struct {
	// Title is the seed title.
	Title string `json:"title"`

	// K is the maximum number of results. Values above Config.MaxK are
	// capped; zero or less yields an empty result.
	K int `json:"k"`

	Mode Mode `json:"mode"`

	// RequestID is a unique identifier for tracing.
	RequestID string `json:"request_id,omitempty"`
}

// Response represents a recommendation response.
type Response struct {
	Title string           `json:"title"`
	Mode  Mode             `json:"mode"`
	Items []Recommendation `json:"items"`

	// Message explains an empty result.
	Message string `json:"message,omitempty"`

	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata contains timing and diagnostic information.
type ResponseMetadata struct {
	RequestID string    `json:"request_id,omitempty"`
	K         int       `json:"k"`
	Version   int64     `json:"catalog_version"`
	BuiltAt   time.Time `json:"built_at"`
	LatencyMS int64     `json:"latency_ms"`
	CacheHit  bool      `json:"cache_hit"`
	Timestamp time.Time `json:"timestamp"`
}

// ReloadInfo describes an installed snapshot.
type ReloadInfo struct {
	Version    int64         `json:"version"`
	Source     string        `json:"source"`
	Movies     int           `json:"movies"`
	Ratings    int           `json:"ratings"`
	Titles     int           `json:"titles"`
	Users      int           `json:"users"`
	Genres     int           `json:"genres"`
	Selectable int           `json:"selectable"`
	Duration   time.Duration `json:"duration"`
	BuiltAt    time.Time     `json:"built_at"`
}

// Publisher announces installed snapshots to other components.
type Publisher interface {
	PublishCatalogReloaded(ctx context.Context, info ReloadInfo) error
}

// Observer receives engine measurements, typically to export metrics.
type Observer interface {
	ObserveRecommendation(mode string, latency time.Duration, results int, cacheHit bool)
	ObserveReload(info ReloadInfo, err error)
}

// Status reports the engine's current snapshot and reload state.
type Status struct {
	Loaded       bool       `json:"loaded"`
	Reloading    bool       `json:"reloading"`
	Snapshot     ReloadInfo `json:"snapshot"`
	ReloadCount  int64      `json:"reload_count"`
	LastReloadAt time.Time  `json:"last_reload_at,omitempty"`
	LastError    string     `json:"last_error,omitempty"`
}

// Metrics contains engine counters.
type Metrics struct {
	TotalRequests int64   `json:"total_requests"`
	EmptyResults  int64   `json:"empty_results"`
	CacheHits     int64   `json:"cache_hits"`
	CacheMisses   int64   `json:"cache_misses"`
	CacheHitRate  float64 `json:"cache_hit_rate"`
	Reloads       int64   `json:"reloads"`
	ReloadErrors  int64   `json:"reload_errors"`
}
