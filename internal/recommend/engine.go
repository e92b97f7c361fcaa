// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/cache"
	"github.com/tomtom215/cinematch/internal/catalog"
)

// Engine serves recommendations from the current snapshot and replaces it on
// reload. It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	snapshot atomic.Pointer[Snapshot]
	version  atomic.Int64

	// reloadMu serializes reloads; TryLock rejects concurrent ones.
	reloadMu  sync.Mutex
	reloading atomic.Bool

	statusMu     sync.RWMutex
	lastReloadAt time.Time
	lastErr      error

	depsMu    sync.RWMutex
	source    catalog.Source
	publisher Publisher
	observer  Observer

	cache *cache.LRUCache[*Response]

	requestCount atomic.Int64
	emptyCount   atomic.Int64
	cacheHits    atomic.Int64
	cacheMisses  atomic.Int64
	reloadCount  atomic.Int64
	reloadErrors atomic.Int64
}

// NewEngine creates an engine with no snapshot installed.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	e := &Engine{
		config: cfg.Clone(),
		logger: logger.With().Str("component", "recommend").Logger(),
	}
	if cfg.Cache.Enabled {
		e.cache = cache.NewLRUCache[*Response](cfg.Cache.MaxEntries, cfg.Cache.TTL)
	}
	return e, nil
}

// SetSource sets the catalog source used by Reload.
func (e *Engine) SetSource(src catalog.Source) {
	e.depsMu.Lock()
	defer e.depsMu.Unlock()
	e.source = src
}

// SetPublisher sets the receiver of reload announcements.
func (e *Engine) SetPublisher(p Publisher) {
	e.depsMu.Lock()
	defer e.depsMu.Unlock()
	e.publisher = p
}

// SetObserver sets the receiver of engine measurements.
func (e *Engine) SetObserver(o Observer) {
	e.depsMu.Lock()
	defer e.depsMu.Unlock()
	e.observer = o
}

func (e *Engine) deps() (catalog.Source, Publisher, Observer) {
	e.depsMu.RLock()
	defer e.depsMu.RUnlock()
	return e.source, e.publisher, e.observer
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// Snapshot returns the current snapshot or nil.
func (e *Engine) Snapshot() *Snapshot {
	return e.snapshot.Load()
}

// SnapshotVersion returns the installed snapshot's version, or 0 before the
// first load.
func (e *Engine) SnapshotVersion() int64 {
	if snap := e.snapshot.Load(); snap != nil {
		return snap.Version
	}
	return 0
}

// Reload loads the catalog from the configured source, builds a new
// snapshot and installs it. On failure the previous snapshot stays live.
func (e *Engine) Reload(ctx context.Context) error {
	if !e.reloadMu.TryLock() {
		return ErrReloadInProgress
	}
	defer e.reloadMu.Unlock()
	e.reloading.Store(true)
	defer e.reloading.Store(false)

	src, _, observer := e.deps()
	if src == nil {
		return e.failReload(catalog.ErrNoSource, observer)
	}

	if e.config.ReloadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.ReloadTimeout)
		defer cancel()
	}

	start := time.Now()
	e.logger.Info().Str("source", src.Name()).Msg("Reloading catalog")

	cat, err := catalog.Load(ctx, src)
	if err != nil {
		return e.failReload(err, observer)
	}
	snap, err := BuildSnapshot(ctx, cat, e.config)
	if err != nil {
		return e.failReload(fmt.Errorf("build snapshot: %w", err), observer)
	}
	snap.Source = src.Name()
	snap.buildDuration = time.Since(start)

	e.install(ctx, snap)
	return nil
}

func (e *Engine) failReload(err error, observer Observer) error {
	e.reloadErrors.Add(1)
	e.statusMu.Lock()
	e.lastErr = err
	e.lastReloadAt = time.Now()
	e.statusMu.Unlock()

	e.logger.Error().Err(err).Msg("Catalog reload failed, keeping previous snapshot")
	if observer != nil {
		observer.ObserveReload(ReloadInfo{}, err)
	}
	return err
}

// Install swaps in a prebuilt snapshot, assigning it the next version.
func (e *Engine) Install(ctx context.Context, snap *Snapshot) {
	e.reloadMu.Lock()
	defer e.reloadMu.Unlock()
	e.install(ctx, snap)
}

// install publishes snap. Caller holds reloadMu.
func (e *Engine) install(ctx context.Context, snap *Snapshot) {
	snap.Version = e.version.Add(1)
	if snap.Source == "" {
		snap.Source = "static"
	}
	e.snapshot.Store(snap)
	e.reloadCount.Add(1)

	e.statusMu.Lock()
	e.lastErr = nil
	e.lastReloadAt = time.Now()
	e.statusMu.Unlock()

	info := snap.Info()
	e.logger.Info().
		Int64("version", info.Version).
		Int("movies", info.Movies).
		Int("ratings", info.Ratings).
		Int("titles", info.Titles).
		Int("selectable", info.Selectable).
		Dur("duration", info.Duration).
		Msg("Catalog snapshot installed")

	_, publisher, observer := e.deps()
	if observer != nil {
		observer.ObserveReload(info, nil)
	}
	if publisher != nil {
		if err := publisher.PublishCatalogReloaded(ctx, info); err != nil {
			e.logger.Warn().Err(err).Int64("version", info.Version).Msg("Failed to publish reload event")
		}
	}
}

// Recommend answers req from the current snapshot.
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	e.requestCount.Add(1)

	snap := e.snapshot.Load()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	if req.Mode != ModeContent && req.Mode != ModeCollaborative {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, req.Mode)
	}
	if req.K > e.config.MaxK {
		req.K = e.config.MaxK
	}

	logger := e.logger.With().
		Str("request_id", req.RequestID).
		Str("mode", string(req.Mode)).
		Str("title", req.Title).
		Int("k", req.K).
		Logger()

	key := cacheKey(snap.Version, req)
	if resp := e.checkCache(key); resp != nil {
		resp.Metadata.RequestID = req.RequestID
		resp.Metadata.LatencyMS = time.Since(start).Milliseconds()
		resp.Metadata.Timestamp = time.Now().UTC()
		e.observe(req.Mode, time.Since(start), len(resp.Items), true)
		logger.Debug().Msg("Served recommendations from cache")
		return resp, nil
	}

	var items []Recommendation
	switch req.Mode {
	case ModeContent:
		items = snap.ContentRecommendations(req.Title, req.K)
	case ModeCollaborative:
		var err error
		items, err = snap.CollaborativeRecommendations(ctx, req.Title, req.K)
		if err != nil {
			return nil, fmt.Errorf("collaborative recommendations: %w", err)
		}
	}

	resp := &Response{
		Title: req.Title,
		Mode:  req.Mode,
		Items: items,
		Metadata: ResponseMetadata{
			RequestID: req.RequestID,
			K:         req.K,
			Version:   snap.Version,
			BuiltAt:   snap.BuiltAt,
			LatencyMS: time.Since(start).Milliseconds(),
			Timestamp: time.Now().UTC(),
		},
	}
	if len(items) == 0 {
		resp.Message = req.Mode.EmptyMessage()
		e.emptyCount.Add(1)
	}

	e.storeCache(key, resp)
	e.observe(req.Mode, time.Since(start), len(items), false)
	logger.Debug().Int("results", len(items)).Dur("latency", time.Since(start)).Msg("Generated recommendations")
	return resp, nil
}

func (e *Engine) observe(mode Mode, latency time.Duration, results int, cacheHit bool) {
	if _, _, observer := e.deps(); observer != nil {
		observer.ObserveRecommendation(string(mode), latency, results, cacheHit)
	}
}

// Selectable returns the sorted popular titles of the current snapshot.
func (e *Engine) Selectable() ([]string, error) {
	snap := e.snapshot.Load()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap.SelectableTitles(), nil
}

// Stats returns the rating statistics of title in the current snapshot.
func (e *Engine) Stats(title string) (catalog.TitleStats, bool, error) {
	snap := e.snapshot.Load()
	if snap == nil {
		return catalog.TitleStats{}, false, ErrNotLoaded
	}
	st, ok := snap.Stats(title)
	return st, ok, nil
}

// Ready reports whether a snapshot is installed.
func (e *Engine) Ready() bool {
	return e.snapshot.Load() != nil
}

// Status returns the current snapshot and reload state.
func (e *Engine) Status() Status {
	st := Status{
		Reloading:   e.reloading.Load(),
		ReloadCount: e.reloadCount.Load(),
	}
	if snap := e.snapshot.Load(); snap != nil {
		st.Loaded = true
		st.Snapshot = snap.Info()
	}

	e.statusMu.RLock()
	st.LastReloadAt = e.lastReloadAt
	if e.lastErr != nil {
		st.LastError = e.lastErr.Error()
	}
	e.statusMu.RUnlock()
	return st
}

// Metrics returns engine counters.
func (e *Engine) Metrics() Metrics {
	m := Metrics{
		TotalRequests: e.requestCount.Load(),
		EmptyResults:  e.emptyCount.Load(),
		CacheHits:     e.cacheHits.Load(),
		CacheMisses:   e.cacheMisses.Load(),
		Reloads:       e.reloadCount.Load(),
		ReloadErrors:  e.reloadErrors.Load(),
	}
	if total := m.CacheHits + m.CacheMisses; total > 0 {
		m.CacheHitRate = float64(m.CacheHits) / float64(total)
	}
	return m
}

// PurgeCache drops cached responses computed against any snapshot version
// other than keep, returning the number removed.
func (e *Engine) PurgeCache(keep int64) int {
	if e.cache == nil {
		return 0
	}
	prefix := versionPrefix(keep)
	return e.cache.RemoveFunc(func(key string) bool {
		return !strings.HasPrefix(key, prefix)
	})
}

// ========== Cache ==========

func versionPrefix(version int64) string {
	return "v" + strconv.FormatInt(version, 10) + "|"
}

// cacheKey puts the title last since titles may contain any character.
func cacheKey(version int64, req Request) string {
	return versionPrefix(version) + string(req.Mode) + "|" + strconv.Itoa(req.K) + "|" + req.Title
}

func (e *Engine) checkCache(key string) *Response {
	if e.cache == nil {
		return nil
	}
	resp, ok := e.cache.Get(key)
	if !ok {
		e.cacheMisses.Add(1)
		return nil
	}
	e.cacheHits.Add(1)
	return copyResponse(resp, true)
}

func (e *Engine) storeCache(key string, resp *Response) {
	if e.cache == nil {
		return
	}
	e.cache.Add(key, copyResponse(resp, false))
}

func copyResponse(resp *Response, cacheHit bool) *Response {
	out := *resp
	out.Items = make([]Recommendation, len(resp.Items))
	copy(out.Items, resp.Items)
	out.Metadata.CacheHit = cacheHit
	return &out
}

// IsContextError reports whether err stems from cancellation or deadline.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
