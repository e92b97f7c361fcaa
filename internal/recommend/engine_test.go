// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/catalog"
)

type recordingPublisher struct {
	mu    sync.Mutex
	infos []ReloadInfo
	err   error
}

func (p *recordingPublisher) PublishCatalogReloaded(_ context.Context, info ReloadInfo) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.infos = append(p.infos, info)
	return p.err
}

type recordingObserver struct {
	mu       sync.Mutex
	served   []bool
	reloads  int
	failures int
}

func (o *recordingObserver) ObserveRecommendation(_ string, _ time.Duration, _ int, cacheHit bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.served = append(o.served, cacheHit)
}

func (o *recordingObserver) ObserveReload(_ ReloadInfo, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		o.failures++
		return
	}
	o.reloads++
}

// blockingSource blocks until release is closed.
type blockingSource struct {
	started chan struct{}
	release chan struct{}
}

func (s *blockingSource) Name() string { return "blocking" }

func (s *blockingSource) Dataset(ctx context.Context) (*catalog.Dataset, error) {
	close(s.started)
	select {
	case <-s.release:
		return fixtureDataset(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type failingSource struct{ err error }

func (s failingSource) Name() string { return "failing" }

func (s failingSource) Dataset(context.Context) (*catalog.Dataset, error) { return nil, s.err }

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	e.SetSource(catalog.StaticSource{Data: fixtureDataset()})
	return e
}

func TestNewEngine(t *testing.T) {
	if _, err := NewEngine(nil, zerolog.Nop()); err != nil {
		t.Errorf("nil config should use defaults, got %v", err)
	}

	bad := DefaultConfig()
	bad.MaxK = 0
	if _, err := NewEngine(bad, zerolog.Nop()); err == nil {
		t.Error("expected error for invalid config")
	}
}

func TestEngine_NotLoaded(t *testing.T) {
	e, err := NewEngine(DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	if e.Ready() {
		t.Error("engine should not be ready before a reload")
	}
	if _, err := e.Recommend(context.Background(), Request{Title: "X", K: 5, Mode: ModeContent}); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Recommend error = %v, want ErrNotLoaded", err)
	}
	if _, err := e.Selectable(); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Selectable error = %v, want ErrNotLoaded", err)
	}
	if _, _, err := e.Stats("X"); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Stats error = %v, want ErrNotLoaded", err)
	}
	if err := e.Reload(context.Background()); !errors.Is(err, catalog.ErrNoSource) {
		t.Errorf("Reload without source = %v, want ErrNoSource", err)
	}
}

func TestEngine_ReloadAndRecommend(t *testing.T) {
	e := newTestEngine(t)
	pub := &recordingPublisher{}
	obs := &recordingObserver{}
	e.SetPublisher(pub)
	e.SetObserver(obs)
	ctx := context.Background()

	if err := e.Reload(ctx); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if !e.Ready() {
		t.Fatal("engine should be ready after reload")
	}

	tests := []struct {
		name        string
		req         Request
		wantTitles  []string
		wantMessage string
	}{
		{
			name:       "content",
			req:        Request{Title: "A", K: 2, Mode: ModeContent},
			wantTitles: []string{"B", "C"},
		},
		{
			name:       "collaborative",
			req:        Request{Title: "X", K: 5, Mode: ModeCollaborative},
			wantTitles: []string{"Y", "Z"},
		},
		{
			name:        "content unknown",
			req:         Request{Title: "Nope", K: 5, Mode: ModeContent},
			wantTitles:  []string{},
			wantMessage: MessageNoContentData,
		},
		{
			name:        "collaborative unknown",
			req:         Request{Title: "Nope", K: 5, Mode: ModeCollaborative},
			wantTitles:  []string{},
			wantMessage: MessageNoCollaborativeData,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := e.Recommend(ctx, tt.req)
			if err != nil {
				t.Fatalf("Recommend() error = %v", err)
			}
			if got := Titles(resp.Items); !reflect.DeepEqual(got, tt.wantTitles) {
				t.Errorf("titles = %v, want %v", got, tt.wantTitles)
			}
			if resp.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", resp.Message, tt.wantMessage)
			}
			if resp.Metadata.Version != 1 {
				t.Errorf("version = %d, want 1", resp.Metadata.Version)
			}
		})
	}

	if len(pub.infos) != 1 || pub.infos[0].Version != 1 || pub.infos[0].Source != "static" {
		t.Errorf("published = %+v, want one version-1 static event", pub.infos)
	}
	if obs.reloads != 1 || len(obs.served) != 4 {
		t.Errorf("observer reloads=%d served=%d, want 1 and 4", obs.reloads, len(obs.served))
	}

	titles, err := e.Selectable()
	if err != nil || !reflect.DeepEqual(titles, []string{"X", "Y", "Z"}) {
		t.Errorf("Selectable() = %v, %v", titles, err)
	}
	if st, ok, err := e.Stats("X"); err != nil || !ok || st.Count != 60 {
		t.Errorf("Stats(X) = %+v, %v, %v", st, ok, err)
	}
}

func TestEngine_InvalidModeAndMaxK(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxK = 1
	cfg.DefaultK = 1
	e, err := NewEngine(cfg, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	e.SetSource(catalog.StaticSource{Data: fixtureDataset()})
	ctx := context.Background()
	if err := e.Reload(ctx); err != nil {
		t.Fatal(err)
	}

	if _, err := e.Recommend(ctx, Request{Title: "A", K: 1, Mode: "popular"}); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("error = %v, want ErrInvalidMode", err)
	}

	resp, err := e.Recommend(ctx, Request{Title: "A", K: 50, Mode: ModeContent})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Items) != 1 || resp.Metadata.K != 1 {
		t.Errorf("items=%d k=%d, want capped at 1", len(resp.Items), resp.Metadata.K)
	}
}

func TestEngine_Cache(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	if err := e.Reload(ctx); err != nil {
		t.Fatal(err)
	}

	req := Request{Title: "X", K: 5, Mode: ModeCollaborative}
	first, err := e.Recommend(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.Recommend(ctx, req)
	if err != nil {
		t.Fatal(err)
	}

	if first.Metadata.CacheHit || !second.Metadata.CacheHit {
		t.Errorf("cache hits = %v, %v; want false, true", first.Metadata.CacheHit, second.Metadata.CacheHit)
	}
	if !reflect.DeepEqual(first.Items, second.Items) {
		t.Error("cached items differ from computed items")
	}

	// Mutating a returned response must not poison the cache.
	second.Items[0].Title = "mutated"
	third, _ := e.Recommend(ctx, req)
	if third.Items[0].Title != "Y" {
		t.Errorf("cache was mutated through a response: %v", third.Items)
	}

	m := e.Metrics()
	if m.TotalRequests != 3 || m.CacheHits != 2 || m.CacheMisses != 1 {
		t.Errorf("Metrics() = %+v", m)
	}

	// A new snapshot version makes old entries unreachable; purge drops them.
	if err := e.Reload(ctx); err != nil {
		t.Fatal(err)
	}
	if removed := e.PurgeCache(2); removed != 1 {
		t.Errorf("PurgeCache(2) = %d, want 1", removed)
	}
	fourth, _ := e.Recommend(ctx, req)
	if fourth.Metadata.CacheHit || fourth.Metadata.Version != 2 {
		t.Errorf("after reload: cacheHit=%v version=%d", fourth.Metadata.CacheHit, fourth.Metadata.Version)
	}
}

func TestEngine_CacheDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cache.Enabled = false
	e, err := NewEngine(cfg, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	e.SetSource(catalog.StaticSource{Data: fixtureDataset()})
	ctx := context.Background()
	if err := e.Reload(ctx); err != nil {
		t.Fatal(err)
	}

	req := Request{Title: "A", K: 2, Mode: ModeContent}
	_, _ = e.Recommend(ctx, req)
	resp, _ := e.Recommend(ctx, req)
	if resp.Metadata.CacheHit {
		t.Error("cache disabled but response marked as hit")
	}
	if e.PurgeCache(1) != 0 {
		t.Error("PurgeCache on disabled cache should be a no-op")
	}
}

func TestEngine_FailedReloadKeepsSnapshot(t *testing.T) {
	e := newTestEngine(t)
	obs := &recordingObserver{}
	e.SetObserver(obs)
	ctx := context.Background()
	if err := e.Reload(ctx); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("disk on fire")
	e.SetSource(failingSource{err: boom})
	if err := e.Reload(ctx); !errors.Is(err, boom) {
		t.Fatalf("Reload() error = %v, want %v", err, boom)
	}

	st := e.Status()
	if !st.Loaded || st.Snapshot.Version != 1 {
		t.Errorf("status after failure = %+v, want version 1 still loaded", st)
	}
	if !strings.Contains(st.LastError, "disk on fire") {
		t.Errorf("LastError = %q", st.LastError)
	}
	if obs.failures != 1 {
		t.Errorf("observer failures = %d, want 1", obs.failures)
	}
	if m := e.Metrics(); m.ReloadErrors != 1 || m.Reloads != 1 {
		t.Errorf("Metrics() = %+v", m)
	}

	resp, err := e.Recommend(ctx, Request{Title: "A", K: 2, Mode: ModeContent})
	if err != nil || len(resp.Items) != 2 {
		t.Errorf("old snapshot should keep serving: %v, %v", resp, err)
	}
}

func TestEngine_ConcurrentReloadRejected(t *testing.T) {
	e := newTestEngine(t)
	src := &blockingSource{started: make(chan struct{}), release: make(chan struct{})}
	e.SetSource(src)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- e.Reload(ctx) }()
	<-src.started

	if err := e.Reload(ctx); !errors.Is(err, ErrReloadInProgress) {
		t.Errorf("second Reload() = %v, want ErrReloadInProgress", err)
	}
	if !e.Status().Reloading {
		t.Error("Status().Reloading should be true during reload")
	}

	close(src.release)
	if err := <-done; err != nil {
		t.Fatalf("first Reload() error = %v", err)
	}
	if e.Status().Reloading {
		t.Error("Status().Reloading should be false after reload")
	}
}

func TestEngine_Install(t *testing.T) {
	e, err := NewEngine(DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	pub := &recordingPublisher{err: errors.New("bus closed")}
	e.SetPublisher(pub)

	e.Install(context.Background(), fixtureSnapshot(t))
	e.Install(context.Background(), fixtureSnapshot(t))

	if got := e.Snapshot().Version; got != 2 {
		t.Errorf("version = %d, want 2", got)
	}
	if got := e.SnapshotVersion(); got != 2 {
		t.Errorf("SnapshotVersion() = %d, want 2", got)
	}
	if len(pub.infos) != 2 {
		t.Errorf("published %d events, want 2 despite publish errors", len(pub.infos))
	}
}

func TestEngine_ConcurrentQueries(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	if err := e.Reload(ctx); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			mode := ModeContent
			if i%2 == 0 {
				mode = ModeCollaborative
			}
			if _, err := e.Recommend(ctx, Request{Title: "X", K: 3, Mode: mode}); err != nil {
				t.Errorf("Recommend() error = %v", err)
			}
			if i%5 == 0 {
				if err := e.Reload(ctx); err != nil && !errors.Is(err, ErrReloadInProgress) {
					t.Errorf("Reload() error = %v", err)
				}
			}
		}(i)
	}
	wg.Wait()
}
