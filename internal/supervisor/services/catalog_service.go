// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/recommend"
)

// CatalogEngine is the part of recommend.Engine the catalog service drives.
type CatalogEngine interface {
	Reload(ctx context.Context) error
	Ready() bool
}

// WatchFunc starts watching path and calls onChange after each change.
// config.WatchFile satisfies it.
type WatchFunc func(path string, onChange func()) (stop func() error, err error)

// CatalogServiceConfig holds configuration for the catalog service.
type CatalogServiceConfig struct {
	// LoadOnStartup loads the catalog when the service starts and no
	// snapshot is installed yet.
	LoadOnStartup bool

	// ReloadInterval triggers periodic reloads; zero disables them.
	ReloadInterval time.Duration

	// WatchPaths are data files whose changes trigger a reload.
	WatchPaths []string

	// WatchDebounce collapses bursts of file events into one reload.
	// Default: 500ms
	WatchDebounce time.Duration

	// BreakerMaxFailures consecutive failed reloads open the breaker.
	// Default: 3
	BreakerMaxFailures uint32

	// BreakerTimeout is how long the breaker stays open before a trial reload.
	// Default: 1m
	BreakerTimeout time.Duration
}

// CatalogServiceConfigFrom maps the catalog section of the application config.
func CatalogServiceConfigFrom(cfg *config.Config) CatalogServiceConfig {
	return CatalogServiceConfig{
		LoadOnStartup:      cfg.Catalog.LoadOnStartup,
		ReloadInterval:     cfg.Catalog.ReloadInterval,
		WatchPaths:         cfg.WatchPaths(),
		BreakerMaxFailures: cfg.Catalog.BreakerMaxFailures,
		BreakerTimeout:     cfg.Catalog.BreakerTimeout,
	}
}

// CatalogService owns catalog reloads: the startup load, periodic reloads
// and reloads on data-file changes. Every reload, including those requested
// over HTTP through Reload, passes through one circuit breaker so a broken
// source is not hammered.
type CatalogService struct {
	engine    CatalogEngine
	config    CatalogServiceConfig
	logger    zerolog.Logger
	cb        *gobreaker.CircuitBreaker[struct{}]
	watchFile WatchFunc
	name      string
}

// breakerName labels the reload breaker in metrics.
const breakerName = "catalog-reload"

// NewCatalogService creates a catalog service.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewCatalogService(engine CatalogEngine, cfg CatalogServiceConfig, logger zerolog.Logger) *CatalogService {
	if cfg.WatchDebounce <= 0 {
		cfg.WatchDebounce = 500 * time.Millisecond
	}
	if cfg.BreakerMaxFailures == 0 {
		cfg.BreakerMaxFailures = 3
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = time.Minute
	}

	s := &CatalogService{
		engine:    engine,
		config:    cfg,
		logger:    logger.With().Str("service", "catalog").Logger(),
		watchFile: config.WatchFile,
		name:      "catalog-service",
	}

	maxFailures := cfg.BreakerMaxFailures
	s.cb = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		// A concurrent reload or a canceled request says nothing about the
		// health of the source.
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, recommend.ErrReloadInProgress) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			s.logger.Warn().Str("from", from.String()).Str("to", to.String()).Msg("Reload circuit breaker state change")
			metrics.RecordBreakerTransition(name, from.String(), to.String())
		},
	})
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	return s
}

// SetWatchFunc replaces the file watcher, mostly for tests.
func (s *CatalogService) SetWatchFunc(fn WatchFunc) {
	if fn != nil {
		s.watchFile = fn
	}
}

// Reload runs one engine reload through the circuit breaker. While the
// breaker is open it fails fast with gobreaker.ErrOpenState.
func (s *CatalogService) Reload(ctx context.Context) error {
	_, err := s.cb.Execute(func() (struct{}, error) {
		return struct{}{}, s.engine.Reload(ctx)
	})

	counts := s.cb.Counts()
	switch {
	case err == nil:
		metrics.RecordBreakerRequest(breakerName, "success", 0)
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordBreakerRequest(breakerName, "rejected", counts.ConsecutiveFailures)
		s.logger.Warn().Err(err).Msg("Catalog reload rejected by circuit breaker")
	default:
		metrics.RecordBreakerRequest(breakerName, "failure", counts.ConsecutiveFailures)
	}
	return err
}

// BreakerState reports the reload breaker state.
func (s *CatalogService) BreakerState() gobreaker.State {
	return s.cb.State()
}

// Serve implements suture.Service.
func (s *CatalogService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("load_on_startup", s.config.LoadOnStartup).
		Dur("reload_interval", s.config.ReloadInterval).
		Strs("watch_paths", s.config.WatchPaths).
		Msg("Catalog service starting")

	// Suture restarts Serve after a crash; don't reload a live snapshot then.
	if s.config.LoadOnStartup && !s.engine.Ready() {
		s.reload(ctx, "startup")
	}

	changed := make(chan struct{}, 1)
	stops := s.startWatchers(changed)
	defer func() {
		for _, stop := range stops {
			if err := stop(); err != nil {
				s.logger.Debug().Err(err).Msg("Stopping file watcher failed")
			}
		}
	}()

	var tick <-chan time.Time
	if s.config.ReloadInterval > 0 {
		ticker := time.NewTicker(s.config.ReloadInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	var debounce *time.Timer
	var debounced <-chan time.Time
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Catalog service shutting down")
			return ctx.Err()

		case <-tick:
			s.reload(ctx, "interval")

		case <-changed:
			if debounce == nil {
				debounce = time.NewTimer(s.config.WatchDebounce)
			} else {
				debounce.Reset(s.config.WatchDebounce)
			}
			debounced = debounce.C

		case <-debounced:
			debounced = nil
			s.reload(ctx, "file_change")
		}
	}
}

func (s *CatalogService) startWatchers(changed chan<- struct{}) []func() error {
	notify := func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}

	stops := make([]func() error, 0, len(s.config.WatchPaths))
	for _, path := range s.config.WatchPaths {
		stop, err := s.watchFile(path, notify)
		if err != nil {
			s.logger.Warn().Err(err).Str("path", path).Msg("Cannot watch data file, changes need a manual reload")
			continue
		}
		stops = append(stops, stop)
	}
	return stops
}

func (s *CatalogService) reload(ctx context.Context, trigger string) {
	start := time.Now()
	err := s.Reload(ctx)
	switch {
	case err == nil:
		s.logger.Info().Str("trigger", trigger).Dur("duration", time.Since(start)).Msg("Catalog reloaded")
	case errors.Is(err, recommend.ErrReloadInProgress):
		s.logger.Debug().Str("trigger", trigger).Msg("Reload skipped, another one is running")
	case recommend.IsContextError(err) && ctx.Err() != nil:
		// Shutting down.
	default:
		s.logger.Error().Err(err).Str("trigger", trigger).Msg("Catalog reload failed")
	}
}

// String implements fmt.Stringer.
func (s *CatalogService) String() string {
	return s.name
}
