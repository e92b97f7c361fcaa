// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"fmt"
	"time"

	"github.com/tomtom215/cinematch/internal/recommend/algorithms"
)

// Config contains engine and scoring parameters.
type Config struct {
	// DefaultK is the result count used when a caller does not specify one.
	// Default: 5.
	DefaultK int `json:"default_k"`

	// MaxK caps any requested result count.
	// Default: 100.
	MaxK int `json:"max_k"`

	// MinRatingCount is the popularity threshold: only titles with strictly
	// more ratings are selectable or returned by collaborative queries.
	// Default: 50.
	MinRatingCount int `json:"min_rating_count"`

	// MinCoRaters is the minimum number of users who rated both titles for
	// a correlation to count. Values below 2 are raised to 2.
	// Default: 2.
	MinCoRaters int `json:"min_co_raters"`

	// NoGenreLabel is a genre label to drop from the genre universe, such
	// as algorithms.NoGenresListed. Empty keeps every label.
	// Default: "".
	NoGenreLabel string `json:"no_genre_label"`

	// Workers is the goroutine count for similarity and correlation passes.
	// Zero selects a value from GOMAXPROCS.
	Workers int `json:"workers"`

	// ReloadTimeout bounds a full catalog reload. Zero disables the bound.
	// Default: 10m.
	ReloadTimeout time.Duration `json:"reload_timeout"`

	Cache CacheConfig `json:"cache"`
}

// CacheConfig contains response caching parameters.
type CacheConfig struct {
	// Enabled controls whether responses are cached.
	// Default: true.
	Enabled bool `json:"enabled"`

	// TTL is the cache entry time-to-live.
	// Default: 10m.
	TTL time.Duration `json:"ttl"`

	// MaxEntries is the maximum number of cached responses.
	// Default: 5000.
	MaxEntries int `json:"max_entries"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		DefaultK:       5,
		MaxK:           100,
		MinRatingCount: 50,
		MinCoRaters:    algorithms.DefaultMinCoRaters,
		NoGenreLabel:   "",
		Workers:        0,
		ReloadTimeout:  10 * time.Minute,
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        10 * time.Minute,
			MaxEntries: 5000,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.DefaultK < 0 {
		return fmt.Errorf("default_k must be non-negative, got %d", c.DefaultK)
	}
	if c.MaxK < 1 {
		return fmt.Errorf("max_k must be positive, got %d", c.MaxK)
	}
	if c.MaxK < c.DefaultK {
		return fmt.Errorf("max_k must be >= default_k, got %d < %d", c.MaxK, c.DefaultK)
	}
	if c.MinRatingCount < 0 {
		return fmt.Errorf("min_rating_count must be non-negative, got %d", c.MinRatingCount)
	}
	if c.MinCoRaters < 0 {
		return fmt.Errorf("min_co_raters must be non-negative, got %d", c.MinCoRaters)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Workers)
	}
	if c.ReloadTimeout < 0 {
		return fmt.Errorf("reload_timeout must be non-negative, got %v", c.ReloadTimeout)
	}
	if c.Cache.Enabled {
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive, got %v", c.Cache.TTL)
		}
		if c.Cache.MaxEntries < 1 {
			return fmt.Errorf("cache.max_entries must be positive, got %d", c.Cache.MaxEntries)
		}
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

func (c *Config) genreIndexConfig() algorithms.GenreIndexConfig {
	return algorithms.GenreIndexConfig{
		NoGenreLabel: c.NoGenreLabel,
		Workers:      c.Workers,
	}
}

func (c *Config) correlateOptions() algorithms.CorrelateOptions {
	return algorithms.CorrelateOptions{
		MinCoRaters: c.MinCoRaters,
		Workers:     c.Workers,
	}
}
