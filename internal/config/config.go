// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package config

import (
	"time"

	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/recommend"
)

// Catalog source kinds.
const (
	SourceCSV    = "csv"
	SourceDuckDB = "duckdb"
)

// Config holds all application configuration
type Config struct {
	Catalog   CatalogConfig   `koanf:"catalog"`
	Database  DatabaseConfig  `koanf:"database"`
	Recommend RecommendConfig `koanf:"recommend"`
	Events    EventsConfig    `koanf:"events"`
	Server    ServerConfig    `koanf:"server"`
	API       APIConfig       `koanf:"api"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// CatalogConfig selects where the dataset comes from and when it is reloaded.
type CatalogConfig struct {
	Source         string        `koanf:"source"` // csv or duckdb
	MoviesPath     string        `koanf:"movies_path"`
	RatingsPath    string        `koanf:"ratings_path"`
	LoadOnStartup  bool          `koanf:"load_on_startup"`
	ReloadInterval time.Duration `koanf:"reload_interval"` // 0 disables periodic reloads
	WatchFiles     bool          `koanf:"watch_files"`

	// Reload circuit breaker
	BreakerMaxFailures uint32        `koanf:"breaker_max_failures"`
	BreakerTimeout     time.Duration `koanf:"breaker_timeout"`
}

// DatabaseConfig holds DuckDB settings used when Catalog.Source is duckdb.
type DatabaseConfig struct {
	Path            string `koanf:"path"` // empty for in-memory
	MaxMemory       string `koanf:"max_memory"`
	Threads         int    `koanf:"threads"`
	ImportOnStartup bool   `koanf:"import_on_startup"`
}

// RecommendConfig mirrors recommend.Config in koanf form.
type RecommendConfig struct {
	DefaultK       int           `koanf:"default_k"`
	MaxK           int           `koanf:"max_k"`
	MinRatingCount int           `koanf:"min_rating_count"`
	MinCoRaters    int           `koanf:"min_co_raters"`
	NoGenreLabel   string        `koanf:"no_genre_label"`
	Workers        int           `koanf:"workers"`
	ReloadTimeout  time.Duration `koanf:"reload_timeout"`
	CacheEnabled   bool          `koanf:"cache_enabled"`
	CacheTTL       time.Duration `koanf:"cache_ttl"`
	CacheMaxSize   int           `koanf:"cache_max_entries"`
}

// EventsConfig configures the in-process event bus.
type EventsConfig struct {
	Enabled    bool  `koanf:"enabled"`
	BufferSize int64 `koanf:"buffer_size"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development or production
}

// APIConfig holds list paging settings
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// SecurityConfig holds admin auth, CORS and rate limiting settings
type SecurityConfig struct {
	AdminJWTSecret    string        `koanf:"admin_jwt_secret"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// AdminAuthEnabled reports whether the reload endpoint requires a token.
func (c *Config) AdminAuthEnabled() bool {
	return c.Security.AdminJWTSecret != ""
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// EngineConfig converts the recommend section to recommend.Config.
func (c *Config) EngineConfig() *recommend.Config {
	r := c.Recommend
	return &recommend.Config{
		DefaultK:       r.DefaultK,
		MaxK:           r.MaxK,
		MinRatingCount: r.MinRatingCount,
		MinCoRaters:    r.MinCoRaters,
		NoGenreLabel:   r.NoGenreLabel,
		Workers:        r.Workers,
		ReloadTimeout:  r.ReloadTimeout,
		Cache: recommend.CacheConfig{
			Enabled:    r.CacheEnabled,
			TTL:        r.CacheTTL,
			MaxEntries: r.CacheMaxSize,
		},
	}
}

// LoggerConfig converts the logging section to logging.Config.
func (c *Config) LoggerConfig() logging.Config {
	lc := logging.DefaultConfig()
	lc.Level = c.Logging.Level
	lc.Format = c.Logging.Format
	lc.Caller = c.Logging.Caller
	return lc
}

// WatchPaths returns the dataset files watched when Catalog.WatchFiles is set.
func (c *Config) WatchPaths() []string {
	if !c.Catalog.WatchFiles {
		return nil
	}
	return []string{c.Catalog.MoviesPath, c.Catalog.RatingsPath}
}
