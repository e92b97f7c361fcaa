// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/cinematch/internal/recommend/algorithms"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cinematch/config.yaml",
	"/etc/cinematch/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Defaults returns the configuration used when no file or environment
// variable overrides anything.
func Defaults() *Config {
	return defaultConfig()
}

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Source:             SourceCSV,
			MoviesPath:         "data/movies.csv",
			RatingsPath:        "data/ratings.csv",
			LoadOnStartup:      true,
			ReloadInterval:     0,
			WatchFiles:         false,
			BreakerMaxFailures: 3,
			BreakerTimeout:     time.Minute,
		},
		Database: DatabaseConfig{
			Path:            "data/cinematch.duckdb",
			MaxMemory:       "1GB",
			Threads:         0, // DuckDB picks
			ImportOnStartup: true,
		},
		Recommend: RecommendConfig{
			DefaultK:       5,
			MaxK:           100,
			MinRatingCount: 50,
			MinCoRaters:    algorithms.DefaultMinCoRaters,
			NoGenreLabel:   "",
			Workers:        0,
			ReloadTimeout:  10 * time.Minute,
			CacheEnabled:   true,
			CacheTTL:       10 * time.Minute,
			CacheMaxSize:   5000,
		},
		Events: EventsConfig{
			Enabled:    true,
			BufferSize: 64,
		},
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			Timeout:         10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			Environment:     "development",
		},
		API: APIConfig{
			DefaultPageSize: 100,
			MaxPageSize:     1000,
		},
		Security: SecurityConfig{
			AdminJWTSecret:    "",
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	return load(findConfigFile())
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// MOVIES_PATH -> catalog.movies_path
	// RECOMMEND_MAX_K -> recommend.max_k
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings while YAML already yields slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Catalog
	"catalog_source":               "catalog.source",
	"movies_path":                  "catalog.movies_path",
	"ratings_path":                 "catalog.ratings_path",
	"catalog_load_on_startup":      "catalog.load_on_startup",
	"catalog_reload_interval":      "catalog.reload_interval",
	"catalog_watch_files":          "catalog.watch_files",
	"catalog_breaker_max_failures": "catalog.breaker_max_failures",
	"catalog_breaker_timeout":      "catalog.breaker_timeout",

	// Database
	"duckdb_path":              "database.path",
	"duckdb_max_memory":        "database.max_memory",
	"duckdb_threads":           "database.threads",
	"duckdb_import_on_startup": "database.import_on_startup",

	// Recommendations
	"recommend_default_k":         "recommend.default_k",
	"recommend_max_k":             "recommend.max_k",
	"recommend_min_rating_count":  "recommend.min_rating_count",
	"recommend_min_co_raters":     "recommend.min_co_raters",
	"recommend_no_genre_label":    "recommend.no_genre_label",
	"recommend_workers":           "recommend.workers",
	"recommend_reload_timeout":    "recommend.reload_timeout",
	"recommend_cache_enabled":     "recommend.cache_enabled",
	"recommend_cache_ttl":         "recommend.cache_ttl",
	"recommend_cache_max_entries": "recommend.cache_max_entries",

	// Events
	"events_enabled":     "events.enabled",
	"events_buffer_size": "events.buffer_size",

	// Server
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	// API
	"api_default_page_size": "api.default_page_size",
	"api_max_page_size":     "api.max_page_size",

	// Security
	"admin_jwt_secret":    "security.admin_jwt_secret",
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped keys return "" so unrelated environment variables are skipped.
//
// Examples:
//   - MOVIES_PATH -> catalog.movies_path
//   - DUCKDB_PATH -> database.path
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// WatchFile calls callback whenever path changes on disk. The returned stop
// function ends the watch.
//
//	stop, err := config.WatchFile(cfg.Catalog.RatingsPath, func() {
//	    _ = engine.Reload(ctx)
//	})
//	defer stop()
func WatchFile(path string, callback func()) (stop func() error, err error) {
	provider := file.Provider(path)

	err = provider.Watch(func(_ interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	return provider.Unwatch, nil
}
