// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/cinematch/internal/logging"
)

// Rate limit constants
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

// minAdminSecretLength is the shortest accepted HS256 signing secret.
const minAdminSecretLength = 32

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateCatalog,
		c.validateDatabase,
		c.validateRecommend,
		c.validateEvents,
		c.validateServer,
		c.validateAPI,
		c.validateSecurity,
		c.validateLogging,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateCatalog() error {
	switch c.Catalog.Source {
	case SourceCSV:
		if c.Catalog.MoviesPath == "" || c.Catalog.RatingsPath == "" {
			return fmt.Errorf("MOVIES_PATH and RATINGS_PATH are required when CATALOG_SOURCE=csv")
		}
	case SourceDuckDB:
		if c.Database.ImportOnStartup && (c.Catalog.MoviesPath == "" || c.Catalog.RatingsPath == "") {
			return fmt.Errorf("MOVIES_PATH and RATINGS_PATH are required when DUCKDB_IMPORT_ON_STARTUP=true")
		}
	default:
		return fmt.Errorf("CATALOG_SOURCE must be one of: %s, %s", SourceCSV, SourceDuckDB)
	}

	if c.Catalog.ReloadInterval < 0 {
		return fmt.Errorf("CATALOG_RELOAD_INTERVAL must be non-negative")
	}
	if c.Catalog.ReloadInterval > 0 && c.Catalog.ReloadInterval < time.Second {
		return fmt.Errorf("CATALOG_RELOAD_INTERVAL must be at least 1s when set")
	}
	if c.Catalog.BreakerMaxFailures < 1 {
		return fmt.Errorf("CATALOG_BREAKER_MAX_FAILURES must be at least 1")
	}
	if c.Catalog.BreakerTimeout <= 0 {
		return fmt.Errorf("CATALOG_BREAKER_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Catalog.Source != SourceDuckDB {
		return nil
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be non-negative")
	}
	return nil
}

// validateRecommend delegates to recommend.Config so both layers agree.
func (c *Config) validateRecommend() error {
	if err := c.EngineConfig().Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	return nil
}

func (c *Config) validateEvents() error {
	if c.Events.BufferSize < 0 {
		return fmt.Errorf("EVENTS_BUFFER_SIZE must be non-negative")
	}
	return nil
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive")
	}
	switch c.Server.Environment {
	case "development", "production":
	default:
		return fmt.Errorf("ENVIRONMENT must be one of: development, production")
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("API_DEFAULT_PAGE_SIZE must be positive")
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("API_MAX_PAGE_SIZE must be >= API_DEFAULT_PAGE_SIZE")
	}
	return nil
}

// validateSecurity validates security configuration
func (c *Config) validateSecurity() error {
	if c.AdminAuthEnabled() && len(c.Security.AdminJWTSecret) < minAdminSecretLength {
		return fmt.Errorf("ADMIN_JWT_SECRET must be at least %d characters", minAdminSecretLength)
	}
	if c.IsProduction() && !c.AdminAuthEnabled() {
		return fmt.Errorf("ADMIN_JWT_SECRET is required when ENVIRONMENT=production")
	}
	return c.validateRateLimits()
}

// validateRateLimits validates rate limiting configuration bounds.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	switch c.Logging.Format {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
}

// HasWildcardCORS reports whether any CORS origin is "*".
func (c *Config) HasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}
