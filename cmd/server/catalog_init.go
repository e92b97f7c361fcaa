// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/catalog"
	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/database"
)

// CatalogComponents holds the configured catalog source and the resources
// it owns.
type CatalogComponents struct {
	Source catalog.Source
	DB     *database.DB // nil for the csv source
}

// Close releases the database, if any.
func (c *CatalogComponents) Close() error {
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}

// initCatalogSource builds the catalog source selected by CATALOG_SOURCE.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initCatalogSource(cfg *config.Config, logger zerolog.Logger) (*CatalogComponents, error) {
	switch cfg.Catalog.Source {
	case config.SourceCSV:
		logger.Info().
			Str("movies_path", cfg.Catalog.MoviesPath).
			Str("ratings_path", cfg.Catalog.RatingsPath).
			Msg("Catalog source: csv files")
		return &CatalogComponents{
			Source: catalog.FileSource{
				MoviesPath:  cfg.Catalog.MoviesPath,
				RatingsPath: cfg.Catalog.RatingsPath,
			},
		}, nil

	case config.SourceDuckDB:
		db, err := database.New(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("open catalog database: %w", err)
		}
		src := database.NewSource(db)
		if cfg.Database.ImportOnStartup {
			// Every reload re-imports, so file changes reach the tables.
			src.ImportFrom(cfg.Catalog.MoviesPath, cfg.Catalog.RatingsPath)
		}
		logger.Info().
			Str("db_path", db.Path()).
			Bool("import_csv", cfg.Database.ImportOnStartup).
			Msg("Catalog source: duckdb")
		return &CatalogComponents{Source: src, DB: db}, nil

	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Catalog.Source)
	}
}
