// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package database stores the movies and ratings tables in DuckDB and serves
them back as a catalog.Source.

The tables keep a position column so rows read back in the order they were
imported. Content recommendations break ties by catalog order, so the DuckDB
source must return exactly what the CSV source would.

Two import paths exist:

  - ImportCSV: DuckDB-native read_csv bulk load, used at startup
  - ImportDataset: transactional prepared-statement insert of an in-memory
    catalog.Dataset

Both replace the previous contents atomically.

Usage:

	db, err := database.New(&cfg.Database)
	if err != nil {
	    return err
	}
	defer db.Close()

	src := database.NewSource(db)
	src.ImportFrom(cfg.Catalog.MoviesPath, cfg.Catalog.RatingsPath)
	engine.SetSource(src)
*/
package database
