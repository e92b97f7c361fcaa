// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package catalog loads the movie and rating tables, joins them on movie ID
// and aggregates per-title rating statistics.
//
// # Sources
//
// A Source produces the two raw tables. FileSource reads MovieLens-style CSV
// files from disk, ReaderSource reads them from arbitrary readers, and the
// database package provides a DuckDB-backed Source.
//
//	cat, err := catalog.Load(ctx, catalog.FileSource{
//	    MoviesPath:  "data/movies.csv",
//	    RatingsPath: "data/ratings.csv",
//	})
//
// # Errors
//
// Loading is all-or-nothing. A missing column yields ErrMissingColumn and an
// unparseable row yields a *ParseError wrapping ErrMalformedRow. No partial
// Catalog is ever returned.
//
// # Determinism
//
// Movies keep file order, joined rows keep rating order, and Stats is a pure
// function of the joined rows, so identical inputs give identical catalogs.
package catalog
