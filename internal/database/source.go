// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package database

import (
	"context"
	"fmt"
	"sync"

	"github.com/tomtom215/cinematch/internal/catalog"
)

// Source serves the DuckDB tables as a catalog.Source.
type Source struct {
	db *DB

	mu         sync.Mutex
	moviesCSV  string
	ratingsCSV string
}

// NewSource creates a Source reading db.
func NewSource(db *DB) *Source {
	return &Source{db: db}
}

// ImportFrom makes every Dataset call re-import the given CSV files first,
// so reloads pick up file changes.
func (s *Source) ImportFrom(moviesPath, ratingsPath string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moviesCSV, s.ratingsCSV = moviesPath, ratingsPath
}

// Name implements catalog.Source.
func (s *Source) Name() string { return "duckdb" }

// Dataset implements catalog.Source.
func (s *Source) Dataset(ctx context.Context) (*catalog.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.moviesCSV != "" && s.ratingsCSV != "" {
		if _, err := s.db.ImportCSV(ctx, s.moviesCSV, s.ratingsCSV); err != nil {
			return nil, err
		}
	}
	return s.db.ReadDataset(ctx)
}

// ReadDataset returns both tables in import order.
func (db *DB) ReadDataset(ctx context.Context) (*catalog.Dataset, error) {
	if db.conn == nil {
		return nil, ErrClosed
	}

	movies, err := db.readMovies(ctx)
	if err != nil {
		return nil, err
	}
	ratings, err := db.readRatings(ctx)
	if err != nil {
		return nil, err
	}
	return &catalog.Dataset{Movies: movies, Ratings: ratings}, nil
}

func (db *DB) readMovies(ctx context.Context) ([]catalog.Movie, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT movie_id, title, genres FROM movies ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("query movies: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var movies []catalog.Movie
	for rows.Next() {
		var (
			m      catalog.Movie
			genres string
		)
		if err := rows.Scan(&m.ID, &m.Title, &genres); err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		m.Genres = catalog.SplitGenres(genres)
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movies: %w", err)
	}
	return movies, nil
}

func (db *DB) readRatings(ctx context.Context) ([]catalog.Rating, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT user_id, movie_id, rating, timestamp FROM ratings ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("query ratings: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var ratings []catalog.Rating
	for rows.Next() {
		var r catalog.Rating
		if err := rows.Scan(&r.UserID, &r.MovieID, &r.Rating, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		ratings = append(ratings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ratings: %w", err)
	}
	return ratings, nil
}
