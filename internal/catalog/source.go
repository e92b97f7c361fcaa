// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package catalog

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Source produces the raw movies and ratings tables.
type Source interface {
	Dataset(ctx context.Context) (*Dataset, error)
	Name() string
}

// FileSource reads the two tables from CSV files on disk.
type FileSource struct {
	MoviesPath  string
	RatingsPath string
}

// Name implements Source.
func (s FileSource) Name() string { return "csv" }

// Dataset implements Source.
func (s FileSource) Dataset(ctx context.Context) (*Dataset, error) {
	movies, err := parseFile(ctx, s.MoviesPath, ParseMovies)
	if err != nil {
		return nil, err
	}
	ratings, err := parseFile(ctx, s.RatingsPath, ParseRatings)
	if err != nil {
		return nil, err
	}
	return &Dataset{Movies: movies, Ratings: ratings}, nil
}

func parseFile[T any](ctx context.Context, path string, parse func(io.Reader, string) ([]T, error)) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := parse(f, path)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ReaderSource reads the two tables from in-memory readers. It can be
// consumed once.
type ReaderSource struct {
	Movies  io.Reader
	Ratings io.Reader
}

// Name implements Source.
func (s ReaderSource) Name() string { return "reader" }

// Dataset implements Source.
func (s ReaderSource) Dataset(ctx context.Context) (*Dataset, error) {
	if s.Movies == nil || s.Ratings == nil {
		return nil, ErrNoSource
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	movies, err := ParseMovies(s.Movies, "movies")
	if err != nil {
		return nil, err
	}
	ratings, err := ParseRatings(s.Ratings, "ratings")
	if err != nil {
		return nil, err
	}
	return &Dataset{Movies: movies, Ratings: ratings}, nil
}

// StaticSource returns a fixed Dataset. Useful for tests and for callers
// that build tables programmatically.
type StaticSource struct {
	Data *Dataset
}

// Name implements Source.
func (s StaticSource) Name() string { return "static" }

// Dataset implements Source.
func (s StaticSource) Dataset(ctx context.Context) (*Dataset, error) {
	if s.Data == nil {
		return nil, ErrNoSource
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Data, nil
}
