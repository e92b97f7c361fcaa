// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Column names of the MovieLens CSV layout.
const (
	ColMovieID   = "movieId"
	ColTitle     = "title"
	ColGenres    = "genres"
	ColUserID    = "userId"
	ColRating    = "rating"
	ColTimestamp = "timestamp"
)

// GenreSeparator splits the genres cell into labels.
const GenreSeparator = "|"

var errDuplicateMovie = errors.New("duplicate movieId")

// csvTable is a header-indexed CSV reader.
type csvTable struct {
	name    string
	reader  *csv.Reader
	columns map[string]int
}

func openTable(r io.Reader, name string, required ...string) (*csvTable, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: empty file: %w", name, ErrMissingColumn)
		}
		return nil, &ParseError{File: name, Line: 1, Err: err}
	}

	columns := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		if _, dup := columns[h]; !dup {
			columns[h] = i
		}
	}
	for _, col := range required {
		if _, ok := columns[col]; !ok {
			return nil, fmt.Errorf("%s: %q: %w", name, col, ErrMissingColumn)
		}
	}

	// Every following record must match the header width.
	cr.FieldsPerRecord = len(header)

	return &csvTable{name: name, reader: cr, columns: columns}, nil
}

// next returns the next record and its 1-based line number, or io.EOF.
func (t *csvTable) next() ([]string, int, error) {
	rec, err := t.reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, io.EOF
		}
		line := 0
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			line = pe.StartLine
			err = pe.Err
		}
		return nil, line, &ParseError{File: t.name, Line: line, Err: err}
	}
	line, _ := t.reader.FieldPos(0)
	return rec, line, nil
}

// field returns a cell trimmed for numeric parsing.
func (t *csvTable) field(rec []string, col string) string {
	return strings.TrimSpace(rec[t.columns[col]])
}

// rawField returns a cell exactly as written.
func (t *csvTable) rawField(rec []string, col string) string {
	return rec[t.columns[col]]
}

func (t *csvTable) intField(rec []string, line int, col string) (int, error) {
	v, err := strconv.Atoi(t.field(rec, col))
	if err != nil {
		return 0, &ParseError{File: t.name, Line: line, Column: col, Err: err}
	}
	return v, nil
}

func (t *csvTable) int64Field(rec []string, line int, col string) (int64, error) {
	v, err := strconv.ParseInt(t.field(rec, col), 10, 64)
	if err != nil {
		return 0, &ParseError{File: t.name, Line: line, Column: col, Err: err}
	}
	return v, nil
}

func (t *csvTable) floatField(rec []string, line int, col string) (float64, error) {
	v, err := strconv.ParseFloat(t.field(rec, col), 64)
	if err != nil {
		return 0, &ParseError{File: t.name, Line: line, Column: col, Err: err}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ParseError{File: t.name, Line: line, Column: col, Err: fmt.Errorf("non-finite value %q", t.field(rec, col))}
	}
	return v, nil
}

// ParseMovies reads a movies CSV with columns movieId, title and genres.
// name is used in error messages only.
func ParseMovies(r io.Reader, name string) ([]Movie, error) {
	tbl, err := openTable(r, name, ColMovieID, ColTitle, ColGenres)
	if err != nil {
		return nil, err
	}

	var movies []Movie
	seen := make(map[int]int)
	for {
		rec, line, err := tbl.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		id, err := tbl.intField(rec, line, ColMovieID)
		if err != nil {
			return nil, err
		}
		if first, dup := seen[id]; dup {
			return nil, &ParseError{
				File: name, Line: line, Column: ColMovieID,
				Err: fmt.Errorf("%w %d (first seen on line %d)", errDuplicateMovie, id, first),
			}
		}
		seen[id] = line

		movies = append(movies, Movie{
			ID:     id,
			Title:  tbl.rawField(rec, ColTitle),
			Genres: SplitGenres(tbl.rawField(rec, ColGenres)),
		})
	}
	return movies, nil
}

// ParseRatings reads a ratings CSV with columns userId, movieId, rating and
// timestamp.
func ParseRatings(r io.Reader, name string) ([]Rating, error) {
	tbl, err := openTable(r, name, ColUserID, ColMovieID, ColRating, ColTimestamp)
	if err != nil {
		return nil, err
	}

	var ratings []Rating
	for {
		rec, line, err := tbl.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		var rt Rating
		if rt.UserID, err = tbl.intField(rec, line, ColUserID); err != nil {
			return nil, err
		}
		if rt.MovieID, err = tbl.intField(rec, line, ColMovieID); err != nil {
			return nil, err
		}
		if rt.Rating, err = tbl.floatField(rec, line, ColRating); err != nil {
			return nil, err
		}
		if rt.Timestamp, err = tbl.int64Field(rec, line, ColTimestamp); err != nil {
			return nil, err
		}
		ratings = append(ratings, rt)
	}
	return ratings, nil
}

// SplitGenres splits a pipe-separated genre cell. Empty labels are skipped
// and repeated labels keep their first position.
func SplitGenres(cell string) []string {
	if strings.TrimSpace(cell) == "" {
		return []string{}
	}
	parts := strings.Split(cell, GenreSeparator)
	genres := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		genres = append(genres, p)
	}
	return genres
}
