// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package algorithms

import (
	"context"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/tomtom215/cinematch/internal/catalog"
)

// NoGenresListed is the MovieLens placeholder for movies without genres.
const NoGenresListed = "(no genres listed)"

// GenreIndexConfig controls BuildGenreIndex.
type GenreIndexConfig struct {
	// NoGenreLabel, when set, is dropped from the genre universe so movies
	// carrying only that label get a zero vector. Empty keeps every label,
	// including the MovieLens placeholder, as a regular column.
	NoGenreLabel string

	// Workers is the number of goroutines computing similarity rows.
	Workers int
}

// DefaultGenreIndexConfig returns the default configuration.
func DefaultGenreIndexConfig() GenreIndexConfig {
	return GenreIndexConfig{
		Workers: DefaultWorkers(),
	}
}

// GenreIndex holds the multi-hot genre matrix and the cosine similarity
// matrix derived from it. Rows follow catalog order.
type GenreIndex struct {
	// Genres is the sorted genre universe; column j of the genre matrix
	// corresponds to Genres[j].
	Genres []string

	vectors [][]float64
	norms   []float64
	sim     *SimilarityMatrix
}

// BuildGenreIndex encodes movies and precomputes all pairwise similarities.
func BuildGenreIndex(ctx context.Context, movies []catalog.Movie, cfg GenreIndexConfig) (*GenreIndex, error) {
	if ContextCancelled(ctx) {
		return nil, ctx.Err()
	}

	genres := genreUniverse(movies, cfg.NoGenreLabel)
	column := make(map[string]int, len(genres))
	for j, g := range genres {
		column[g] = j
	}

	idx := &GenreIndex{
		Genres:  genres,
		vectors: make([][]float64, len(movies)),
		norms:   make([]float64, len(movies)),
		sim:     NewSimilarityMatrix(len(movies)),
	}

	for i := range movies {
		vec := make([]float64, len(genres))
		for _, g := range movies[i].Genres {
			if j, ok := column[g]; ok {
				vec[j] = 1
			}
		}
		idx.vectors[i] = vec
		idx.norms[i] = floats.Norm(vec, 2)
	}

	err := parallelRange(ctx, len(movies), cfg.Workers, func(start, end int) {
		for i := start; i < end; i++ {
			if ContextCancelled(ctx) {
				return
			}
			idx.fillRow(i)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("build genre similarity: %w", err)
	}
	return idx, nil
}

// fillRow writes the upper-triangle part of row i.
func (g *GenreIndex) fillRow(i int) {
	row := g.sim.upperRow(i)
	if g.norms[i] == 0 {
		return
	}
	for k := range row {
		j := i + k
		row[k] = float32(cosine(g.vectors[i], g.vectors[j], g.norms[i], g.norms[j]))
	}
}

func cosine(a, b []float64, normA, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	return floats.Dot(a, b) / (normA * normB)
}

func genreUniverse(movies []catalog.Movie, noGenreLabel string) []string {
	seen := make(map[string]struct{})
	for i := range movies {
		for _, g := range movies[i].Genres {
			if g == "" || (noGenreLabel != "" && g == noGenreLabel) {
				continue
			}
			seen[g] = struct{}{}
		}
	}
	genres := make([]string, 0, len(seen))
	for g := range seen {
		genres = append(genres, g)
	}
	sort.Strings(genres)
	return genres
}

// Len returns the number of movies (matrix rows).
func (g *GenreIndex) Len() int {
	return len(g.vectors)
}

// Vector returns a copy of movie i's multi-hot genre vector.
func (g *GenreIndex) Vector(i int) []float64 {
	out := make([]float64, len(g.vectors[i]))
	copy(out, g.vectors[i])
	return out
}

// Similarity returns the cosine similarity between movies i and j.
func (g *GenreIndex) Similarity(i, j int) float64 {
	return g.sim.At(i, j)
}

// Matrix returns the underlying similarity matrix.
func (g *GenreIndex) Matrix() *SimilarityMatrix {
	return g.sim
}

// Scored pairs a matrix position with its score.
type Scored struct {
	Index int
	Score float64
}

// Ranked returns every position j of row i for which keep(j) is true, sorted
// by descending similarity with ties broken by ascending position. A nil keep
// keeps everything.
func (g *GenreIndex) Ranked(i int, keep func(j int) bool) []Scored {
	row := g.sim.Row(i, nil)
	out := make([]Scored, 0, len(row))
	for j, s := range row {
		if keep != nil && !keep(j) {
			continue
		}
		out = append(out, Scored{Index: j, Score: s})
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Score > out[b].Score
	})
	return out
}
