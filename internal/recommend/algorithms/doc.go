// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package algorithms implements the numeric kernels behind seed-title
// recommendations.
//
// # Genre Similarity
//
// BuildGenreIndex one-hot encodes each movie's genres over the sorted genre
// universe and precomputes the full movie-by-movie cosine similarity matrix:
//
//	sim(a, b) = dot(a, b) / (||a|| * ||b||)
//
// A movie with no genres has a zero vector and a similarity of 0 with every
// movie, itself included. The MovieLens "(no genres listed)" placeholder is a
// regular column unless GenreIndexConfig.NoGenreLabel names it. The matrix is stored as a packed upper triangle of
// float32 values; At reads it symmetrically.
//
// # Rating Correlation
//
// BuildRatingMatrix pivots joined ratings into a sparse user-by-title matrix
// in which missing cells are absent rather than zero. Correlate computes the
// Pearson correlation between the seed title's column and every other column
// over co-rated users only, dropping pairs with too few co-raters or an
// undefined correlation (zero variance).
//
// # Concurrency
//
// Both kernels fan out over a fixed worker pool. Each output slot is written
// by exactly one worker, so results are identical regardless of worker count.
// Built structures are read-only and safe for concurrent use.
//
// # Numerics
//
// Dot products, norms and Pearson correlations come from gonum
// (floats.Dot, floats.Norm, stat.Correlation).
package algorithms
