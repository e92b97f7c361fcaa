// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package catalog

import (
	"context"
	"fmt"
)

// Load reads src and returns the joined, aggregated catalog. Any error aborts
// the whole load.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	if src == nil {
		return nil, ErrNoSource
	}
	ds, err := src.Dataset(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s catalog: %w", src.Name(), err)
	}
	return Build(ds), nil
}

// Build joins and aggregates an already parsed dataset.
func Build(ds *Dataset) *Catalog {
	joined := Join(ds.Movies, ds.Ratings)
	return &Catalog{
		Movies:  ds.Movies,
		Ratings: ds.Ratings,
		Joined:  joined,
		Stats:   AggregateStats(joined),
	}
}

// Join inner-joins ratings with movies on MovieID. Output keeps rating
// order; ratings for unknown movies are dropped.
func Join(movies []Movie, ratings []Rating) []JoinedRating {
	byID := make(map[int]int, len(movies))
	for i := range movies {
		byID[movies[i].ID] = i
	}

	joined := make([]JoinedRating, 0, len(ratings))
	for _, r := range ratings {
		idx, ok := byID[r.MovieID]
		if !ok {
			continue
		}
		joined = append(joined, JoinedRating{
			Rating: r,
			Title:  movies[idx].Title,
			Genres: movies[idx].Genres,
		})
	}
	return joined
}

// AggregateStats groups joined rows by title and computes count and mean.
func AggregateStats(joined []JoinedRating) map[string]TitleStats {
	type acc struct {
		n   int
		sum float64
	}
	sums := make(map[string]*acc)
	for i := range joined {
		a, ok := sums[joined[i].Title]
		if !ok {
			a = &acc{}
			sums[joined[i].Title] = a
		}
		a.n++
		a.sum += joined[i].Rating.Rating
	}

	stats := make(map[string]TitleStats, len(sums))
	for title, a := range sums {
		stats[title] = TitleStats{Count: a.n, Mean: a.sum / float64(a.n)}
	}
	return stats
}
