// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"context"
	"testing"

	"github.com/tomtom215/cinematch/internal/catalog"
)

// fixtureDataset builds a catalog where 60 users rate X and Y identically,
// Z inversely, and a handful rate the rare title R.
func fixtureDataset() *catalog.Dataset {
	movies := []catalog.Movie{
		{ID: 1, Title: "A", Genres: []string{"Comedy"}},
		{ID: 2, Title: "B", Genres: []string{"Comedy"}},
		{ID: 3, Title: "C", Genres: []string{"Action"}},
		{ID: 10, Title: "X", Genres: []string{"Drama"}},
		{ID: 11, Title: "Y", Genres: []string{"Drama", "Romance"}},
		{ID: 12, Title: "Z", Genres: []string{"Horror"}},
		{ID: 13, Title: "R", Genres: []string{"Drama"}},
		{ID: 14, Title: "N", Genres: []string{"(no genres listed)"}},
	}

	var ratings []catalog.Rating
	for u := 1; u <= 60; u++ {
		r := float64(1 + u%5)
		ratings = append(ratings,
			catalog.Rating{UserID: u, MovieID: 10, Rating: r},
			catalog.Rating{UserID: u, MovieID: 11, Rating: r},
			catalog.Rating{UserID: u, MovieID: 12, Rating: 6 - r},
		)
		if u <= 5 {
			ratings = append(ratings, catalog.Rating{UserID: u, MovieID: 13, Rating: r})
		}
	}
	ratings = append(ratings, catalog.Rating{UserID: 1, MovieID: 1, Rating: 4})

	return &catalog.Dataset{Movies: movies, Ratings: ratings}
}

func fixtureSnapshot(t *testing.T) *Snapshot {
	t.Helper()
	snap, err := BuildSnapshot(context.Background(), catalog.Build(fixtureDataset()), DefaultConfig())
	if err != nil {
		t.Fatalf("BuildSnapshot() error = %v", err)
	}
	return snap
}
