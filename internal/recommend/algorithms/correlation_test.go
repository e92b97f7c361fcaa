// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package algorithms

import (
	"context"
	"math"
	"reflect"
	"testing"

	"github.com/tomtom215/cinematch/internal/catalog"
)

func joinedRating(user int, title string, rating float64) catalog.JoinedRating {
	return catalog.JoinedRating{Rating: catalog.Rating{UserID: user, Rating: rating}, Title: title}
}

// mirrorRatings returns 60 users rating X and Y identically and Z inversely.
func mirrorRatings() []catalog.JoinedRating {
	var joined []catalog.JoinedRating
	for u := 1; u <= 60; u++ {
		r := float64(1 + u%5)
		joined = append(joined,
			joinedRating(u, "X", r),
			joinedRating(u, "Y", r),
			joinedRating(u, "Z", 6-r),
		)
	}
	return joined
}

func buildMatrix(t *testing.T, joined []catalog.JoinedRating) *RatingMatrix {
	t.Helper()
	m, err := BuildRatingMatrix(context.Background(), joined)
	if err != nil {
		t.Fatalf("BuildRatingMatrix() error = %v", err)
	}
	return m
}

func TestBuildRatingMatrix(t *testing.T) {
	m := buildMatrix(t, []catalog.JoinedRating{
		joinedRating(7, "B", 4),
		joinedRating(3, "A", 2),
		joinedRating(7, "B", 2),
		joinedRating(3, "B", 5),
	})

	if want := []string{"A", "B"}; !reflect.DeepEqual(m.Titles, want) {
		t.Errorf("Titles = %v, want %v", m.Titles, want)
	}
	if want := []int{3, 7}; !reflect.DeepEqual(m.Users, want) {
		t.Errorf("Users = %v, want %v", m.Users, want)
	}

	tests := []struct {
		name    string
		user    int
		title   string
		want    float64
		present bool
	}{
		{"single rating", 3, "A", 2, true},
		{"duplicate ratings averaged", 7, "B", 3, true},
		{"missing cell", 7, "A", 0, false},
		{"unknown user", 99, "A", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.Cell(tt.user, m.Column(tt.title))
			if ok != tt.present || got != tt.want {
				t.Errorf("Cell(%d,%s) = %v,%v want %v,%v", tt.user, tt.title, got, ok, tt.want, tt.present)
			}
		})
	}

	if m.Cells() != 3 {
		t.Errorf("Cells() = %d, want 3", m.Cells())
	}
	if m.ColumnSize(m.Column("B")) != 2 {
		t.Errorf("ColumnSize(B) = %d, want 2", m.ColumnSize(m.Column("B")))
	}
	if m.Has("C") || m.Column("C") != -1 {
		t.Error("unknown title should not be a column")
	}
}

func TestCorrelate_MirroredUsers(t *testing.T) {
	m := buildMatrix(t, mirrorRatings())

	got, err := m.Correlate(context.Background(), "X", CorrelateOptions{Workers: 2})
	if err != nil {
		t.Fatalf("Correlate() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3 (X, Y, Z)", len(got))
	}

	byTitle := make(map[string]Correlation)
	for _, c := range got {
		byTitle[c.Title] = c
	}
	if c := byTitle["Y"]; math.Abs(c.Value-1) > 1e-9 || c.CoRaters != 60 {
		t.Errorf("corr(X,Y) = %+v, want 1 over 60 users", c)
	}
	if c := byTitle["Z"]; math.Abs(c.Value+1) > 1e-9 {
		t.Errorf("corr(X,Z) = %+v, want -1", c)
	}
}

func TestCorrelate_Dropped(t *testing.T) {
	joined := []catalog.JoinedRating{
		joinedRating(1, "S", 1), joinedRating(2, "S", 3), joinedRating(3, "S", 5),
		// one co-rater
		joinedRating(1, "One", 4),
		// constant ratings: zero variance
		joinedRating(1, "Flat", 3), joinedRating(2, "Flat", 3), joinedRating(3, "Flat", 3),
		// no overlap
		joinedRating(9, "Apart", 2), joinedRating(10, "Apart", 4),
		// two co-raters, defined
		joinedRating(1, "Two", 2), joinedRating(3, "Two", 1),
	}
	m := buildMatrix(t, joined)

	got, err := m.Correlate(context.Background(), "S", CorrelateOptions{MinCoRaters: 2, Workers: 1})
	if err != nil {
		t.Fatal(err)
	}
	var titles []string
	for _, c := range got {
		titles = append(titles, c.Title)
	}
	if want := []string{"S", "Two"}; !reflect.DeepEqual(titles, want) {
		t.Errorf("correlated titles = %v, want %v", titles, want)
	}
}

func TestCorrelate_MinCoRatersOption(t *testing.T) {
	m := buildMatrix(t, mirrorRatings())
	got, err := m.Correlate(context.Background(), "X", CorrelateOptions{MinCoRaters: 61})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("got %d correlations, want 0 when MinCoRaters exceeds users", len(got))
	}
}

func TestCorrelate_UnknownSeed(t *testing.T) {
	m := buildMatrix(t, mirrorRatings())
	got, err := m.Correlate(context.Background(), "Nope", CorrelateOptions{})
	if err != nil || got != nil {
		t.Errorf("Correlate(unknown) = %v, %v; want nil, nil", got, err)
	}
}

func TestCorrelate_WorkerCountIndependent(t *testing.T) {
	m := buildMatrix(t, mirrorRatings())
	ctx := context.Background()

	one, err := m.Correlate(ctx, "Z", CorrelateOptions{Workers: 1})
	if err != nil {
		t.Fatal(err)
	}
	many, err := m.Correlate(ctx, "Z", CorrelateOptions{Workers: 16})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(one, many) {
		t.Errorf("results differ by worker count: %v vs %v", one, many)
	}
}

func TestCorrelate_Cancelled(t *testing.T) {
	m := buildMatrix(t, mirrorRatings())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.Correlate(ctx, "X", CorrelateOptions{}); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestParallelRange_CoversAll(t *testing.T) {
	seen := make([]int, 103)
	err := parallelRange(context.Background(), len(seen), 7, func(start, end int) {
		for i := start; i < end; i++ {
			seen[i]++
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	for i, n := range seen {
		if n != 1 {
			t.Fatalf("slot %d visited %d times", i, n)
		}
	}
}
