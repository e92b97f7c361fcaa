// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/tomtom215/cinematch/internal/catalog"
	"github.com/tomtom215/cinematch/internal/recommend/algorithms"
)

// Snapshot is the immutable result of one catalog load: the catalog, its
// genre similarity index, the user-item rating matrix and the selectable
// title list. All methods are safe for concurrent use.
type Snapshot struct {
	// Version increases with every installed snapshot.
	Version int64
	BuiltAt time.Time
	Source  string

	catalog    *catalog.Catalog
	genres     *algorithms.GenreIndex
	ratings    *algorithms.RatingMatrix
	titleRow   map[string]int
	selectable []string
	users      int

	minRatingCount int
	correlate      algorithms.CorrelateOptions
	buildDuration  time.Duration
}

// BuildSnapshot precomputes everything queries need from cat.
func BuildSnapshot(ctx context.Context, cat *catalog.Catalog, cfg *Config) (*Snapshot, error) {
	start := time.Now()

	genres, err := algorithms.BuildGenreIndex(ctx, cat.Movies, cfg.genreIndexConfig())
	if err != nil {
		return nil, err
	}
	ratings, err := algorithms.BuildRatingMatrix(ctx, cat.Joined)
	if err != nil {
		return nil, fmt.Errorf("build rating matrix: %w", err)
	}

	// The first catalog row wins when a title repeats.
	titleRow := make(map[string]int, len(cat.Movies))
	for i := range cat.Movies {
		if _, ok := titleRow[cat.Movies[i].Title]; !ok {
			titleRow[cat.Movies[i].Title] = i
		}
	}

	return &Snapshot{
		BuiltAt:        time.Now().UTC(),
		catalog:        cat,
		genres:         genres,
		ratings:        ratings,
		titleRow:       titleRow,
		selectable:     cat.Popular(cfg.MinRatingCount),
		users:          len(ratings.Users),
		minRatingCount: cfg.MinRatingCount,
		correlate:      cfg.correlateOptions(),
		buildDuration:  time.Since(start),
	}, nil
}

// ContentRecommendations returns up to k titles most similar in genre to
// title, best first. Ties keep catalog order. The seed title is never
// returned. An unknown title or k <= 0 yields an empty list.
func (s *Snapshot) ContentRecommendations(title string, k int) []Recommendation {
	recs := []Recommendation{}
	if k <= 0 {
		return recs
	}
	row, ok := s.titleRow[title]
	if !ok {
		return recs
	}

	movies := s.catalog.Movies
	ranked := s.genres.Ranked(row, func(j int) bool {
		return movies[j].Title != title
	})
	for _, r := range ranked {
		if len(recs) == k {
			break
		}
		recs = append(recs, Recommendation{Title: movies[r.Index].Title, Score: r.Score})
	}
	return recs
}

// CollaborativeRecommendations returns up to k popular titles whose rating
// pattern correlates best with title's, best first. Ties are ordered by
// title. The seed title is never returned. The error is non-nil only when
// ctx is done.
func (s *Snapshot) CollaborativeRecommendations(ctx context.Context, title string, k int) ([]Recommendation, error) {
	recs := []Recommendation{}
	if k <= 0 || !s.ratings.Has(title) {
		return recs, nil
	}

	corrs, err := s.ratings.Correlate(ctx, title, s.correlate)
	if err != nil {
		return nil, err
	}

	kept := corrs[:0]
	for _, c := range corrs {
		if c.Title == title {
			continue
		}
		if st, ok := s.catalog.Stats[c.Title]; !ok || st.Count <= s.minRatingCount {
			continue
		}
		kept = append(kept, c)
	}

	// Correlations arrive in title order, so a stable sort breaks ties by title.
	sort.SliceStable(kept, func(a, b int) bool {
		return kept[a].Value > kept[b].Value
	})

	for _, c := range kept {
		if len(recs) == k {
			break
		}
		recs = append(recs, Recommendation{Title: c.Title, Score: c.Value})
	}
	return recs, nil
}

// SelectableTitles returns the sorted titles with more than the configured
// minimum number of ratings.
func (s *Snapshot) SelectableTitles() []string {
	out := make([]string, len(s.selectable))
	copy(out, s.selectable)
	return out
}

// Stats returns the rating statistics of title.
func (s *Snapshot) Stats(title string) (catalog.TitleStats, bool) {
	st, ok := s.catalog.Stats[title]
	return st, ok
}

// Movie returns the first catalog movie carrying title.
func (s *Snapshot) Movie(title string) (catalog.Movie, bool) {
	row, ok := s.titleRow[title]
	if !ok {
		return catalog.Movie{}, false
	}
	return s.catalog.Movies[row], true
}

// Catalog returns the underlying catalog. Callers must not modify it.
func (s *Snapshot) Catalog() *catalog.Catalog {
	return s.catalog
}

// Genres returns the sorted genre universe.
func (s *Snapshot) Genres() []string {
	out := make([]string, len(s.genres.Genres))
	copy(out, s.genres.Genres)
	return out
}

// Info summarizes the snapshot.
func (s *Snapshot) Info() ReloadInfo {
	return ReloadInfo{
		Version:    s.Version,
		Source:     s.Source,
		Movies:     len(s.catalog.Movies),
		Ratings:    len(s.catalog.Ratings),
		Titles:     s.catalog.TitleCount(),
		Users:      s.users,
		Genres:     len(s.genres.Genres),
		Selectable: len(s.selectable),
		Duration:   s.buildDuration,
		BuiltAt:    s.BuiltAt,
	}
}
