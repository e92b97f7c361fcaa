// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package catalog

import "sort"

// Movie is one row of the movies table.
type Movie struct {
	ID     int      `json:"id"`
	Title  string   `json:"title"`
	Genres []string `json:"genres"`
}

// HasGenre reports whether the movie carries the given genre label.
func (m *Movie) HasGenre(genre string) bool {
	for _, g := range m.Genres {
		if g == genre {
			return true
		}
	}
	return false
}

// Rating is one row of the ratings table. Timestamp is carried but unused by
// the scoring code.
type Rating struct {
	UserID    int     `json:"user_id"`
	MovieID   int     `json:"movie_id"`
	Rating    float64 `json:"rating"`
	Timestamp int64   `json:"timestamp"`
}

// JoinedRating is a Rating widened with its movie's title and genres.
type JoinedRating struct {
	Rating
	Title  string   `json:"title"`
	Genres []string `json:"genres"`
}

// TitleStats holds the rating count and mean for one title.
type TitleStats struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
}

// Dataset is the raw output of a Source before joining.
type Dataset struct {
	Movies  []Movie
	Ratings []Rating
}

// Catalog is the joined, aggregated view of a Dataset. It is never mutated
// after Load returns.
type Catalog struct {
	Movies  []Movie
	Ratings []Rating
	Joined  []JoinedRating

	// Stats maps title to its statistics. A title is absent iff it has no
	// joined ratings.
	Stats map[string]TitleStats
}

// TitleCount returns the number of distinct titles with at least one rating.
func (c *Catalog) TitleCount() int {
	return len(c.Stats)
}

// UserCount returns the number of distinct users in the joined table.
func (c *Catalog) UserCount() int {
	seen := make(map[int]struct{})
	for i := range c.Joined {
		seen[c.Joined[i].UserID] = struct{}{}
	}
	return len(seen)
}

// Popular returns the titles whose rating count is strictly greater than
// minCount, sorted ascending.
func (c *Catalog) Popular(minCount int) []string {
	titles := make([]string, 0)
	for title, st := range c.Stats {
		if st.Count > minCount {
			titles = append(titles, title)
		}
	}
	sort.Strings(titles)
	return titles
}
