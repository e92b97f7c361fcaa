// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package algorithms

import (
	"context"
	"sort"

	"github.com/tomtom215/cinematch/internal/catalog"
)

// RatingMatrix is a sparse user-by-title matrix. Each column stores only the
// users who rated that title, in ascending user order; a cell that is not
// stored is missing, never zero.
type RatingMatrix struct {
	// Titles are the column labels, sorted ascending.
	Titles []string

	// Users are the row labels (user IDs), sorted ascending.
	Users []int

	titleIndex map[string]int
	columns    []ratingColumn
}

type ratingColumn struct {
	users   []int32
	ratings []float64
}

type cell struct {
	title int
	user  int
	sum   float64
	n     int
}

// BuildRatingMatrix pivots joined ratings by user and title. When a user
// rated the same title more than once the cell holds the mean.
func BuildRatingMatrix(ctx context.Context, joined []catalog.JoinedRating) (*RatingMatrix, error) {
	if ContextCancelled(ctx) {
		return nil, ctx.Err()
	}

	titleSet := make(map[string]struct{})
	userSet := make(map[int]struct{})
	for i := range joined {
		titleSet[joined[i].Title] = struct{}{}
		userSet[joined[i].UserID] = struct{}{}
	}

	m := &RatingMatrix{
		Titles:     make([]string, 0, len(titleSet)),
		Users:      make([]int, 0, len(userSet)),
		titleIndex: make(map[string]int, len(titleSet)),
	}
	for t := range titleSet {
		m.Titles = append(m.Titles, t)
	}
	sort.Strings(m.Titles)
	for j, t := range m.Titles {
		m.titleIndex[t] = j
	}
	for u := range userSet {
		m.Users = append(m.Users, u)
	}
	sort.Ints(m.Users)
	userIndex := make(map[int]int, len(m.Users))
	for r, u := range m.Users {
		userIndex[u] = r
	}

	cells := make(map[[2]int]*cell, len(joined))
	for i := range joined {
		key := [2]int{m.titleIndex[joined[i].Title], userIndex[joined[i].UserID]}
		c, ok := cells[key]
		if !ok {
			c = &cell{title: key[0], user: key[1]}
			cells[key] = c
		}
		c.sum += joined[i].Rating.Rating
		c.n++
	}

	if ContextCancelled(ctx) {
		return nil, ctx.Err()
	}

	ordered := make([]*cell, 0, len(cells))
	for _, c := range cells {
		ordered = append(ordered, c)
	}
	sort.Slice(ordered, func(a, b int) bool {
		if ordered[a].title != ordered[b].title {
			return ordered[a].title < ordered[b].title
		}
		return ordered[a].user < ordered[b].user
	})

	m.columns = make([]ratingColumn, len(m.Titles))
	for _, c := range ordered {
		col := &m.columns[c.title]
		col.users = append(col.users, int32(c.user)) //nolint:gosec // user count fits in int32
		col.ratings = append(col.ratings, c.sum/float64(c.n))
	}
	return m, nil
}

// Has reports whether title is a column.
func (m *RatingMatrix) Has(title string) bool {
	_, ok := m.titleIndex[title]
	return ok
}

// Column returns the index of title, or -1.
func (m *RatingMatrix) Column(title string) int {
	if j, ok := m.titleIndex[title]; ok {
		return j
	}
	return -1
}

// Cell returns the rating of user at column j and whether it is present.
func (m *RatingMatrix) Cell(userID, j int) (float64, bool) {
	r := sort.SearchInts(m.Users, userID)
	if r == len(m.Users) || m.Users[r] != userID {
		return 0, false
	}
	col := &m.columns[j]
	k := sort.Search(len(col.users), func(k int) bool { return int(col.users[k]) >= r })
	if k == len(col.users) || int(col.users[k]) != r {
		return 0, false
	}
	return col.ratings[k], true
}

// ColumnSize returns the number of present cells in column j.
func (m *RatingMatrix) ColumnSize(j int) int {
	return len(m.columns[j].users)
}

// Cells returns the number of present cells.
func (m *RatingMatrix) Cells() int {
	n := 0
	for j := range m.columns {
		n += len(m.columns[j].users)
	}
	return n
}
