// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package algorithms

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// DefaultMinCoRaters is the smallest number of co-rating users for which a
// Pearson correlation is defined.
const DefaultMinCoRaters = 2

// CorrelateOptions controls Correlate.
type CorrelateOptions struct {
	// MinCoRaters drops columns sharing fewer raters with the seed.
	MinCoRaters int

	// Workers is the number of goroutines scanning columns.
	Workers int
}

// Correlation is the Pearson correlation between the seed column and
// column Index.
type Correlation struct {
	Index    int
	Title    string
	Value    float64
	CoRaters int
}

// Correlate computes the Pearson correlation of the seed title's column with
// every column, the seed's own included, using only users present in both.
// Columns with fewer than MinCoRaters co-raters or an undefined correlation
// are omitted. The result is in column order. An unknown seed yields nil.
func (m *RatingMatrix) Correlate(ctx context.Context, seed string, opts CorrelateOptions) ([]Correlation, error) {
	s := m.Column(seed)
	if s < 0 {
		return nil, nil
	}
	minCo := opts.MinCoRaters
	if minCo < DefaultMinCoRaters {
		minCo = DefaultMinCoRaters
	}

	// Dense lookup of the seed column by user row.
	seedVal := make([]float64, len(m.Users))
	seedHas := make([]bool, len(m.Users))
	seedCol := &m.columns[s]
	for k, u := range seedCol.users {
		seedVal[u] = seedCol.ratings[k]
		seedHas[u] = true
	}

	results := make([]Correlation, len(m.columns))
	valid := make([]bool, len(m.columns))

	err := parallelRange(ctx, len(m.columns), opts.Workers, func(start, end int) {
		xs := make([]float64, 0, len(seedCol.users))
		ys := make([]float64, 0, len(seedCol.users))
		for j := start; j < end; j++ {
			if ContextCancelled(ctx) {
				return
			}
			xs, ys = xs[:0], ys[:0]
			col := &m.columns[j]
			for k, u := range col.users {
				if seedHas[u] {
					xs = append(xs, seedVal[u])
					ys = append(ys, col.ratings[k])
				}
			}
			if len(xs) < minCo {
				continue
			}
			c := stat.Correlation(xs, ys, nil)
			if math.IsNaN(c) || math.IsInf(c, 0) {
				continue
			}
			results[j] = Correlation{Index: j, Title: m.Titles[j], Value: c, CoRaters: len(xs)}
			valid[j] = true
		}
	})
	if err != nil {
		return nil, fmt.Errorf("correlate %q: %w", seed, err)
	}

	out := make([]Correlation, 0, len(results))
	for j := range results {
		if valid[j] {
			out = append(out, results[j])
		}
	}
	return out, nil
}
