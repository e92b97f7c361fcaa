// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package algorithms

// SimilarityMatrix is a symmetric n-by-n matrix stored as its packed upper
// triangle, diagonal included.
type SimilarityMatrix struct {
	n    int
	data []float32
}

// NewSimilarityMatrix allocates a zeroed n-by-n matrix.
func NewSimilarityMatrix(n int) *SimilarityMatrix {
	if n < 0 {
		n = 0
	}
	return &SimilarityMatrix{n: n, data: make([]float32, n*(n+1)/2)}
}

// Size returns n.
func (m *SimilarityMatrix) Size() int {
	return m.n
}

// rowOffset is the index of element (i, i).
func (m *SimilarityMatrix) rowOffset(i int) int {
	return i*m.n - i*(i-1)/2
}

func (m *SimilarityMatrix) index(i, j int) int {
	if i > j {
		i, j = j, i
	}
	return m.rowOffset(i) + (j - i)
}

// At returns element (i, j). At(i, j) == At(j, i).
func (m *SimilarityMatrix) At(i, j int) float64 {
	return float64(m.data[m.index(i, j)])
}

// Set stores v at (i, j) and (j, i).
func (m *SimilarityMatrix) Set(i, j int, v float64) {
	m.data[m.index(i, j)] = float32(v)
}

// upperRow returns the writable slice holding (i, i) .. (i, n-1).
func (m *SimilarityMatrix) upperRow(i int) []float32 {
	off := m.rowOffset(i)
	return m.data[off : off+m.n-i]
}

// Row copies row i into dst, growing it if needed, and returns it.
func (m *SimilarityMatrix) Row(i int, dst []float64) []float64 {
	if cap(dst) < m.n {
		dst = make([]float64, m.n)
	}
	dst = dst[:m.n]
	for j := 0; j < i; j++ {
		dst[j] = m.At(j, i)
	}
	for k, v := range m.upperRow(i) {
		dst[i+k] = float64(v)
	}
	return dst
}
