// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingColumn is returned when a required header column is absent.
	ErrMissingColumn = errors.New("missing required column")

	// ErrMalformedRow is returned when a row cannot be parsed.
	ErrMalformedRow = errors.New("malformed row")

	// ErrNoSource is returned by Load when no Source is configured.
	ErrNoSource = errors.New("no catalog source configured")
)

// ParseError describes a single unparseable CSV cell or row.
type ParseError struct {
	File   string
	Line   int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
	}
	return fmt.Sprintf("%s:%d: column %q: %v", e.File, e.Line, e.Column, e.Err)
}

// Unwrap lets errors.Is match ErrMalformedRow and the underlying cause.
func (e *ParseError) Unwrap() []error {
	return []error{ErrMalformedRow, e.Err}
}
