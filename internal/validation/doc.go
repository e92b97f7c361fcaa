// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package validation validates API request structs with go-playground/validator.

A single validator instance is shared process-wide; it caches struct
metadata and is safe for concurrent use. Field names in messages come from
the struct's json tag so they match the query parameter the client sent.

# Custom Tags

  - title: non-blank, no control characters

# Example

	type RecommendRequest struct {
	    Title string `json:"title" validate:"required,max=512,title"`
	    K     int    `json:"k" validate:"min=0,max=100"`
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
	    apiErr := verr.ToAPIError()
	    // apiErr.Code == "VALIDATION_ERROR"
	}
*/
package validation
