// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/cinematch/internal/validation"
)

// sanitizeLogValue removes control characters from strings to prevent log
// injection.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// routePattern returns the matched chi pattern, keeping metric label
// cardinality bounded.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// intParam extracts an integer query parameter. A missing parameter yields
// def; a malformed one is reported so the caller can answer 400.
func intParam(r *http.Request, key string, def int) (int, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return def, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return n, nil
}

// RecommendRequest holds the query parameters of the recommendation endpoints.
// A missing or blank title is not an error: it matches no movie and yields
// an empty list with the mode's message.
type RecommendRequest struct {
	Title string `json:"title" validate:"max=512,nocontrol"`
	K     int    `json:"k" validate:"min=0"`
}

// MovieListRequest holds the paging parameters of GET /movies.
type MovieListRequest struct {
	Limit  int `json:"limit" validate:"min=1"`
	Offset int `json:"offset" validate:"min=0"`
}

// StatsRequest holds the query parameters of GET /movies/stats.
type StatsRequest struct {
	Title string `json:"title" validate:"required,max=512,title"`
}

// parseRecommendRequest reads title and k, applying the configured default
// and upper bound for k. It writes the error response itself and returns
// false when the request is invalid.
func (h *Handler) parseRecommendRequest(rw *ResponseWriter, r *http.Request) (RecommendRequest, bool) {
	k, err := intParam(r, "k", h.config.Recommend.DefaultK)
	if err != nil {
		rw.BadRequest(err.Error())
		return RecommendRequest{}, false
	}
	req := RecommendRequest{
		Title: r.URL.Query().Get("title"),
		K:     k,
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.ValidationError(verr)
		return RecommendRequest{}, false
	}
	if maxK := h.config.Recommend.MaxK; req.K > maxK {
		rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeValidationFailed,
			fmt.Sprintf("k must be at most %d", maxK),
			map[string]interface{}{"field": "k", "tag": "max", "value": req.K})
		return RecommendRequest{}, false
	}
	return req, true
}
