// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"net/http"

	"github.com/tomtom215/cinematch/internal/validation"
)

// MovieStats is the body of GET /movies/stats.
type MovieStats struct {
	Title string  `json:"title"`
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
}

// Movies lists the selectable titles: those rated often enough to seed
// collaborative recommendations, sorted by title.
func (h *Handler) Movies(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	limit, err := intParam(r, "limit", h.config.API.DefaultPageSize)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}
	offset, err := intParam(r, "offset", 0)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}
	req := MovieListRequest{Limit: limit, Offset: offset}
	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.ValidationError(verr)
		return
	}
	if req.Limit > h.config.API.MaxPageSize {
		req.Limit = h.config.API.MaxPageSize
	}

	titles, err := h.engine.Selectable()
	if err != nil {
		writeEngineError(rw, r, err)
		return
	}

	total := len(titles)
	start := min(req.Offset, total)
	end := min(start+req.Limit, total)
	page := titles[start:end]

	rw.SuccessWithPagination(page, &PaginationMeta{
		Total:   total,
		Count:   len(page),
		Offset:  req.Offset,
		Limit:   req.Limit,
		HasMore: end < total,
	})
}

// MovieStatsByTitle returns the rating count and mean of one title. Titles
// without ratings answer 404.
func (h *Handler) MovieStatsByTitle(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	req := StatsRequest{Title: r.URL.Query().Get("title")}
	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.ValidationError(verr)
		return
	}

	st, ok, err := h.engine.Stats(req.Title)
	if err != nil {
		writeEngineError(rw, r, err)
		return
	}
	if !ok {
		rw.NotFound("No ratings found for this title")
		return
	}
	rw.Success(MovieStats{Title: req.Title, Count: st.Count, Mean: st.Mean})
}
