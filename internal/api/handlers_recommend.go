// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"net/http"

	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/middleware"
	"github.com/tomtom215/cinematch/internal/recommend"
)

// CombinedRecommendations is the body of GET /recommendations: both lists
// for the same seed, side by side.
type CombinedRecommendations struct {
	Title         string              `json:"title"`
	K             int                 `json:"k"`
	Content       *recommend.Response `json:"content"`
	Collaborative *recommend.Response `json:"collaborative"`
}

// ContentRecommendations handles GET /recommendations/content.
func (h *Handler) ContentRecommendations(w http.ResponseWriter, r *http.Request) {
	h.recommend(w, r, recommend.ModeContent)
}

// CollaborativeRecommendations handles GET /recommendations/collaborative.
func (h *Handler) CollaborativeRecommendations(w http.ResponseWriter, r *http.Request) {
	h.recommend(w, r, recommend.ModeCollaborative)
}

func (h *Handler) recommend(w http.ResponseWriter, r *http.Request, mode recommend.Mode) {
	rw := NewResponseWriter(w, r)
	req, ok := h.parseRecommendRequest(rw, r)
	if !ok {
		return
	}

	resp, err := h.engine.Recommend(r.Context(), recommend.Request{
		Title:     req.Title,
		K:         req.K,
		Mode:      mode,
		RequestID: middleware.GetRequestID(r),
	})
	if err != nil {
		writeEngineError(rw, r, err)
		return
	}
	rw.Success(resp)
}

// Recommendations handles GET /recommendations and returns the content and
// collaborative lists for the same seed title.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	req, ok := h.parseRecommendRequest(rw, r)
	if !ok {
		return
	}

	out := CombinedRecommendations{Title: req.Title, K: req.K}
	requestID := middleware.GetRequestID(r)
	for _, mode := range []recommend.Mode{recommend.ModeContent, recommend.ModeCollaborative} {
		resp, err := h.engine.Recommend(r.Context(), recommend.Request{
			Title:     req.Title,
			K:         req.K,
			Mode:      mode,
			RequestID: requestID,
		})
		if err != nil {
			writeEngineError(rw, r, err)
			return
		}
		if mode == recommend.ModeContent {
			out.Content = resp
		} else {
			out.Collaborative = resp
		}
	}

	logging.Ctx(r.Context()).Debug().
		Str("title", sanitizeLogValue(req.Title)).
		Int("content", len(out.Content.Items)).
		Int("collaborative", len(out.Collaborative.Items)).
		Msg("Served combined recommendations")
	rw.Success(out)
}
