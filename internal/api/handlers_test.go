// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/auth"
	"github.com/tomtom215/cinematch/internal/catalog"
	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/recommend"
)

// testDataset: A/B/C for genre checks; 60 users rate X and Y identically and
// Z inversely; R is rated by only five users.
func testDataset() *catalog.Dataset {
	movies := []catalog.Movie{
		{ID: 1, Title: "A", Genres: []string{"Comedy"}},
		{ID: 2, Title: "B", Genres: []string{"Comedy"}},
		{ID: 3, Title: "C", Genres: []string{"Action"}},
		{ID: 10, Title: "X", Genres: []string{"Drama"}},
		{ID: 11, Title: "Y", Genres: []string{"Drama", "Romance"}},
		{ID: 12, Title: "Z", Genres: []string{"Horror"}},
		{ID: 13, Title: "R", Genres: []string{"Drama"}},
	}

	var ratings []catalog.Rating
	for u := 1; u <= 60; u++ {
		r := float64(1 + u%5)
		ratings = append(ratings,
			catalog.Rating{UserID: u, MovieID: 10, Rating: r},
			catalog.Rating{UserID: u, MovieID: 11, Rating: r},
			catalog.Rating{UserID: u, MovieID: 12, Rating: 6 - r},
		)
		if u <= 5 {
			ratings = append(ratings, catalog.Rating{UserID: u, MovieID: 13, Rating: r})
		}
	}
	return &catalog.Dataset{Movies: movies, Ratings: ratings}
}

type testServer struct {
	engine  *recommend.Engine
	handler http.Handler
	cfg     *config.Config
}

type serverOption func(*config.Config)

func newTestServer(t *testing.T, loaded bool, opts ...serverOption) *testServer {
	t.Helper()

	cfg := config.Defaults()
	cfg.Security.RateLimitDisabled = true
	for _, opt := range opts {
		opt(cfg)
	}

	engine, err := recommend.NewEngine(cfg.EngineConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	engine.SetSource(catalog.StaticSource{Data: testDataset()})
	if loaded {
		if err := engine.Reload(context.Background()); err != nil {
			t.Fatalf("Reload() error = %v", err)
		}
	}

	var authMW *auth.Middleware
	if cfg.AdminAuthEnabled() {
		m, err := auth.NewJWTManager(cfg.Security.AdminJWTSecret, 0)
		if err != nil {
			t.Fatalf("NewJWTManager() error = %v", err)
		}
		authMW = auth.NewMiddleware(m)
	}

	h := NewHandler(engine, engine, cfg)
	router := NewRouter(h, NewChiMiddleware(ChiMiddlewareConfigFrom(&cfg.Security)), authMW)
	return &testServer{engine: engine, handler: router.SetupChi(), cfg: cfg}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

func (s *testServer) do(t *testing.T, method, target string, header http.Header) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: invalid JSON body %q: %v", method, target, rec.Body.String(), err)
	}
	return rec, env
}

func decodeData(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
}

func recommendPath(path, title string, k string) string {
	q := url.Values{}
	if title != "" {
		q.Set("title", title)
	}
	if k != "" {
		q.Set("k", k)
	}
	return path + "?" + q.Encode()
}

func TestHealth(t *testing.T) {
	t.Run("live before load", func(t *testing.T) {
		s := newTestServer(t, false)
		rec, env := s.do(t, http.MethodGet, "/api/v1/health/live", nil)
		if rec.Code != http.StatusOK || !env.Success {
			t.Fatalf("live = %d success=%v, want 200", rec.Code, env.Success)
		}
	})

	t.Run("ready before load", func(t *testing.T) {
		s := newTestServer(t, false)
		rec, env := s.do(t, http.MethodGet, "/api/v1/health/ready", nil)
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("ready = %d, want 503", rec.Code)
		}
		if env.Error == nil || env.Error.Code != ErrCodeServiceUnavailable {
			t.Errorf("error = %+v, want %s", env.Error, ErrCodeServiceUnavailable)
		}
	})

	t.Run("ready after load", func(t *testing.T) {
		s := newTestServer(t, true)
		rec, env := s.do(t, http.MethodGet, "/api/v1/health/ready", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("ready = %d, want 200", rec.Code)
		}
		var hs HealthStatus
		decodeData(t, env, &hs)
		if !hs.CatalogLoaded || hs.CatalogVersion != 1 {
			t.Errorf("health = %+v, want loaded version 1", hs)
		}
	})
}

func TestMovies(t *testing.T) {
	s := newTestServer(t, true)

	tests := []struct {
		name        string
		query       string
		wantStatus  int
		wantTitles  []string
		wantHasMore bool
	}{
		{"all", "", http.StatusOK, []string{"X", "Y", "Z"}, false},
		{"first page", "?limit=1", http.StatusOK, []string{"X"}, true},
		{"offset", "?limit=2&offset=1", http.StatusOK, []string{"Y", "Z"}, false},
		{"offset past end", "?offset=10", http.StatusOK, []string{}, false},
		{"bad limit", "?limit=abc", http.StatusBadRequest, nil, false},
		{"zero limit", "?limit=0", http.StatusBadRequest, nil, false},
		{"negative offset", "?offset=-1", http.StatusBadRequest, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := s.do(t, http.MethodGet, "/api/v1/movies"+tt.query, nil)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				if env.Success || env.Error == nil {
					t.Errorf("expected error envelope, got %+v", env)
				}
				return
			}

			var titles []string
			decodeData(t, env, &titles)
			if len(titles) != len(tt.wantTitles) {
				t.Fatalf("titles = %v, want %v", titles, tt.wantTitles)
			}
			for i := range titles {
				if titles[i] != tt.wantTitles[i] {
					t.Errorf("titles[%d] = %q, want %q", i, titles[i], tt.wantTitles[i])
				}
			}
			if env.Meta == nil || env.Meta.Pagination == nil {
				t.Fatal("missing pagination meta")
			}
			if env.Meta.Pagination.Total != 3 {
				t.Errorf("total = %d, want 3", env.Meta.Pagination.Total)
			}
			if env.Meta.Pagination.HasMore != tt.wantHasMore {
				t.Errorf("has_more = %v, want %v", env.Meta.Pagination.HasMore, tt.wantHasMore)
			}
		})
	}
}

func TestMoviesNotLoaded(t *testing.T) {
	s := newTestServer(t, false)
	rec, _ := s.do(t, http.MethodGet, "/api/v1/movies", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestMovieStats(t *testing.T) {
	s := newTestServer(t, true)

	t.Run("rated title", func(t *testing.T) {
		rec, env := s.do(t, http.MethodGet, recommendPath("/api/v1/movies/stats", "R", ""), nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var st MovieStats
		decodeData(t, env, &st)
		if st.Title != "R" || st.Count != 5 {
			t.Errorf("stats = %+v, want R with 5 ratings", st)
		}
	})

	t.Run("unrated title", func(t *testing.T) {
		rec, env := s.do(t, http.MethodGet, recommendPath("/api/v1/movies/stats", "C", ""), nil)
		if rec.Code != http.StatusNotFound || env.Error.Code != ErrCodeNotFound {
			t.Errorf("status = %d error=%+v, want 404 NOT_FOUND", rec.Code, env.Error)
		}
	})

	t.Run("missing title", func(t *testing.T) {
		rec, env := s.do(t, http.MethodGet, "/api/v1/movies/stats", nil)
		if rec.Code != http.StatusBadRequest || env.Error.Code != ErrCodeValidationFailed {
			t.Errorf("status = %d error=%+v, want 400 %s", rec.Code, env.Error, ErrCodeValidationFailed)
		}
	})
}

func TestContentRecommendations(t *testing.T) {
	s := newTestServer(t, true)

	rec, env := s.do(t, http.MethodGet, recommendPath("/api/v1/recommendations/content", "A", "2"), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	var resp recommend.Response
	decodeData(t, env, &resp)

	got := recommend.Titles(resp.Items)
	want := []string{"B", "C"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("content(A, 2) = %v, want %v", got, want)
	}
	if resp.Mode != recommend.ModeContent || resp.Metadata.K != 2 {
		t.Errorf("mode=%q k=%d, want content 2", resp.Mode, resp.Metadata.K)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID response header")
	}
	if env.Meta == nil || env.Meta.RequestID != rec.Header().Get("X-Request-ID") {
		t.Errorf("meta request_id = %+v, want header value", env.Meta)
	}
}

func TestCollaborativeRecommendations(t *testing.T) {
	s := newTestServer(t, true)

	rec, env := s.do(t, http.MethodGet, recommendPath("/api/v1/recommendations/collaborative", "X", "5"), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	var resp recommend.Response
	decodeData(t, env, &resp)

	got := recommend.Titles(resp.Items)
	if len(got) == 0 || got[0] != "Y" {
		t.Fatalf("collaborative(X) = %v, want Y first", got)
	}
	for _, title := range got {
		if title == "X" {
			t.Error("seed title returned")
		}
		if title == "R" {
			t.Error("title with too few ratings returned")
		}
	}
}

func TestRecommendationEdgeCases(t *testing.T) {
	s := newTestServer(t, true)

	tests := []struct {
		name        string
		path        string
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:        "unknown title content",
			path:        recommendPath("/api/v1/recommendations/content", "Nope", ""),
			wantStatus:  http.StatusOK,
			wantMessage: recommend.MessageNoContentData,
		},
		{
			name:        "unknown title collaborative",
			path:        recommendPath("/api/v1/recommendations/collaborative", "Nope", ""),
			wantStatus:  http.StatusOK,
			wantMessage: recommend.MessageNoCollaborativeData,
		},
		{
			name:        "k zero",
			path:        recommendPath("/api/v1/recommendations/content", "A", "0"),
			wantStatus:  http.StatusOK,
			wantMessage: recommend.MessageNoContentData,
		},
		{
			name:       "k negative",
			path:       recommendPath("/api/v1/recommendations/content", "A", "-1"),
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeValidationFailed,
		},
		{
			name:       "k above max",
			path:       recommendPath("/api/v1/recommendations/content", "A", "101"),
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeValidationFailed,
		},
		{
			name:       "k not a number",
			path:       recommendPath("/api/v1/recommendations/content", "A", "many"),
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeBadRequest,
		},
		{
			name:        "missing title",
			path:        "/api/v1/recommendations/content",
			wantStatus:  http.StatusOK,
			wantMessage: recommend.MessageNoContentData,
		},
		{
			name:        "blank title",
			path:        recommendPath("/api/v1/recommendations/content", "   ", ""),
			wantStatus:  http.StatusOK,
			wantMessage: recommend.MessageNoContentData,
		},
		{
			name:        "blank title collaborative",
			path:        recommendPath("/api/v1/recommendations/collaborative", "   ", ""),
			wantStatus:  http.StatusOK,
			wantMessage: recommend.MessageNoCollaborativeData,
		},
		{
			name:       "control character in title",
			path:       recommendPath("/api/v1/recommendations/content", "A\x01", ""),
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := s.do(t, http.MethodGet, tt.path, nil)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantCode != "" {
				if env.Error == nil || env.Error.Code != tt.wantCode {
					t.Errorf("error = %+v, want code %s", env.Error, tt.wantCode)
				}
				return
			}
			var resp recommend.Response
			decodeData(t, env, &resp)
			if len(resp.Items) != 0 {
				t.Errorf("items = %v, want none", resp.Items)
			}
			if resp.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", resp.Message, tt.wantMessage)
			}
		})
	}
}

func TestCombinedRecommendations(t *testing.T) {
	s := newTestServer(t, true)

	rec, env := s.do(t, http.MethodGet, recommendPath("/api/v1/recommendations", "X", "1"), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	var out CombinedRecommendations
	decodeData(t, env, &out)

	if out.Title != "X" || out.K != 1 {
		t.Errorf("title=%q k=%d, want X 1", out.Title, out.K)
	}
	if out.Content == nil || out.Collaborative == nil {
		t.Fatalf("missing list: %+v", out)
	}
	if len(out.Content.Items) != 1 || len(out.Collaborative.Items) != 1 {
		t.Errorf("lengths = %d/%d, want 1/1", len(out.Content.Items), len(out.Collaborative.Items))
	}
	if out.Collaborative.Items[0].Title != "Y" {
		t.Errorf("collaborative = %v, want [Y]", out.Collaborative.Items)
	}
}

func TestRecommendationsNotLoaded(t *testing.T) {
	s := newTestServer(t, false)
	rec, env := s.do(t, http.MethodGet, recommendPath("/api/v1/recommendations/content", "A", ""), nil)
	if rec.Code != http.StatusServiceUnavailable || env.Error.Code != ErrCodeServiceUnavailable {
		t.Errorf("status = %d error=%+v, want 503", rec.Code, env.Error)
	}
}

func TestCatalogStatus(t *testing.T) {
	s := newTestServer(t, true)

	rec, env := s.do(t, http.MethodGet, "/api/v1/catalog/status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var st CatalogStatus
	decodeData(t, env, &st)
	if !st.Loaded || st.Snapshot.Version != 1 {
		t.Errorf("status = %+v, want loaded version 1", st.Status)
	}
	if st.Snapshot.Movies != 7 || st.Snapshot.Selectable != 3 {
		t.Errorf("movies=%d selectable=%d, want 7 and 3", st.Snapshot.Movies, st.Snapshot.Selectable)
	}
}

func TestCatalogReloadOpen(t *testing.T) {
	s := newTestServer(t, false)

	rec, env := s.do(t, http.MethodPost, "/api/v1/catalog/reload", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	var st recommend.Status
	decodeData(t, env, &st)
	if !st.Loaded || st.Snapshot.Version != 1 {
		t.Errorf("status = %+v, want loaded version 1", st)
	}
	if !s.engine.Ready() {
		t.Error("engine not ready after reload")
	}
}

func TestCatalogReloadAuth(t *testing.T) {
	const secret = "0123456789abcdef0123456789abcdef"
	s := newTestServer(t, true, func(c *config.Config) {
		c.Security.AdminJWTSecret = secret
	})

	m, err := auth.NewJWTManager(secret, 0)
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	adminToken, err := m.GenerateToken("ops", auth.RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	viewerToken, err := m.GenerateToken("viewer", "viewer")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCode   string
	}{
		{"no token", "", http.StatusUnauthorized, auth.CodeUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized, auth.CodeUnauthorized},
		{"not admin", "Bearer " + viewerToken, http.StatusForbidden, auth.CodeForbidden},
		{"admin", "Bearer " + adminToken, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.header != "" {
				header.Set("Authorization", tt.header)
			}
			rec, env := s.do(t, http.MethodPost, "/api/v1/catalog/reload", header)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantCode != "" && (env.Error == nil || env.Error.Code != tt.wantCode) {
				t.Errorf("error = %+v, want code %s", env.Error, tt.wantCode)
			}
		})
	}

	if v := s.engine.Status().Snapshot.Version; v != 2 {
		t.Errorf("version = %d, want 2 after one authorized reload", v)
	}
}

type stubReloader struct{ err error }

func (s stubReloader) Reload(context.Context) error { return s.err }

func TestCatalogReloadErrors(t *testing.T) {
	tests := []struct {
		name       string
		reloader   Reloader
		wantStatus int
		wantCode   string
	}{
		{"no reloader", nil, http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
		{"in progress", stubReloader{recommend.ErrReloadInProgress}, http.StatusConflict, ErrCodeConflict},
		{"no source", stubReloader{catalog.ErrNoSource}, http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
		{"timeout", stubReloader{context.DeadlineExceeded}, http.StatusGatewayTimeout, ErrCodeTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := newTestServer(t, true)
			h := NewHandler(base.engine, tt.reloader, base.cfg)
			s := &testServer{engine: base.engine, cfg: base.cfg, handler: NewRouter(h, nil, nil).SetupChi()}

			rec, env := s.do(t, http.MethodPost, "/api/v1/catalog/reload", nil)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if env.Error == nil || env.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want %s", env.Error, tt.wantCode)
			}
		})
	}
}

func TestNotFoundAndMethod(t *testing.T) {
	s := newTestServer(t, true)

	rec, env := s.do(t, http.MethodGet, "/api/v1/nope", nil)
	if rec.Code != http.StatusNotFound || env.Error.Code != ErrCodeNotFound {
		t.Errorf("unknown route = %d %+v, want 404", rec.Code, env.Error)
	}

	rec, _ = s.do(t, http.MethodGet, "/api/v1/catalog/reload", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET reload = %d, want 405", rec.Code)
	}
}
