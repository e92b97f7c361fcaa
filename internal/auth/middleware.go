// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/tomtom215/cinematch/internal/logging"
)

type contextKey string

// ClaimsContextKey holds the validated *Claims on the request context.
const ClaimsContextKey contextKey = "claims"

// Error codes passed to DenyFunc.
const (
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
)

// DenyFunc writes a rejection response.
type DenyFunc func(w http.ResponseWriter, r *http.Request, status int, code, message string)

// Middleware enforces bearer-token authentication.
type Middleware struct {
	jwtManager *JWTManager
	deny       DenyFunc
}

// NewMiddleware creates auth middleware. Rejections use http.Error until
// SetDenyFunc installs a JSON writer.
func NewMiddleware(jwtManager *JWTManager) *Middleware {
	return &Middleware{
		jwtManager: jwtManager,
		deny: func(w http.ResponseWriter, _ *http.Request, status int, _, message string) {
			http.Error(w, message, status)
		},
	}
}

// SetDenyFunc replaces the rejection writer.
func (m *Middleware) SetDenyFunc(fn DenyFunc) {
	if fn != nil {
		m.deny = fn
	}
}

// Authenticate validates the bearer token and stores its claims in the context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			w.Header().Set("WWW-Authenticate", `Bearer realm="cinematch"`)
			m.deny(w, r, http.StatusUnauthorized, CodeUnauthorized, "missing or malformed bearer token")
			return
		}

		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("Token validation failed")
			w.Header().Set("WWW-Authenticate", `Bearer realm="cinematch", error="invalid_token"`)
			m.deny(w, r, http.StatusUnauthorized, CodeUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin authenticates the request and requires the admin role.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok || claims.Role != RoleAdmin {
			m.deny(w, r, http.StatusForbidden, CodeForbidden, "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// ClaimsFromContext returns the claims stored by Authenticate.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	return claims, ok
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
