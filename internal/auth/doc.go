// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package auth guards administrative endpoints with HS256 bearer tokens.

Only one operation needs protection, POST /api/v1/catalog/reload. Tokens are
signed with security.admin_jwt_secret and must carry the admin role. When no
secret is configured the API mounts the route without this middleware.

Usage:

	jwtManager, err := auth.NewJWTManager(cfg.Security.AdminJWTSecret, 24*time.Hour)
	if err != nil {
	    return err
	}
	mw := auth.NewMiddleware(jwtManager)
	r.With(mw.RequireAdmin).Post("/catalog/reload", h.ReloadCatalog)

	// Minting a token for operators:
	token, _ := jwtManager.GenerateToken("ops", auth.RoleAdmin)
*/
package auth
