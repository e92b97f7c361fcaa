// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package database

import (
	"context"
	"fmt"
)

// Genres are stored pipe-joined as in the source CSV.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS movies (
		position BIGINT NOT NULL,
		movie_id BIGINT NOT NULL,
		title    VARCHAR NOT NULL,
		genres   VARCHAR NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ratings (
		position  BIGINT NOT NULL,
		user_id   BIGINT NOT NULL,
		movie_id  BIGINT NOT NULL,
		rating    DOUBLE NOT NULL,
		timestamp BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS imports (
		imported_at TIMESTAMP NOT NULL DEFAULT current_timestamp,
		origin      VARCHAR NOT NULL,
		movies      BIGINT NOT NULL,
		ratings     BIGINT NOT NULL
	)`,
}

func (db *DB) createTables(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}
