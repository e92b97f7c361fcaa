// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/tomtom215/cinematch/internal/catalog"
	"github.com/tomtom215/cinematch/internal/logging"
)

// ImportResult summarizes one import.
type ImportResult struct {
	Origin  string
	Movies  int64
	Ratings int64
}

// ImportCSV replaces both tables with the contents of the MovieLens CSV
// files using DuckDB's read_csv. Columns are selected by header name.
//
// Errors match the CSV parser's: a missing header column is
// catalog.ErrMissingColumn and an unconvertible cell is
// catalog.ErrMalformedRow. Positions follow file order, which relies on the
// preserve_insertion_order setting New applies.
func (db *DB) ImportCSV(ctx context.Context, moviesPath, ratingsPath string) (ImportResult, error) {
	origin := moviesPath + "," + ratingsPath
	res := ImportResult{Origin: origin}

	err := db.inTx(ctx, func(tx *sql.Tx) error {
		if err := checkCSVColumns(ctx, tx, moviesPath,
			catalog.ColMovieID, catalog.ColTitle, catalog.ColGenres); err != nil {
			return err
		}
		if err := checkCSVColumns(ctx, tx, ratingsPath,
			catalog.ColUserID, catalog.ColMovieID, catalog.ColRating, catalog.ColTimestamp); err != nil {
			return err
		}
		if err := truncate(ctx, tx); err != nil {
			return err
		}

		moviesSQL := fmt.Sprintf(`INSERT INTO movies (position, movie_id, title, genres)
			SELECT row_number() OVER () - 1,
			       CAST("%s" AS BIGINT),
			       coalesce("%s", ''),
			       coalesce("%s", '')
			FROM read_csv(%s, header = true, all_varchar = true)`,
			catalog.ColMovieID, catalog.ColTitle, catalog.ColGenres, quoteLiteral(moviesPath))
		if _, err := tx.ExecContext(ctx, moviesSQL); err != nil {
			return conversionError(ctx, moviesPath, err)
		}

		ratingsSQL := fmt.Sprintf(`INSERT INTO ratings (position, user_id, movie_id, rating, timestamp)
			SELECT row_number() OVER () - 1,
			       CAST("%s" AS BIGINT),
			       CAST("%s" AS BIGINT),
			       CAST("%s" AS DOUBLE),
			       CAST("%s" AS BIGINT)
			FROM read_csv(%s, header = true, all_varchar = true)`,
			catalog.ColUserID, catalog.ColMovieID, catalog.ColRating, catalog.ColTimestamp, quoteLiteral(ratingsPath))
		if _, err := tx.ExecContext(ctx, ratingsSQL); err != nil {
			return conversionError(ctx, ratingsPath, err)
		}

		return finishImport(ctx, tx, &res)
	})
	if err != nil {
		return ImportResult{}, err
	}

	logging.Info().
		Str("origin", origin).
		Int64("movies", res.Movies).
		Int64("ratings", res.Ratings).
		Msg("CSV imported into DuckDB")
	return res, nil
}

// ImportDataset replaces both tables with ds, preserving slice order.
func (db *DB) ImportDataset(ctx context.Context, ds *catalog.Dataset, origin string) (ImportResult, error) {
	if ds == nil {
		return ImportResult{}, catalog.ErrNoSource
	}
	res := ImportResult{Origin: origin}

	err := db.inTx(ctx, func(tx *sql.Tx) error {
		if err := truncate(ctx, tx); err != nil {
			return err
		}

		movieStmt, err := tx.PrepareContext(ctx,
			"INSERT INTO movies (position, movie_id, title, genres) VALUES (?, ?, ?, ?)")
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer closeWithLog(movieStmt, "prepared statement")

		for i := range ds.Movies {
			m := &ds.Movies[i]
			genres := strings.Join(m.Genres, catalog.GenreSeparator)
			if _, err := movieStmt.ExecContext(ctx, i, m.ID, m.Title, genres); err != nil {
				return fmt.Errorf("insert movie %d: %w", m.ID, err)
			}
		}

		ratingStmt, err := tx.PrepareContext(ctx,
			"INSERT INTO ratings (position, user_id, movie_id, rating, timestamp) VALUES (?, ?, ?, ?, ?)")
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer closeWithLog(ratingStmt, "prepared statement")

		for i := range ds.Ratings {
			r := &ds.Ratings[i]
			if _, err := ratingStmt.ExecContext(ctx, i, r.UserID, r.MovieID, r.Rating, r.Timestamp); err != nil {
				return fmt.Errorf("insert rating %d: %w", i, err)
			}
		}

		return finishImport(ctx, tx, &res)
	})
	if err != nil {
		return ImportResult{}, err
	}
	return res, nil
}

// checkCSVColumns verifies that path exists and its header names every
// required column.
func checkCSVColumns(ctx context.Context, tx *sql.Tx, path string, required ...string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}

	rows, err := tx.QueryContext(ctx, fmt.Sprintf(
		"SELECT * FROM read_csv(%s, header = true, all_varchar = true) LIMIT 0", quoteLiteral(path)))
	if err != nil {
		return fmt.Errorf("read header of %s: %w", path, err)
	}
	defer closeWithLog(rows, "rows")

	columns, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("read header of %s: %w", path, err)
	}
	present := make(map[string]struct{}, len(columns))
	for _, name := range columns {
		present[name] = struct{}{}
	}

	for _, col := range required {
		if _, ok := present[col]; !ok {
			return fmt.Errorf("%s: %q: %w", path, col, catalog.ErrMissingColumn)
		}
	}
	return nil
}

// conversionError reports a failed INSERT ... SELECT FROM read_csv. With the
// file and header already checked, the cause is a cell DuckDB could not
// cast.
func conversionError(ctx context.Context, path string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return fmt.Errorf("import %s: %w: %v", path, catalog.ErrMalformedRow, err)
}

func truncate(ctx context.Context, tx *sql.Tx) error {
	for _, table := range []string{"ratings", "movies"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

// finishImport checks the invariants the CSV parser enforces and records
// the import.
func finishImport(ctx context.Context, tx *sql.Tx, res *ImportResult) error {
	var dup sql.NullInt64
	err := tx.QueryRowContext(ctx,
		"SELECT movie_id FROM movies GROUP BY movie_id HAVING count(*) > 1 LIMIT 1").Scan(&dup)
	switch {
	case err == nil:
		return fmt.Errorf("duplicate %s %d: %w", catalog.ColMovieID, dup.Int64, catalog.ErrMalformedRow)
	case err != sql.ErrNoRows:
		return fmt.Errorf("check duplicates: %w", err)
	}

	var nonFinite int64
	if err := tx.QueryRowContext(ctx,
		"SELECT count(*) FROM ratings WHERE NOT isfinite(rating)").Scan(&nonFinite); err != nil {
		return fmt.Errorf("check ratings: %w", err)
	}
	if nonFinite > 0 {
		return fmt.Errorf("%d non-finite ratings: %w", nonFinite, catalog.ErrMalformedRow)
	}

	if err := tx.QueryRowContext(ctx,
		"SELECT (SELECT count(*) FROM movies), (SELECT count(*) FROM ratings)").Scan(&res.Movies, &res.Ratings); err != nil {
		return fmt.Errorf("count rows: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO imports (origin, movies, ratings) VALUES (?, ?, ?)", res.Origin, res.Movies, res.Ratings); err != nil {
		return fmt.Errorf("record import: %w", err)
	}
	return nil
}

// inTx runs fn in a transaction, rolling back on error.
func (db *DB) inTx(ctx context.Context, fn func(*sql.Tx) error) (err error) {
	if db.conn == nil {
		return ErrClosed
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.Error().
					Err(rbErr).
					AnErr("original_error", err).
					Msg("Transaction rollback failed")
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
