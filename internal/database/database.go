// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/logging"
)

// MemoryPath opens an in-memory database.
const MemoryPath = ":memory:"

// ErrClosed is returned by operations on a closed DB.
var ErrClosed = errors.New("database connection is nil")

// DB wraps the DuckDB connection.
type DB struct {
	conn *sql.DB
	cfg  config.DatabaseConfig
}

// New opens the database described by cfg and creates the schema.
// An empty Path opens an in-memory database.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	c := *cfg
	if c.Path == "" {
		c.Path = MemoryPath
	}
	if c.MaxMemory == "" {
		c.MaxMemory = "1GB"
	}

	numThreads := c.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	if c.Path != MemoryPath {
		dbDir := filepath.Dir(c.Path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}
	}

	// No extensions are needed; autoinstall stays off so startup never
	// reaches the network. ImportCSV numbers rows with row_number() OVER (),
	// which follows file order only while insertion order is preserved.
	connStr := fmt.Sprintf("%s?threads=%d&max_memory=%s&preserve_insertion_order=true"+
		"&autoinstall_known_extensions=false&autoload_known_extensions=false",
		c.Path, numThreads, c.MaxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{conn: conn, cfg: c}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.createTables(ctx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	logging.Info().
		Str("path", c.Path).
		Int("threads", numThreads).
		Str("max_memory", c.MaxMemory).
		Msg("DuckDB opened")

	return db, nil
}

// Close checkpoints the WAL and closes the connection.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.Checkpoint(ctx); err != nil {
		logging.Warn().Err(err).Msg("Failed to checkpoint database before close")
	}
	cancel()

	err := db.conn.Close()
	db.conn = nil
	return err
}

// Ping checks if the database connection is alive
func (db *DB) Ping(ctx context.Context) error {
	if db.conn == nil {
		return ErrClosed
	}
	return db.conn.PingContext(ctx)
}

// Conn returns the underlying SQL database connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Path returns the database file path, or MemoryPath.
func (db *DB) Path() string {
	return db.cfg.Path
}

// Checkpoint forces a WAL checkpoint
func (db *DB) Checkpoint(ctx context.Context) error {
	if db.conn == nil {
		return ErrClosed
	}
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	if _, err := db.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}
	return nil
}

// Counts returns the row counts of the movies and ratings tables.
func (db *DB) Counts(ctx context.Context) (movies, ratings int64, err error) {
	if db.conn == nil {
		return 0, 0, ErrClosed
	}
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	err = db.conn.QueryRowContext(ctx,
		"SELECT (SELECT count(*) FROM movies), (SELECT count(*) FROM ratings)").Scan(&movies, &ratings)
	if err != nil {
		return 0, 0, fmt.Errorf("count rows: %w", err)
	}
	return movies, ratings, nil
}

// ensureContext adds a 30-second timeout if ctx has no deadline.
func ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		return context.WithTimeout(context.Background(), 30*time.Second)
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		return context.WithTimeout(ctx, 30*time.Second)
	}
	return ctx, func() {}
}

// closeWithLog closes a resource and logs any error
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource in error paths where Close errors are not actionable
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
