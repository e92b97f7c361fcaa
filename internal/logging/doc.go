// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package logging is the single structured-logging entry point for cinematch.
//
// It wraps a process-wide zerolog.Logger configured once from main:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("source", "csv").Msg("catalog loaded")
//
// Components derive child loggers instead of formatting prefixes:
//
//	logger := logging.With().Str("component", "recommend").Logger()
//
// Request-scoped logging picks up the request and correlation IDs stored in
// the context by the HTTP middleware:
//
//	logging.Ctx(ctx).Debug().Str("title", title).Msg("content query")
//
// Libraries that expect a *slog.Logger (sutureslog, watermill) are given
// NewSlogLogger, which forwards every record to zerolog.
package logging
