// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package events

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/cinematch/internal/recommend"
)

// SchemaVersion is the current event schema version.
const SchemaVersion = 1

// TopicCatalogReloaded carries CatalogReloaded events.
const TopicCatalogReloaded = "catalog.reloaded"

// Validation errors.
var (
	ErrMissingEventID = errors.New("event_id is required")
	ErrInvalidVersion = errors.New("snapshot version must be positive")
)

// CatalogReloaded announces that a new snapshot is live.
type CatalogReloaded struct {
	SchemaVersion int       `json:"schema_version"`
	EventID       string    `json:"event_id"`
	Timestamp     time.Time `json:"timestamp"`
	CorrelationID string    `json:"correlation_id,omitempty"`

	Version    int64     `json:"version"`
	Source     string    `json:"source"`
	Movies     int       `json:"movies"`
	Ratings    int       `json:"ratings"`
	Titles     int       `json:"titles"`
	Users      int       `json:"users"`
	Genres     int       `json:"genres"`
	Selectable int       `json:"selectable"`
	DurationMS int64     `json:"duration_ms"`
	BuiltAt    time.Time `json:"built_at"`
}

// NewCatalogReloaded builds an event from the engine's reload summary.
func NewCatalogReloaded(info recommend.ReloadInfo, correlationID string) *CatalogReloaded {
	return &CatalogReloaded{
		SchemaVersion: SchemaVersion,
		EventID:       uuid.New().String(),
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Version:       info.Version,
		Source:        info.Source,
		Movies:        info.Movies,
		Ratings:       info.Ratings,
		Titles:        info.Titles,
		Users:         info.Users,
		Genres:        info.Genres,
		Selectable:    info.Selectable,
		DurationMS:    info.Duration.Milliseconds(),
		BuiltAt:       info.BuiltAt,
	}
}

// Validate checks required fields.
func (e *CatalogReloaded) Validate() error {
	if e.EventID == "" {
		return ErrMissingEventID
	}
	if e.Version < 1 {
		return ErrInvalidVersion
	}
	return nil
}
