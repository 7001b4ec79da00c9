// Package db provides Hamster schema detection and validation.
package db

import (
	"strings"

	apperrors "github.com/gdrius/hamster-export/internal/errors"
)

// MinSchemaVersion is the oldest Hamster schema this tool understands.
// Version 8 introduced the fact_tags table; the legacy hamster-applet
// layouts before it stored tags inline and are rejected.
const MinSchemaVersion = 8

// requiredTables are the tables every supported Hamster database carries.
var requiredTables = []string{
	"facts",
	"activities",
	"categories",
	"tags",
	"fact_tags",
	"version",
}

// Schema describes the detected Hamster database schema.
type Schema struct {
	Version int
	Tables  []string
}

// Check verifies the database looks like a supported Hamster database and
// returns the detected schema.
func Check(db *DB) (*Schema, error) {
	var tables []string
	err := db.Select(&tables,
		"SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, "failed to list tables", err)
	}

	present := make(map[string]bool, len(tables))
	for _, name := range tables {
		present[name] = true
	}

	var missing []string
	for _, name := range requiredTables {
		if !present[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.Newf(apperrors.ErrSchemaUnsupported,
			"not a Hamster database, missing tables: %s", strings.Join(missing, ", "))
	}

	var version int
	if err := db.Get(&version, "SELECT COALESCE(MAX(version), 0) FROM version"); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, "failed to read schema version", err)
	}
	if version < MinSchemaVersion {
		return nil, apperrors.Newf(apperrors.ErrSchemaUnsupported,
			"Hamster schema version %d is older than the minimum supported %d", version, MinSchemaVersion)
	}

	return &Schema{Version: version, Tables: tables}, nil
}
