// Package models provides data model definitions for hamster-export.
package models

import "time"

// ExportArchive holds metadata for exported archive bundles.
type ExportArchive struct {
	ID        string `json:"id"`
	FilePath  string `json:"file_path"`
	Checksum  string `json:"checksum"` // SHA-256 of the archive file
	SizeBytes int64  `json:"size_bytes"`
	FactCount int    `json:"fact_count"`
	CreatedAt int64  `json:"created_at"`
}

// CreatedAtTime returns the CreatedAt as time.Time.
func (e *ExportArchive) CreatedAtTime() time.Time {
	return time.Unix(e.CreatedAt, 0)
}
