// Package db provides read-only access to the Hamster database.
package db

import (
	"os"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	apperrors "github.com/gdrius/hamster-export/internal/errors"
)

// DB wraps sqlx.DB with hamster-export configuration.
type DB struct {
	*sqlx.DB
}

// Open opens the Hamster SQLite database read-only.
// The database belongs to Hamster; this tool never writes to it.
func Open(path string) (*DB, error) {
	if path == "" {
		return nil, apperrors.New(apperrors.ErrDatabaseNotFound, "no Hamster database configured")
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return nil, apperrors.Newf(apperrors.ErrDatabaseNotFound, "Hamster database not found at %s", path)
	}

	// Open with modernc.org/sqlite (pure Go, no CGO)
	conn, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, "failed to open database", err)
	}

	// A single connection so the pragmas below apply to every query.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if _, err := conn.Exec("PRAGMA query_only=ON;"); err != nil {
		conn.Close()
		return nil, apperrors.Wrap(apperrors.ErrDatabase, "failed to enable query_only mode", err)
	}

	// Hamster may hold the write lock while tracking; wait instead of failing.
	if _, err := conn.Exec("PRAGMA busy_timeout=5000;"); err != nil {
		conn.Close()
		return nil, apperrors.Wrap(apperrors.ErrDatabase, "failed to set busy timeout", err)
	}

	return &DB{conn}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.DB.Close()
}
