//go:build !js

package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"voterroll/pkg/engine"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS snapshot (
	id        INTEGER PRIMARY KEY CHECK (id = 1),
	version   INTEGER NOT NULL,
	hierarchy BLOB,
	pending   BLOB,
	confirmed BLOB
)`

// SQLiteStore keeps the snapshot in a single-row table. Saves are a
// conditional update on the version column, so concurrent processes sharing
// the database file cannot overwrite each other.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create sqlite dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{
		`PRAGMA busy_timeout = 5000`,
		sqliteSchema,
		`INSERT OR IGNORE INTO snapshot (id, version) VALUES (1, 0)`,
	} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to prepare sqlite schema: %w", err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (engine.Snapshot, uint64, error) {
	var (
		version                       uint64
		hierarchy, pending, confirmed []byte
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT version, hierarchy, pending, confirmed FROM snapshot WHERE id = 1`,
	).Scan(&version, &hierarchy, &pending, &confirmed)
	if err != nil {
		return engine.Snapshot{}, 0, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return engine.Snapshot{Hierarchy: hierarchy, Pending: pending, Confirmed: confirmed}, version, nil
}

func (s *SQLiteStore) Save(ctx context.Context, snap engine.Snapshot, version uint64) error {
	if version == 0 {
		return checkVersion(0, version)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE snapshot SET version = ?, hierarchy = ?, pending = ?, confirmed = ?
		 WHERE id = 1 AND version = ?`,
		version, []byte(snap.Hierarchy), []byte(snap.Pending), []byte(snap.Confirmed), version-1,
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	if n == 0 {
		var stored uint64
		if err := s.db.QueryRowContext(ctx, `SELECT version FROM snapshot WHERE id = 1`).Scan(&stored); err != nil {
			return fmt.Errorf("failed to read snapshot version: %w", err)
		}
		return checkVersion(stored, version)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
