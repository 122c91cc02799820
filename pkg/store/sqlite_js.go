//go:build js

package store

import (
	"context"
	"errors"

	"voterroll/pkg/engine"
)

// ErrSQLiteUnavailable is returned when the sqlite backend is selected in a
// build that cannot link the sqlite driver.
var ErrSQLiteUnavailable = errors.New("sqlite store is not available on js")

type SQLiteStore struct{}

func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	return nil, ErrSQLiteUnavailable
}

func (s *SQLiteStore) Load(ctx context.Context) (engine.Snapshot, uint64, error) {
	return engine.Snapshot{}, 0, ErrSQLiteUnavailable
}

func (s *SQLiteStore) Save(ctx context.Context, snap engine.Snapshot, version uint64) error {
	return ErrSQLiteUnavailable
}

func (s *SQLiteStore) Close() error {
	return nil
}
