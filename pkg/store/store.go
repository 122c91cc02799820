// Package store persists engine snapshots. Every backend writes the three
// snapshot documents and the version number as one unit.
package store

import (
	"context"
	"errors"
	"fmt"

	"voterroll/pkg/config"
	"voterroll/pkg/engine"
)

// ErrVersionConflict is returned by Save when the stored version is not the
// one the caller read, i.e. another writer committed in between.
var ErrVersionConflict = errors.New("snapshot version conflict")

// Store loads and saves snapshots.
type Store interface {
	// Load returns the stored snapshot and its version. A store that was
	// never written returns a zero snapshot and version 0.
	Load(ctx context.Context) (engine.Snapshot, uint64, error)
	// Save stores snap as version, which must be one more than the stored
	// version.
	Save(ctx context.Context, snap engine.Snapshot, version uint64) error
	Close() error
}

// Open builds the backend selected by cfg.
func Open(ctx context.Context, cfg config.Config) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Store {
	case config.StoreMemory:
		s = NewMemoryStore()
	case config.StoreFile:
		s, err = NewFileStore(cfg.DataDir)
	case config.StoreSQLite:
		s, err = OpenSQLite(ctx, cfg.SQLitePath)
	case config.StoreRedis:
		s, err = OpenRedis(ctx, cfg.RedisURL, cfg.RedisPrefix)
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func checkVersion(stored, next uint64) error {
	if next != stored+1 {
		return fmt.Errorf("%w: stored version %d, saving %d", ErrVersionConflict, stored, next)
	}
	return nil
}
