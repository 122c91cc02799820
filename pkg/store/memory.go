package store

import (
	"bytes"
	"context"
	"sync"

	"voterroll/pkg/engine"
)

// MemoryStore keeps the snapshot in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	snap    engine.Snapshot
	version uint64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) (engine.Snapshot, uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSnapshot(s.snap), s.version, nil
}

func (s *MemoryStore) Save(_ context.Context, snap engine.Snapshot, version uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := checkVersion(s.version, version); err != nil {
		return err
	}
	s.snap = cloneSnapshot(snap)
	s.version = version
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// cloneSnapshot copies the raw documents so callers cannot alias stored bytes.
func cloneSnapshot(snap engine.Snapshot) engine.Snapshot {
	return engine.Snapshot{
		Hierarchy: bytes.Clone(snap.Hierarchy),
		Pending:   bytes.Clone(snap.Pending),
		Confirmed: bytes.Clone(snap.Confirmed),
	}
}
