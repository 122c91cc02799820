package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"voterroll/pkg/engine"
)

const snapshotFile = "snapshot.json"

// fileDocument is the on-disk layout: the version next to the three
// snapshot documents, so one rename commits all of them.
type fileDocument struct {
	Version uint64 `json:"version"`
	engine.Snapshot
}

// FileStore keeps the snapshot in a single JSON file under a data directory.
// The version check is only guarded within one process.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	return &FileStore{path: filepath.Join(dir, snapshotFile)}, nil
}

func (s *FileStore) Load(_ context.Context) (engine.Snapshot, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return engine.Snapshot{}, 0, err
	}
	return doc.Snapshot, doc.Version, nil
}

func (s *FileStore) Save(_ context.Context, snap engine.Snapshot, version uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.read()
	if err != nil {
		return err
	}
	if err := checkVersion(current.Version, version); err != nil {
		return err
	}

	data, err := json.Marshal(fileDocument{Version: version, Snapshot: snap})
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot file: %w", err)
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save snapshot file: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) read() (fileDocument, error) {
	var doc fileDocument
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return doc, fmt.Errorf("failed to read snapshot file: %w", err)
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("failed to unmarshal snapshot file: %w", err)
	}
	return doc, nil
}
