// Package jsonfile persists the portfolio snapshot as a pretty-printed JSON
// file on disk.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/mlaurent/horizon-backend/internal/domain"
)

// Store implements domain.SnapshotRepository over a single JSON file.
// A missing or unreadable file yields the seeded default snapshot, so a
// fresh install and a corrupted data file both start from a known state.
type Store struct {
	path   string
	logger *logrus.Logger
	mu     sync.Mutex
}

// NewStore creates a snapshot store backed by the file at path.
func NewStore(path string, logger *logrus.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// Load reads the snapshot from disk. Missing file and corrupt JSON both
// degrade to the default snapshot; partially-populated files are completed
// by EnsureDefaults so older on-disk layouts keep loading.
func (s *Store) Load(ctx context.Context) (*domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.WithError(err).Warn("snapshot file unreadable, starting from defaults")
		}
		return DefaultSnapshot(), nil
	}

	var snapshot domain.Snapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		s.logger.WithError(err).Warn("snapshot file corrupt, starting from defaults")
		return DefaultSnapshot(), nil
	}

	snapshot.EnsureDefaults()
	return &snapshot, nil
}

// Save writes the snapshot atomically: marshal to a temp file in the same
// directory, then rename over the target.
func (s *Store) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace snapshot file: %w", err)
	}
	return nil
}
