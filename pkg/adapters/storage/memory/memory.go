package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aescanero/blockqueue/pkg/domain"
)

// SnapshotStorage implements SnapshotStore using an in-memory map
type SnapshotStorage struct {
	snapshots map[string]*domain.Snapshot
	mu        sync.RWMutex
}

// NewSnapshotStorage creates a new in-memory snapshot storage
func NewSnapshotStorage() *SnapshotStorage {
	return &SnapshotStorage{
		snapshots: make(map[string]*domain.Snapshot),
	}
}

// Save stores a deep copy of snap, superseding any previous one
func (s *SnapshotStorage) Save(ctx context.Context, sessionID string, snap *domain.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("nil snapshot for session %s", sessionID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Deep copy to avoid mutations
	s.snapshots[sessionID] = snap.Clone()
	return nil
}

// Load returns a deep copy of the stored snapshot
func (s *SnapshotStorage) Load(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snapshots[sessionID]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", sessionID, domain.ErrSnapshotNotFound)
	}

	return snap.Clone(), nil
}

// Delete removes the snapshot of a session
func (s *SnapshotStorage) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.snapshots, sessionID)
	return nil
}

// Exists checks if a snapshot exists for a session
func (s *SnapshotStorage) Exists(ctx context.Context, sessionID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.snapshots[sessionID]
	return ok, nil
}
