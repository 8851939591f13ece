package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"conquest/game"
)

// Store persists the latest snapshot of each session.
type Store interface {
	Save(ctx context.Context, id string, s game.Snapshot) error
	// Load returns ErrNotFound when the session has no snapshot.
	Load(ctx context.Context, id string) (game.Snapshot, error)
	Delete(ctx context.Context, id string) error
}

// MemoryStore keeps snapshots in process, encoded the same way a remote store
// would, so callers never share maps with a live game.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string][]byte)}
}

func (m *MemoryStore) Save(ctx context.Context, id string, s game.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[id] = data
	return nil
}

func (m *MemoryStore) Load(ctx context.Context, id string) (game.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return game.Snapshot{}, err
	}
	m.mu.RLock()
	data, ok := m.snapshots[id]
	m.mu.RUnlock()
	if !ok {
		return game.Snapshot{}, fmt.Errorf("load %s: %w", id, ErrNotFound)
	}
	var s game.Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return game.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return s, nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, id)
	return nil
}
