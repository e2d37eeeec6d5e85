package checkpoint

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/example/jobhunt-orchestrator/internal/models"
)

// MemoryStore keeps snapshots in process memory. Records are stored as
// marshaled JSON so a loaded state is always a fresh copy, never an alias of
// the running state.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string][]byte{}}
}

func (m *MemoryStore) Save(ctx context.Context, threadID string, state *models.RunState) error {
	b, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal checkpoint %s: %w", threadID, err)
	}
	m.mu.Lock()
	m.data[threadID] = b
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Load(ctx context.Context, threadID string) (*models.RunState, error) {
	m.mu.RLock()
	b, ok := m.data[threadID]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	var st models.RunState
	if err := json.Unmarshal(b, &st); err != nil {
		return nil, fmt.Errorf("unmarshal checkpoint %s: %w", threadID, err)
	}
	return &st, nil
}

func (m *MemoryStore) List(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.data))
	for id := range m.data {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *MemoryStore) Delete(ctx context.Context, threadID string) error {
	m.mu.Lock()
	delete(m.data, threadID)
	m.mu.Unlock()
	return nil
}
