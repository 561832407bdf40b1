package sessions

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps snapshots in process. Entries idle longer than ttl are
// treated as gone and swept lazily on Save.
type MemoryStore struct {
	mu   sync.RWMutex
	ttl  time.Duration
	now  func() time.Time
	data map[string]Snapshot
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, now: time.Now, data: map[string]Snapshot{}}
}

func (m *MemoryStore) Load(_ context.Context, id string) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.data[id]
	if !ok || m.expired(s) {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *MemoryStore) Save(_ context.Context, s *Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, v := range m.data {
		if m.expired(v) {
			delete(m.data, id)
		}
	}
	m.data[s.ID] = *s
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	return nil
}

// Len counts live sessions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, v := range m.data {
		if !m.expired(v) {
			n++
		}
	}
	return n
}

func (m *MemoryStore) expired(s Snapshot) bool {
	return m.ttl > 0 && m.now().Sub(s.UpdatedAt) > m.ttl
}
