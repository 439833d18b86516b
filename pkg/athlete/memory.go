package athlete

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore keeps athletes in process memory with the same contract as
// the Postgres store: unique CPF, ids assigned once and never reused,
// newest-first listing. It backs the handler tests and local runs without
// a database.
type MemoryStore struct {
	mu      sync.Mutex
	nextID  int64
	records []Athlete
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

func (m *MemoryStore) Create(_ context.Context, a Athlete) (int64, error) {
	if a.FullName == "" || a.CPF == "" {
		return 0, fmt.Errorf("Create failed: %w", ErrValidation)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.records {
		if m.records[i].CPF == a.CPF {
			return 0, fmt.Errorf("Create failed: %w: %s", ErrDuplicateCPF, a.CPF)
		}
	}

	a.ID = m.nextID
	a.CreatedAt = time.Now()
	m.nextID++
	m.records = append(m.records, a)

	return a.ID, nil
}

func (m *MemoryStore) List(_ context.Context) ([]Athlete, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Creates only append, so reversed insertion order is already
	// created_at descending.
	out := make([]Athlete, 0, len(m.records))
	for i := len(m.records) - 1; i >= 0; i-- {
		out = append(out, m.records[i])
	}

	return out, nil
}

func (m *MemoryStore) DeleteByID(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.records {
		if m.records[i].ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			break
		}
	}

	return nil
}
