package history

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/raysh454/phishguard/internal/model"
)

// MemoryRepository keeps records in a slice. It is safe for concurrent use.
type MemoryRepository struct {
	mu      sync.RWMutex
	records []model.DetectionRecord
}

// NewMemoryRepository returns a repository holding a copy of seed.
func NewMemoryRepository(seed []model.DetectionRecord) *MemoryRepository {
	return &MemoryRepository{records: append([]model.DetectionRecord(nil), seed...)}
}

func (m *MemoryRepository) List(_ context.Context) ([]model.DetectionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.DetectionRecord(nil), m.records...), nil
}

func (m *MemoryRepository) Filter(_ context.Context, q Query) ([]model.DetectionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Filter(m.records, q), nil
}

func (m *MemoryRepository) Get(_ context.Context, id string) (*model.DetectionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.records {
		if r.ID == id {
			rec := r
			return &rec, nil
		}
	}
	return nil, ErrRecordNotFound
}

// Add appends rec, assigning an ID when it has none.
func (m *MemoryRepository) Add(_ context.Context, rec model.DetectionRecord) (*model.DetectionRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return &rec, nil
}
