package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore implements Store with in-memory maps. Used by tests and for
// local development without a database file.
type MemoryStore struct {
	mu          sync.RWMutex
	diets       map[string]*Diet
	predictions map[string]*Prediction
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		diets:       make(map[string]*Diet),
		predictions: make(map[string]*Prediction),
	}
}

func (m *MemoryStore) CreateDiet(ctx context.Context, diet *Diet) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if diet.ID == "" {
		diet.ID = uuid.New().String()
	}
	now := time.Now()
	diet.CreatedAt = now
	diet.UpdatedAt = now

	copied := *diet
	m.diets[diet.ID] = &copied
	return nil
}

func (m *MemoryStore) GetDiet(ctx context.Context, dietID string) (*Diet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	diet, ok := m.diets[dietID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *diet
	return &copied, nil
}

func (m *MemoryStore) UpdateDiet(ctx context.Context, diet *Diet) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.diets[diet.ID]
	if !ok {
		return ErrNotFound
	}
	copied := *diet
	copied.CreatedAt = existing.CreatedAt
	copied.UpdatedAt = time.Now()
	m.diets[diet.ID] = &copied
	return nil
}

func (m *MemoryStore) DeleteDiet(ctx context.Context, dietID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.diets[dietID]; !ok {
		return ErrNotFound
	}
	delete(m.diets, dietID)
	for id, p := range m.predictions {
		if p.DietID == dietID {
			delete(m.predictions, id)
		}
	}
	return nil
}

func (m *MemoryStore) ListDiets(ctx context.Context) ([]*Diet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	diets := make([]*Diet, 0, len(m.diets))
	for _, diet := range m.diets {
		copied := *diet
		diets = append(diets, &copied)
	}
	sort.Slice(diets, func(i, j int) bool {
		return diets[i].CreatedAt.After(diets[j].CreatedAt)
	})
	return diets, nil
}

func (m *MemoryStore) CreatePrediction(ctx context.Context, prediction *Prediction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.diets[prediction.DietID]; !ok {
		return ErrNotFound
	}
	if prediction.ID == "" {
		prediction.ID = uuid.New().String()
	}
	prediction.CreatedAt = time.Now()

	copied := *prediction
	m.predictions[prediction.ID] = &copied
	return nil
}

func (m *MemoryStore) ListPredictions(ctx context.Context, dietID string) ([]*Prediction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var predictions []*Prediction
	for _, p := range m.predictions {
		if p.DietID == dietID {
			copied := *p
			predictions = append(predictions, &copied)
		}
	}
	sort.Slice(predictions, func(i, j int) bool {
		return predictions[i].CreatedAt.After(predictions[j].CreatedAt)
	})
	return predictions, nil
}

func (m *MemoryStore) Close() error {
	return nil
}
