package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vorsorge/depotvergleich/internal/domain"
)

// MemoryStore keeps customers and scenarios in process memory
type MemoryStore struct {
	mu        sync.RWMutex
	customers map[int64]domain.Customer
	scenarios map[int64]ScenarioRecord // keyed by customer id
	nextID    int64
	nextRecID int64
	now       func() time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		customers: make(map[int64]domain.Customer),
		scenarios: make(map[int64]ScenarioRecord),
		now:       time.Now,
	}
}

func (s *MemoryStore) CreateCustomer(ctx context.Context, c *domain.Customer) error {
	if err := c.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	c.ID = s.nextID
	c.CreatedAt = s.now()
	s.customers[c.ID] = *c
	return nil
}

func (s *MemoryStore) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.customers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (s *MemoryStore) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) GetScenarioByCustomer(ctx context.Context, customerID int64) (*ScenarioRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.scenarios[customerID]
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}

func (s *MemoryStore) CreateScenario(ctx context.Context, rec *ScenarioRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers[rec.CustomerID]; !ok {
		return ErrNotFound
	}
	s.nextRecID++
	rec.ID = s.nextRecID
	rec.CreatedAt = s.now()
	s.scenarios[rec.CustomerID] = *rec
	return nil
}

func (s *MemoryStore) UpdateScenario(ctx context.Context, rec *ScenarioRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.scenarios[rec.CustomerID]
	if !ok || existing.ID != rec.ID {
		return ErrNotFound
	}
	rec.CreatedAt = existing.CreatedAt
	s.scenarios[rec.CustomerID] = *rec
	return nil
}
