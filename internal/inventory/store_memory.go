package inventory

import (
	"context"
	"slices"
	"strings"
	"sync"
)

const (
	seedName     = "Sample Item"
	seedQuantity = 10
	seedPrice    = 100.0
)

// MemStore keeps products in insertion order. A single mutex guards both the
// slice and nextID.
type MemStore struct {
	mu       sync.Mutex
	products []Product
	nextID   int
}

func NewMemStore() *MemStore {
	return &MemStore{nextID: 1}
}

// NewStore returns a MemStore holding the sample product with id 1.
func NewStore() *MemStore {
	s := NewMemStore()
	_, _ = s.Create(context.Background(), seedName, seedQuantity, seedPrice)
	return s
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) List(ctx context.Context) ([]Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

func (s *MemStore) Create(ctx context.Context, name string, quantity int, price float64) (Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Product{}, ErrNameRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := Product{
		ID:       s.nextID,
		Name:     name,
		Quantity: quantity,
		Price:    price,
	}
	s.nextID++
	s.products = append(s.products, p)
	return p, nil
}

func (s *MemStore) Update(ctx context.Context, id int, patch Patch) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Product{}, ErrNotFound
	}

	p := &s.products[i]
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Quantity != nil {
		p.Quantity = *patch.Quantity
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	return *p, nil
}

func (s *MemStore) Delete(ctx context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}

	s.products = slices.Delete(s.products, i, i+1)
	return true, nil
}

// indexOf must be called with mu held.
func (s *MemStore) indexOf(id int) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}
