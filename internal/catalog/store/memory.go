package store

import (
	"context"
	"sort"
	"sync"
	"time"

	catalogerrors "github.com/abgdnv/retailcore/internal/catalog/errors"
)

// inMemory implements ProductStore using a mutex-guarded map.
// The mutex is what makes AdjustStock's read-check-write atomic.
type inMemory struct {
	mu       sync.RWMutex
	products map[int64]Product
	bySKU    map[string]int64
	nextID   int64
}

// NewInMemoryStore creates a new in-memory ProductStore.
func NewInMemoryStore() ProductStore {
	return &inMemory{
		products: make(map[int64]Product),
		bySKU:    make(map[string]int64),
		nextID:   1,
	}
}

func (s *inMemory) FindByID(_ context.Context, id int64) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, catalogerrors.ErrProductNotFound
	}
	return &p, nil
}

func (s *inMemory) FindBySKU(_ context.Context, sku string) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.bySKU[sku]
	if !ok {
		return nil, catalogerrors.ErrProductNotFound
	}
	p := s.products[id]
	return &p, nil
}

func (s *inMemory) FindAll(_ context.Context, limit int32, category string) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if category != "" && p.Category != category {
			continue
		}
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	if limit > 0 && int(limit) < len(list) {
		list = list[:limit]
	}
	return list, nil
}

func (s *inMemory) Create(_ context.Context, params CreateParams) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bySKU[params.SKU]; exists {
		return nil, catalogerrors.ErrDuplicateSKU
	}

	product := Product{
		ID:        s.nextID,
		SKU:       params.SKU,
		Name:      params.Name,
		Price:     params.Price,
		Stock:     params.Stock,
		Category:  params.Category,
		CreatedAt: time.Now().UTC(),
	}
	s.nextID++
	s.products[product.ID] = product
	s.bySKU[product.SKU] = product.ID

	return &product, nil
}

func (s *inMemory) AdjustStock(_ context.Context, id int64, delta int32) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, catalogerrors.ErrProductNotFound
	}
	if p.Stock+delta < 0 {
		return nil, &catalogerrors.InsufficientStockError{
			ProductID: id,
			Available: p.Stock,
			Requested: -delta,
		}
	}
	p.Stock += delta
	s.products[id] = p
	return &p, nil
}
