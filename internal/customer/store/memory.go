package store

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	customererrors "github.com/abgdnv/retailcore/internal/customer/errors"
)

// inMemory implements CustomerStore using a mutex-guarded map.
type inMemory struct {
	mu        sync.RWMutex
	customers map[int64]Customer
	byEmail   map[string]int64
	nextID    int64
}

// NewInMemoryStore creates a new in-memory CustomerStore.
func NewInMemoryStore() CustomerStore {
	return &inMemory{
		customers: make(map[int64]Customer),
		byEmail:   make(map[string]int64),
		nextID:    1,
	}
}

func (s *inMemory) FindByID(_ context.Context, id int64) (*Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.customers[id]
	if !ok {
		return nil, customererrors.ErrCustomerNotFound
	}
	c.OrderIDs = slices.Clone(c.OrderIDs)
	return &c, nil
}

func (s *inMemory) FindByEmail(_ context.Context, email string) (*Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, customererrors.ErrCustomerNotFound
	}
	c := s.customers[id]
	c.OrderIDs = slices.Clone(c.OrderIDs)
	return &c, nil
}

func (s *inMemory) Search(_ context.Context, params SearchParams) ([]Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Customer, 0, len(s.customers))
	for _, c := range s.customers {
		if params.Email != "" && c.Email != params.Email {
			continue
		}
		if params.City != "" && c.City != params.City {
			continue
		}
		c.OrderIDs = slices.Clone(c.OrderIDs)
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	if params.Limit > 0 && int(params.Limit) < len(list) {
		list = list[:params.Limit]
	}
	return list, nil
}

func (s *inMemory) Create(_ context.Context, params CreateParams) (*Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[params.Email]; exists {
		return nil, customererrors.ErrDuplicateEmail
	}

	customer := Customer{
		ID:        s.nextID,
		Name:      params.Name,
		Email:     params.Email,
		Phone:     params.Phone,
		City:      params.City,
		OrderIDs:  []int64{},
		CreatedAt: time.Now().UTC(),
	}
	s.nextID++
	s.customers[customer.ID] = customer
	s.byEmail[customer.Email] = customer.ID

	return &customer, nil
}

func (s *inMemory) Update(_ context.Context, params UpdateParams) (*Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers[params.ID]
	if !ok {
		return nil, customererrors.ErrCustomerNotFound
	}
	if owner, exists := s.byEmail[params.Email]; exists && owner != params.ID {
		return nil, customererrors.ErrDuplicateEmail
	}

	delete(s.byEmail, c.Email)
	c.Name = params.Name
	c.Email = params.Email
	c.Phone = params.Phone
	c.City = params.City
	s.customers[c.ID] = c
	s.byEmail[c.Email] = c.ID

	out := c
	out.OrderIDs = slices.Clone(c.OrderIDs)
	return &out, nil
}

func (s *inMemory) AppendOrder(_ context.Context, id int64, orderID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers[id]
	if !ok {
		return customererrors.ErrCustomerNotFound
	}
	c.OrderIDs = append(slices.Clone(c.OrderIDs), orderID)
	s.customers[id] = c
	return nil
}
