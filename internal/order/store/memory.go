package store

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	ordererrors "github.com/abgdnv/retailcore/internal/order/errors"
)

// inMemory implements OrderStore using a mutex-guarded map.
type inMemory struct {
	mu         sync.RWMutex
	orders     map[int64]Order
	nextID     int64
	nextItemID int64
}

// NewInMemoryStore creates a new in-memory OrderStore.
func NewInMemoryStore() OrderStore {
	return &inMemory{
		orders:     make(map[int64]Order),
		nextID:     1,
		nextItemID: 1,
	}
}

func cloneOrder(o Order) Order {
	o.Items = slices.Clone(o.Items)
	return o
}

func (s *inMemory) FindByID(_ context.Context, id int64) (*Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, ordererrors.ErrOrderNotFound
	}
	out := cloneOrder(o)
	return &out, nil
}

func (s *inMemory) FindByCustomer(_ context.Context, customerID int64, offset, limit int32) ([]Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Order, 0)
	for _, o := range s.orders {
		if o.CustomerID == customerID {
			list = append(list, cloneOrder(o))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	if int(offset) >= len(list) {
		return []Order{}, nil
	}
	list = list[offset:]
	if limit > 0 && int(limit) < len(list) {
		list = list[:limit]
	}
	return list, nil
}

func (s *inMemory) Create(_ context.Context, params CreateParams) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order := Order{
		ID:          s.nextID,
		CustomerID:  params.CustomerID,
		Status:      StatusPlaced,
		TotalAmount: params.TotalAmount,
		Items:       make([]OrderItem, 0, len(params.Items)),
		CreatedAt:   time.Now().UTC(),
	}
	s.nextID++
	for _, item := range params.Items {
		order.Items = append(order.Items, OrderItem{
			ID:        s.nextItemID,
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
		s.nextItemID++
	}
	s.orders[order.ID] = order

	out := cloneOrder(order)
	return &out, nil
}

func (s *inMemory) UpdateStatus(_ context.Context, id int64, from, to string) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, ordererrors.ErrOrderNotFound
	}
	if o.Status != from {
		return nil, &ordererrors.InvalidStateTransitionError{
			OrderID:   id,
			Current:   o.Status,
			Attempted: to,
		}
	}
	o.Status = to
	s.orders[id] = o

	out := cloneOrder(o)
	return &out, nil
}

func (s *inMemory) TopSellers(_ context.Context, limit int32) ([]ProductSales, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sold := make(map[int64]int64)
	for _, o := range s.orders {
		if o.Status == StatusCancelled {
			continue
		}
		for _, item := range o.Items {
			sold[item.ProductID] += int64(item.Quantity)
		}
	}

	list := make([]ProductSales, 0, len(sold))
	for productID, qty := range sold {
		list = append(list, ProductSales{ProductID: productID, Sold: qty})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Sold != list[j].Sold {
			return list[i].Sold > list[j].Sold
		}
		return list[i].ProductID < list[j].ProductID
	})
	if limit > 0 && int(limit) < len(list) {
		list = list[:limit]
	}
	return list, nil
}

func (s *inMemory) RevenueBetween(_ context.Context, from, to time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var revenue int64
	for _, o := range s.orders {
		if o.Status == StatusCancelled {
			continue
		}
		if o.CreatedAt.Before(from) || !o.CreatedAt.Before(to) {
			continue
		}
		revenue += o.TotalAmount
	}
	return revenue, nil
}

func (s *inMemory) OrderCountsByCustomer(_ context.Context, minOrders int64) ([]CustomerOrders, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[int64]int64)
	for _, o := range s.orders {
		if o.Status == StatusCancelled {
			continue
		}
		counts[o.CustomerID]++
	}

	list := make([]CustomerOrders, 0, len(counts))
	for customerID, n := range counts {
		if n < minOrders {
			continue
		}
		list = append(list, CustomerOrders{CustomerID: customerID, Orders: n})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Orders != list[j].Orders {
			return list[i].Orders > list[j].Orders
		}
		return list[i].CustomerID < list[j].CustomerID
	})
	return list, nil
}
