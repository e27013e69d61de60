// Package store provides an interface for order storage operations.
package store

import (
	"context"
	"time"
)

// Order statuses. PLACED is the only non-terminal status: an order moves to
// CANCELLED or COMPLETED exactly once and never leaves either.
const (
	StatusPlaced    = "PLACED"
	StatusCancelled = "CANCELLED"
	StatusCompleted = "COMPLETED"
)

// Order represents an order row. Items and TotalAmount are fixed at
// placement time and never change afterwards.
type Order struct {
	ID          int64
	CustomerID  int64
	Status      string
	TotalAmount int64 // minor currency units
	Items       []OrderItem
	CreatedAt   time.Time
}

// OrderItem is a single line of an order. UnitPrice is the product's price
// captured at placement time, not a reference to the live catalog price.
type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int32
	UnitPrice int64
}

// ItemParams holds one line of a new order.
type ItemParams struct {
	ProductID int64
	Quantity  int32
	UnitPrice int64
}

// CreateParams holds the fields for a new order.
type CreateParams struct {
	CustomerID  int64
	TotalAmount int64
	Items       []ItemParams
}

// ProductSales aggregates sold quantity per product across non-cancelled orders.
type ProductSales struct {
	ProductID int64
	Sold      int64
}

// CustomerOrders aggregates non-cancelled order counts per customer.
type CustomerOrders struct {
	CustomerID int64
	Orders     int64
}

// OrderStore is an interface for order storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
type OrderStore interface {
	// FindByID retrieves an order with its items.
	// Returns ErrOrderNotFound if no order exists with the given ID.
	FindByID(ctx context.Context, id int64) (*Order, error)

	// FindByCustomer returns the customer's orders with items, ordered by id
	// ascending, paginated by offset and limit.
	FindByCustomer(ctx context.Context, customerID int64, offset, limit int32) ([]Order, error)

	// Create persists an order and its items as one unit.
	Create(ctx context.Context, params CreateParams) (*Order, error)

	// UpdateStatus moves an order from one status to another as a single
	// conditional operation: it succeeds only if the order is currently in
	// the from status. Returns ErrOrderNotFound for an unknown id and an
	// InvalidStateTransitionError when the order is in any other status.
	UpdateStatus(ctx context.Context, id int64, from, to string) (*Order, error)

	// TopSellers returns per-product sold quantities across non-cancelled
	// orders, highest first, limited to limit products.
	TopSellers(ctx context.Context, limit int32) ([]ProductSales, error)

	// RevenueBetween sums the totals of non-cancelled orders created in
	// [from, to).
	RevenueBetween(ctx context.Context, from, to time.Time) (int64, error)

	// OrderCountsByCustomer returns per-customer non-cancelled order counts
	// for customers with at least minOrders orders, highest first.
	OrderCountsByCustomer(ctx context.Context, minOrders int64) ([]CustomerOrders, error)
}
