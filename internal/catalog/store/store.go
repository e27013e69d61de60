// Package store provides an interface for product storage operations.
package store

import (
	"context"
	"time"
)

// Product represents a product row in the catalog.
type Product struct {
	ID        int64
	SKU       string
	Name      string
	Price     int64 // minor currency units
	Stock     int32
	Category  string
	CreatedAt time.Time
}

// CreateParams holds the fields for a new product.
type CreateParams struct {
	SKU      string
	Name     string
	Price    int64
	Stock    int32
	Category string
}

// ProductStore is an interface for product storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
type ProductStore interface {
	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int64) (*Product, error)

	// FindBySKU retrieves a single product by its unique SKU.
	// Returns ErrProductNotFound if no product exists with the given SKU.
	FindBySKU(ctx context.Context, sku string) (*Product, error)

	// FindAll returns up to limit products ordered by id ascending,
	// optionally filtered by category.
	FindAll(ctx context.Context, limit int32, category string) ([]Product, error)

	// Create adds a new product. Returns ErrDuplicateSKU if the SKU is taken.
	Create(ctx context.Context, params CreateParams) (*Product, error)

	// AdjustStock atomically applies delta to the product's stock.
	// The precondition check and the write are a single operation: no other
	// AdjustStock on the same product can interleave with it.
	// Returns ErrProductNotFound for an unknown id and an
	// InsufficientStockError when the resulting stock would be negative.
	AdjustStock(ctx context.Context, id int64, delta int32) (*Product, error)
}
