// Package errors provides the typed error set for catalog operations.
package errors

import (
	"errors"
	"fmt"
)

var ErrProductNotFound = errors.New("product not found")
var ErrDuplicateSKU = errors.New("sku already exists")
var ErrInvalidPrice = errors.New("price must be greater than zero")
var ErrInvalidStock = errors.New("stock must not be negative")

var ErrInsufficientStock = errors.New("insufficient stock")

// InsufficientStockError carries the product and quantities involved in a
// rejected stock deduction. It matches ErrInsufficientStock under errors.Is.
type InsufficientStockError struct {
	ProductID int64
	Available int32
	Requested int32
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: available %d, requested %d",
		e.ProductID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}
