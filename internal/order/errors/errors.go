// Package errors provides the typed error set for order operations.
package errors

import (
	"errors"
	"fmt"
)

var ErrOrderNotFound = errors.New("order not found")
var ErrEmptyOrder = errors.New("order must contain at least one item")
var ErrInvalidQuantity = errors.New("item quantity must be greater than zero")

var ErrInvalidStateTransition = errors.New("invalid order state transition")

// InvalidStateTransitionError carries the order and statuses involved in a
// rejected transition. It matches ErrInvalidStateTransition under errors.Is.
type InvalidStateTransitionError struct {
	OrderID   int64
	Current   string
	Attempted string
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("order %d cannot move from %s to %s", e.OrderID, e.Current, e.Attempted)
}

func (e *InvalidStateTransitionError) Unwrap() error {
	return ErrInvalidStateTransition
}
