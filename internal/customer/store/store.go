// Package store provides an interface for customer storage operations.
package store

import (
	"context"
	"time"
)

// Customer represents a customer row.
// OrderIDs is append-only: order placement adds to it, nothing removes from it.
type Customer struct {
	ID        int64
	Name      string
	Email     string
	Phone     string
	City      string
	OrderIDs  []int64
	CreatedAt time.Time
}

// CreateParams holds the fields for a new customer.
type CreateParams struct {
	Name  string
	Email string
	Phone string
	City  string
}

// UpdateParams holds the mutable fields of an existing customer.
type UpdateParams struct {
	ID    int64
	Name  string
	Email string
	Phone string
	City  string
}

// SearchParams narrows a customer listing. Empty fields match everything.
type SearchParams struct {
	Email string
	City  string
	Limit int32
}

// CustomerStore is an interface for customer storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
type CustomerStore interface {
	// FindByID retrieves a single customer by its unique identifier.
	// Returns ErrCustomerNotFound if no customer exists with the given ID.
	FindByID(ctx context.Context, id int64) (*Customer, error)

	// FindByEmail retrieves a single customer by its unique email.
	// Returns ErrCustomerNotFound if no customer exists with the given email.
	FindByEmail(ctx context.Context, email string) (*Customer, error)

	// Search returns customers matching params, ordered by id ascending.
	Search(ctx context.Context, params SearchParams) ([]Customer, error)

	// Create adds a new customer. Returns ErrDuplicateEmail if the email is taken.
	Create(ctx context.Context, params CreateParams) (*Customer, error)

	// Update modifies an existing customer's contact details.
	// Returns ErrCustomerNotFound for an unknown id and ErrDuplicateEmail
	// when the new email belongs to another customer.
	Update(ctx context.Context, params UpdateParams) (*Customer, error)

	// AppendOrder records an order id against the customer's history.
	// Returns ErrCustomerNotFound for an unknown id.
	AppendOrder(ctx context.Context, id int64, orderID int64) error
}
