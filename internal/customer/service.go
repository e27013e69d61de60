// Package customer provides the implementation of customer-related business logic.
package customer

import (
	"context"
	"fmt"

	"github.com/abgdnv/retailcore/internal/customer/store"
)

// CustomerService defines the methods for managing customers.
// It abstracts the underlying business logic and data access.
type CustomerService interface {
	// FindByID retrieves a single customer by its unique identifier.
	// Returns ErrCustomerNotFound if no customer exists with the given ID.
	FindByID(ctx context.Context, id int64) (*CustomerDto, error)

	// FindByEmail retrieves a single customer by its unique email.
	// Returns ErrCustomerNotFound if no customer exists with the given email.
	FindByEmail(ctx context.Context, email string) (*CustomerDto, error)

	// Search returns customers filtered by email and city.
	// Returns an empty slice if no customers match.
	Search(ctx context.Context, email, city string, limit int32) ([]CustomerDto, error)

	// Create adds a new customer.
	// Returns ErrDuplicateEmail if the email is taken.
	Create(ctx context.Context, customer CustomerCreateDto) (*CustomerDto, error)

	// Update modifies an existing customer's contact details.
	// Returns ErrCustomerNotFound if no customer exists with the given ID.
	Update(ctx context.Context, id int64, customer CustomerUpdateDto) (*CustomerDto, error)

	// AppendOrder records an order id against the customer's history.
	// Returns ErrCustomerNotFound if no customer exists with the given ID.
	AppendOrder(ctx context.Context, id int64, orderID int64) error
}

// Service implements CustomerService and provides methods to manage customers.
type Service struct {
	repository store.CustomerStore
}

// NewService creates a new instance of CustomerService with the provided repository.
func NewService(repo store.CustomerStore) *Service {
	return &Service{
		repository: repo,
	}
}

// CustomerCreateDto represents the data transfer object for creating a new customer.
type CustomerCreateDto struct {
	Name  string `json:"name"  validate:"required,max=100"`
	Email string `json:"email" validate:"required,email,max=254"`
	Phone string `json:"phone" validate:"max=32"`
	City  string `json:"city"  validate:"max=100"`
}

// CustomerUpdateDto represents the data transfer object for updating a customer.
type CustomerUpdateDto struct {
	Name  string `json:"name"  validate:"required,max=100"`
	Email string `json:"email" validate:"required,email,max=254"`
	Phone string `json:"phone" validate:"max=32"`
	City  string `json:"city"  validate:"max=100"`
}

// CustomerDto represents the data transfer object for a customer.
type CustomerDto struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Phone    string  `json:"phone"`
	City     string  `json:"city"`
	OrderIDs []int64 `json:"order_ids"`
}

// FindByID retrieves a customer by its ID and returns it as a CustomerDto.
// Returns ErrCustomerNotFound if no customer exists with the given ID.
func (s *Service) FindByID(ctx context.Context, id int64) (*CustomerDto, error) {
	customer, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch customer by ID %d: %w", id, err)
	}

	return toDto(customer), nil
}

// FindByEmail retrieves a customer by its email and returns it as a CustomerDto.
// Returns ErrCustomerNotFound if no customer exists with the given email.
func (s *Service) FindByEmail(ctx context.Context, email string) (*CustomerDto, error) {
	customer, err := s.repository.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch customer by email: %w", err)
	}

	return toDto(customer), nil
}

// Search retrieves customers matching the given filters and returns them as CustomerDTOs.
// Returns an empty slice if no customers match or error if the retrieval fails.
func (s *Service) Search(ctx context.Context, email, city string, limit int32) ([]CustomerDto, error) {
	customers, err := s.repository.Search(ctx, store.SearchParams{Email: email, City: city, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to search customers: %w", err)
	}
	customerDTOs := make([]CustomerDto, len(customers))

	for i, item := range customers {
		customerDTOs[i] = *toDto(&item)
	}

	return customerDTOs, nil
}

// Create creates a new customer and returns it as a CustomerDto.
// Returns ErrDuplicateEmail if the email is taken.
func (s *Service) Create(ctx context.Context, customer CustomerCreateDto) (*CustomerDto, error) {
	c, err := s.repository.Create(ctx, store.CreateParams{
		Name:  customer.Name,
		Email: customer.Email,
		Phone: customer.Phone,
		City:  customer.City,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	return toDto(c), nil
}

// Update modifies an existing customer's contact details and returns the updated customer as a CustomerDto.
// Returns ErrCustomerNotFound if no customer exists with the given ID.
func (s *Service) Update(ctx context.Context, id int64, customer CustomerUpdateDto) (*CustomerDto, error) {
	updated, err := s.repository.Update(ctx, store.UpdateParams{
		ID:    id,
		Name:  customer.Name,
		Email: customer.Email,
		Phone: customer.Phone,
		City:  customer.City,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update customer with ID %d: %w", id, err)
	}

	return toDto(updated), nil
}

// AppendOrder records an order id against the customer's history.
// Returns ErrCustomerNotFound if no customer exists with the given ID.
func (s *Service) AppendOrder(ctx context.Context, id int64, orderID int64) error {
	if err := s.repository.AppendOrder(ctx, id, orderID); err != nil {
		return fmt.Errorf("failed to append order %d to customer %d: %w", orderID, id, err)
	}
	return nil
}

// toDto converts a store.Customer to a CustomerDto.
func toDto(customer *store.Customer) *CustomerDto {
	return &CustomerDto{
		ID:       customer.ID,
		Name:     customer.Name,
		Email:    customer.Email,
		Phone:    customer.Phone,
		City:     customer.City,
		OrderIDs: customer.OrderIDs,
	}
}
