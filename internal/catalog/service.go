// Package catalog provides the implementation of product-related business logic.
package catalog

import (
	"context"
	"fmt"

	"github.com/abgdnv/retailcore/internal/catalog/errors"
	"github.com/abgdnv/retailcore/internal/catalog/store"
)

// ProductService defines the methods for managing products.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int64) (*ProductDto, error)

	// FindBySKU retrieves a single product by its unique SKU.
	// Returns ErrProductNotFound if no product exists with the given SKU.
	FindBySKU(ctx context.Context, sku string) (*ProductDto, error)

	// FindAll returns up to limit products, optionally filtered by category.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context, limit int32, category string) ([]ProductDto, error)

	// Create adds a new product to the catalog.
	// Returns ErrInvalidPrice, ErrInvalidStock or ErrDuplicateSKU on rejection.
	Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error)

	// AdjustStock atomically applies a delta to a product's stock.
	// Returns ErrProductNotFound for an unknown id and an
	// InsufficientStockError when the resulting stock would be negative.
	AdjustStock(ctx context.Context, id int64, delta int32) (*ProductDto, error)
}

// Service implements ProductService and provides methods to manage products.
type Service struct {
	repository store.ProductStore
}

// NewService creates a new instance of ProductService with the provided repository.
func NewService(repo store.ProductStore) *Service {
	return &Service{
		repository: repo,
	}
}

// ProductCreateDto represents the data transfer object for creating a new product.
type ProductCreateDto struct {
	SKU      string `json:"sku"      validate:"required,max=64"`
	Name     string `json:"name"     validate:"required,max=100"`
	Price    int64  `json:"price"    validate:"required"`
	Stock    int32  `json:"stock"`
	Category string `json:"category" validate:"max=100"`
}

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	ID       int64  `json:"id"`
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Stock    int32  `json:"stock"`
	Category string `json:"category"`
}

// StockAdjustDto represents the data transfer object for adjusting product stock.
type StockAdjustDto struct {
	Delta int32 `json:"delta" validate:"required"`
}

// FindByID retrieves a product by its ID and returns it as a ProductDto.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) FindByID(ctx context.Context, id int64) (*ProductDto, error) {
	product, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %d: %w", id, err)
	}

	return toDto(product), nil
}

// FindBySKU retrieves a product by its SKU and returns it as a ProductDto.
// Returns ErrProductNotFound if no product exists with the given SKU.
func (s *Service) FindBySKU(ctx context.Context, sku string) (*ProductDto, error) {
	product, err := s.repository.FindBySKU(ctx, sku)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by SKU %s: %w", sku, err)
	}

	return toDto(product), nil
}

// FindAll retrieves up to limit products and returns them as ProductDTOs.
// Returns an empty slice if no products exist or error if the retrieval fails.
func (s *Service) FindAll(ctx context.Context, limit int32, category string) ([]ProductDto, error) {
	products, err := s.repository.FindAll(ctx, limit, category)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	productDTOs := make([]ProductDto, len(products))

	for i, item := range products {
		productDTOs[i] = *toDto(&item)
	}

	return productDTOs, nil
}

// Create creates a new product and returns it as a ProductDto.
// Price must be positive and initial stock must not be negative.
func (s *Service) Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error) {
	if product.Price <= 0 {
		return nil, errors.ErrInvalidPrice
	}
	if product.Stock < 0 {
		return nil, errors.ErrInvalidStock
	}

	p, err := s.repository.Create(ctx, store.CreateParams{
		SKU:      product.SKU,
		Name:     product.Name,
		Price:    product.Price,
		Stock:    product.Stock,
		Category: product.Category,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return toDto(p), nil
}

// AdjustStock applies delta to the product's stock and returns the updated
// product as a ProductDto.
func (s *Service) AdjustStock(ctx context.Context, id int64, delta int32) (*ProductDto, error) {
	product, err := s.repository.AdjustStock(ctx, id, delta)
	if err != nil {
		return nil, fmt.Errorf("failed to adjust stock for product with ID %d: %w", id, err)
	}

	return toDto(product), nil
}

// toDto converts a store.Product to a ProductDto.
func toDto(product *store.Product) *ProductDto {
	return &ProductDto{
		ID:       product.ID,
		SKU:      product.SKU,
		Name:     product.Name,
		Price:    product.Price,
		Stock:    product.Stock,
		Category: product.Category,
	}
}
