package catalog

import (
	"context"
	"errors"
	"testing"

	cerrors "github.com/abgdnv/retailcore/internal/catalog/errors"
	"github.com/abgdnv/retailcore/internal/catalog/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockProductStore is a mock implementation of the ProductStore interface
type mockProductStore struct {
	products []store.Product
	product  store.Product
	error    error
}

// Simulate finding a product by ID
func (m *mockProductStore) FindByID(_ context.Context, _ int64) (*store.Product, error) {
	return &m.product, m.error
}

// Simulate finding a product by SKU
func (m *mockProductStore) FindBySKU(_ context.Context, _ string) (*store.Product, error) {
	return &m.product, m.error
}

// Simulate finding all products
func (m *mockProductStore) FindAll(_ context.Context, _ int32, _ string) ([]store.Product, error) {
	return m.products, m.error
}

// Simulate creating a product
func (m *mockProductStore) Create(_ context.Context, _ store.CreateParams) (*store.Product, error) {
	return &m.product, m.error
}

// Simulate adjusting product stock
func (m *mockProductStore) AdjustStock(_ context.Context, _ int64, _ int32) (*store.Product, error) {
	return &m.product, m.error
}

func Test_ProductService_FindByID(t *testing.T) {
	testCases := []struct {
		name        string
		mockStore   *mockProductStore
		productID   int64
		expected    *ProductDto
		expectError error
	}{
		{
			name: "Success - product found",
			mockStore: &mockProductStore{
				product: store.Product{ID: 1, SKU: "TOY-1", Name: "Toy", Price: 100, Stock: 10},
				error:   nil,
			},
			productID:   1,
			expected:    &ProductDto{ID: 1, SKU: "TOY-1", Name: "Toy", Price: 100, Stock: 10},
			expectError: nil,
		},
		{
			name: "Error - product not found",
			mockStore: &mockProductStore{
				error: cerrors.ErrProductNotFound,
			},
			productID:   42,
			expected:    nil,
			expectError: cerrors.ErrProductNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service := NewService(tc.mockStore)
			// when
			found, err := service.FindByID(context.Background(), tc.productID)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, found)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, found)
		})
	}
}

func Test_ProductService_FindBySKU(t *testing.T) {
	testCases := []struct {
		name        string
		mockStore   *mockProductStore
		sku         string
		expected    *ProductDto
		expectError error
	}{
		{
			name: "Success - product found",
			mockStore: &mockProductStore{
				product: store.Product{ID: 1, SKU: "TOY-1", Name: "Toy", Price: 100, Stock: 10},
				error:   nil,
			},
			sku:         "TOY-1",
			expected:    &ProductDto{ID: 1, SKU: "TOY-1", Name: "Toy", Price: 100, Stock: 10},
			expectError: nil,
		},
		{
			name: "Error - product not found",
			mockStore: &mockProductStore{
				error: cerrors.ErrProductNotFound,
			},
			sku:         "MISSING",
			expected:    nil,
			expectError: cerrors.ErrProductNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service := NewService(tc.mockStore)
			// when
			found, err := service.FindBySKU(context.Background(), tc.sku)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, found)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, found)
		})
	}
}

func Test_ProductService_FindAll(t *testing.T) {
	ErrStoreError := errors.New("store error")
	testCases := []struct {
		name         string
		mockStore    *mockProductStore
		expectedList []ProductDto
		expectError  error
	}{
		{
			name: "Success - products found",
			mockStore: &mockProductStore{
				products: []store.Product{{ID: 1, SKU: "TOY-1", Name: "Toy", Price: 100, Stock: 10}},
				error:    nil,
			},
			expectedList: []ProductDto{{ID: 1, SKU: "TOY-1", Name: "Toy", Price: 100, Stock: 10}},
			expectError:  nil,
		},
		{
			name: "Success - no products",
			mockStore: &mockProductStore{
				products: []store.Product{},
				error:    nil,
			},
			expectedList: []ProductDto{},
			expectError:  nil,
		},
		{
			name: "Error - store error",
			mockStore: &mockProductStore{
				error: ErrStoreError,
			},
			expectedList: nil,
			expectError:  ErrStoreError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service := NewService(tc.mockStore)
			// when
			found, err := service.FindAll(context.Background(), 10, "")
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, found)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedList, found)
		})
	}
}

func Test_ProductService_Create(t *testing.T) {
	ErrStoreError := errors.New("store error")
	testCases := []struct {
		name        string
		mockStore   *mockProductStore
		product     ProductCreateDto
		expected    *ProductDto
		expectError error
	}{
		{
			name: "Success - product created",
			mockStore: &mockProductStore{
				product: store.Product{ID: 1, SKU: "TOY-1", Name: "Toy", Price: 100, Stock: 10, Category: "toys"},
				error:   nil,
			},
			product:     ProductCreateDto{SKU: "TOY-1", Name: "Toy", Price: 100, Stock: 10, Category: "toys"},
			expected:    &ProductDto{ID: 1, SKU: "TOY-1", Name: "Toy", Price: 100, Stock: 10, Category: "toys"},
			expectError: nil,
		},
		{
			name:        "Error - zero price rejected",
			mockStore:   &mockProductStore{},
			product:     ProductCreateDto{SKU: "TOY-1", Name: "Toy", Price: 0, Stock: 10},
			expected:    nil,
			expectError: cerrors.ErrInvalidPrice,
		},
		{
			name:        "Error - negative price rejected",
			mockStore:   &mockProductStore{},
			product:     ProductCreateDto{SKU: "TOY-1", Name: "Toy", Price: -5, Stock: 10},
			expected:    nil,
			expectError: cerrors.ErrInvalidPrice,
		},
		{
			name:        "Error - negative stock rejected",
			mockStore:   &mockProductStore{},
			product:     ProductCreateDto{SKU: "TOY-1", Name: "Toy", Price: 100, Stock: -1},
			expected:    nil,
			expectError: cerrors.ErrInvalidStock,
		},
		{
			name: "Error - duplicate SKU",
			mockStore: &mockProductStore{
				error: cerrors.ErrDuplicateSKU,
			},
			product:     ProductCreateDto{SKU: "TOY-1", Name: "Toy", Price: 100, Stock: 10},
			expected:    nil,
			expectError: cerrors.ErrDuplicateSKU,
		},
		{
			name: "Error - store error",
			mockStore: &mockProductStore{
				error: ErrStoreError,
			},
			product:     ProductCreateDto{SKU: "TOY-1", Name: "Toy", Price: 100, Stock: 10},
			expected:    nil,
			expectError: ErrStoreError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service := NewService(tc.mockStore)
			// when
			created, err := service.Create(context.Background(), tc.product)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, created)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, created)
		})
	}
}

func Test_ProductService_AdjustStock(t *testing.T) {
	testCases := []struct {
		name        string
		mockStore   *mockProductStore
		productID   int64
		delta       int32
		expected    *ProductDto
		expectError error
	}{
		{
			name: "Success - stock deducted",
			mockStore: &mockProductStore{
				product: store.Product{ID: 1, SKU: "TOY-1", Name: "Toy", Price: 100, Stock: 7},
				error:   nil,
			},
			productID:   1,
			delta:       -3,
			expected:    &ProductDto{ID: 1, SKU: "TOY-1", Name: "Toy", Price: 100, Stock: 7},
			expectError: nil,
		},
		{
			name: "Error - product not found",
			mockStore: &mockProductStore{
				error: cerrors.ErrProductNotFound,
			},
			productID:   42,
			delta:       -1,
			expected:    nil,
			expectError: cerrors.ErrProductNotFound,
		},
		{
			name: "Error - insufficient stock",
			mockStore: &mockProductStore{
				error: &cerrors.InsufficientStockError{ProductID: 1, Available: 2, Requested: 5},
			},
			productID:   1,
			delta:       -5,
			expected:    nil,
			expectError: cerrors.ErrInsufficientStock,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service := NewService(tc.mockStore)
			// when
			updated, err := service.AdjustStock(context.Background(), tc.productID, tc.delta)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, updated)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, updated)
		})
	}
}

func Test_ProductService_AdjustStock_TypedError(t *testing.T) {
	// given
	service := NewService(&mockProductStore{
		error: &cerrors.InsufficientStockError{ProductID: 1, Available: 2, Requested: 5},
	})
	// when
	_, err := service.AdjustStock(context.Background(), 1, -5)
	// then
	var insufficient *cerrors.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(1), insufficient.ProductID)
	assert.Equal(t, int32(2), insufficient.Available)
	assert.Equal(t, int32(5), insufficient.Requested)
}
