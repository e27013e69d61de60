package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/abgdnv/retailcore/internal/catalog"
	catalogerrors "github.com/abgdnv/retailcore/internal/catalog/errors"
	"github.com/stretchr/testify/assert"
)

// mockProductService is a mock implementation of the ProductService interface
type mockProductService struct {
	product  *catalog.ProductDto
	products []catalog.ProductDto
	error    error
}

func (m *mockProductService) FindByID(_ context.Context, _ int64) (*catalog.ProductDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.product, nil
}

func (m *mockProductService) FindBySKU(_ context.Context, _ string) (*catalog.ProductDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.product, nil
}

func (m *mockProductService) FindAll(_ context.Context, _ int32, _ string) ([]catalog.ProductDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.products, nil
}

func (m *mockProductService) Create(_ context.Context, _ catalog.ProductCreateDto) (*catalog.ProductDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.product, nil
}

func (m *mockProductService) AdjustStock(_ context.Context, _ int64, _ int32) (*catalog.ProductDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.product, nil
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// toJSON is a helper function to convert a struct to JSON string
func toJSON(t *testing.T, v interface{}) string {
	t.Helper()
	bytes, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal to JSON: %v", err)
	}
	return string(bytes)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func Test_ProductAPI_FindByID(t *testing.T) {
	testCases := []struct {
		name         string
		mockService  mockProductService
		productID    string
		expectedCode int
		expectedBody string
	}{
		{
			name: "Success - product found",
			mockService: mockProductService{
				product: &catalog.ProductDto{ID: 1, SKU: "TOY-1", Name: "Toy", Price: 100, Stock: 10, Category: "toys"},
			},
			productID:    "1",
			expectedCode: http.StatusOK,
			expectedBody: toJSON(t, catalog.ProductDto{ID: 1, SKU: "TOY-1", Name: "Toy", Price: 100, Stock: 10, Category: "toys"}),
		},
		{
			name: "Error - product not found",
			mockService: mockProductService{
				error: catalogerrors.ErrProductNotFound,
			},
			productID:    "42",
			expectedCode: http.StatusNotFound,
			expectedBody: toJSON(t, ErrorResponse{Error: "Product with ID 42 not found"}),
		},
		{
			name:         "Error - invalid id",
			mockService:  mockProductService{},
			productID:    "abc",
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ErrorResponse{Error: "Invalid ID: abc"}),
		},
		{
			name: "Error - service error",
			mockService: mockProductService{
				error: errors.New("service unavailable"),
			},
			productID:    "1",
			expectedCode: http.StatusInternalServerError,
			expectedBody: toJSON(t, ErrorResponse{Error: "Failed to retrieve product with ID 1"}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			api := NewProductHandler(&tc.mockService, discardLogger())
			req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+tc.productID, nil)
			req.SetPathValue("id", tc.productID)
			rr := httptest.NewRecorder()

			// when
			api.FindByID(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
		})
	}
}

func Test_ProductAPI_Create(t *testing.T) {
	testCases := []struct {
		name         string
		mockService  mockProductService
		body         string
		expectedCode int
		expectedBody string
	}{
		{
			name: "Success - product created",
			mockService: mockProductService{
				product: &catalog.ProductDto{ID: 1, SKU: "TOY-1", Name: "Toy", Price: 100, Stock: 10},
			},
			body:         `{"sku":"TOY-1","name":"Toy","price":100,"stock":10}`,
			expectedCode: http.StatusCreated,
			expectedBody: toJSON(t, catalog.ProductDto{ID: 1, SKU: "TOY-1", Name: "Toy", Price: 100, Stock: 10}),
		},
		{
			name: "Error - duplicate SKU",
			mockService: mockProductService{
				error: catalogerrors.ErrDuplicateSKU,
			},
			body:         `{"sku":"TOY-1","name":"Toy","price":100,"stock":10}`,
			expectedCode: http.StatusConflict,
			expectedBody: toJSON(t, ErrorResponse{Error: "Product with SKU TOY-1 already exists"}),
		},
		{
			name: "Error - invalid price",
			mockService: mockProductService{
				error: catalogerrors.ErrInvalidPrice,
			},
			body:         `{"sku":"TOY-1","name":"Toy","price":100,"stock":10}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ErrorResponse{Error: "price must be greater than zero"}),
		},
		{
			name:         "Error - missing required fields",
			mockService:  mockProductService{},
			body:         `{"price":100}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"validation_errors":{"SKU":"failed on rule: required","Name":"failed on rule: required"}}`,
		},
		{
			name:         "Error - malformed body",
			mockService:  mockProductService{},
			body:         `{`,
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ErrorResponse{Error: "Invalid request body"}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			api := NewProductHandler(&tc.mockService, discardLogger())
			req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(tc.body))
			rr := httptest.NewRecorder()

			// when
			api.Create(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
		})
	}
}

func Test_ProductAPI_AdjustStock(t *testing.T) {
	testCases := []struct {
		name         string
		mockService  mockProductService
		body         string
		expectedCode int
		expectedBody string
	}{
		{
			name: "Success - stock adjusted",
			mockService: mockProductService{
				product: &catalog.ProductDto{ID: 1, SKU: "TOY-1", Name: "Toy", Price: 100, Stock: 7},
			},
			body:         `{"delta":-3}`,
			expectedCode: http.StatusOK,
			expectedBody: toJSON(t, catalog.ProductDto{ID: 1, SKU: "TOY-1", Name: "Toy", Price: 100, Stock: 7}),
		},
		{
			name: "Error - insufficient stock",
			mockService: mockProductService{
				error: &catalogerrors.InsufficientStockError{ProductID: 1, Available: 2, Requested: 5},
			},
			body:         `{"delta":-5}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ErrorResponse{Error: "insufficient stock for product 1: available 2, requested 5"}),
		},
		{
			name: "Error - product not found",
			mockService: mockProductService{
				error: catalogerrors.ErrProductNotFound,
			},
			body:         `{"delta":-5}`,
			expectedCode: http.StatusNotFound,
			expectedBody: toJSON(t, ErrorResponse{Error: "Product with ID 1 not found"}),
		},
		{
			name:         "Error - zero delta rejected",
			mockService:  mockProductService{},
			body:         `{"delta":0}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"validation_errors":{"Delta":"failed on rule: required"}}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			api := NewProductHandler(&tc.mockService, discardLogger())
			req := httptest.NewRequest(http.MethodPut, "/api/v1/products/1/stock", strings.NewReader(tc.body))
			req.SetPathValue("id", "1")
			rr := httptest.NewRecorder()

			// when
			api.AdjustStock(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
		})
	}
}

func Test_ProductAPI_FindAll(t *testing.T) {
	t.Run("returns the product list", func(t *testing.T) {
		// given
		api := NewProductHandler(&mockProductService{
			products: []catalog.ProductDto{{ID: 1, SKU: "TOY-1", Name: "Toy", Price: 100, Stock: 10}},
		}, discardLogger())
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products?limit=5", nil)
		rr := httptest.NewRecorder()

		// when
		api.FindAll(rr, req)

		// then
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, toJSON(t, []catalog.ProductDto{{ID: 1, SKU: "TOY-1", Name: "Toy", Price: 100, Stock: 10}}), rr.Body.String())
	})

	t.Run("rejects a non-positive limit", func(t *testing.T) {
		// given
		api := NewProductHandler(&mockProductService{}, discardLogger())
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products?limit=0", nil)
		rr := httptest.NewRecorder()

		// when
		api.FindAll(rr, req)

		// then
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
