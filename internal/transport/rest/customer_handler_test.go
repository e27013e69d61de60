package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/abgdnv/retailcore/internal/customer"
	customererrors "github.com/abgdnv/retailcore/internal/customer/errors"
	"github.com/stretchr/testify/assert"
)

// mockCustomerService is a mock implementation of the CustomerService interface
type mockCustomerService struct {
	customer  *customer.CustomerDto
	customers []customer.CustomerDto
	error     error
}

func (m *mockCustomerService) FindByID(_ context.Context, _ int64) (*customer.CustomerDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.customer, nil
}

func (m *mockCustomerService) FindByEmail(_ context.Context, _ string) (*customer.CustomerDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.customer, nil
}

func (m *mockCustomerService) Search(_ context.Context, _, _ string, _ int32) ([]customer.CustomerDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.customers, nil
}

func (m *mockCustomerService) Create(_ context.Context, _ customer.CustomerCreateDto) (*customer.CustomerDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.customer, nil
}

func (m *mockCustomerService) Update(_ context.Context, _ int64, _ customer.CustomerUpdateDto) (*customer.CustomerDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.customer, nil
}

func (m *mockCustomerService) AppendOrder(_ context.Context, _ int64, _ int64) error {
	return m.error
}

func Test_CustomerAPI_FindByID(t *testing.T) {
	alice := &customer.CustomerDto{ID: 1, Name: "Alice", Email: "alice@example.com", City: "Riga", OrderIDs: []int64{3}}
	testCases := []struct {
		name         string
		mockService  mockCustomerService
		customerID   string
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - customer found",
			mockService:  mockCustomerService{customer: alice},
			customerID:   "1",
			expectedCode: http.StatusOK,
			expectedBody: toJSON(t, alice),
		},
		{
			name: "Error - customer not found",
			mockService: mockCustomerService{
				error: customererrors.ErrCustomerNotFound,
			},
			customerID:   "42",
			expectedCode: http.StatusNotFound,
			expectedBody: toJSON(t, ErrorResponse{Error: "Customer with ID 42 not found"}),
		},
		{
			name:         "Error - invalid id",
			mockService:  mockCustomerService{},
			customerID:   "abc",
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ErrorResponse{Error: "Invalid ID: abc"}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			api := NewCustomerHandler(&tc.mockService, discardLogger())
			req := httptest.NewRequest(http.MethodGet, "/api/v1/customers/"+tc.customerID, nil)
			req.SetPathValue("id", tc.customerID)
			rr := httptest.NewRecorder()

			// when
			api.FindByID(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
		})
	}
}

func Test_CustomerAPI_Create(t *testing.T) {
	alice := &customer.CustomerDto{ID: 1, Name: "Alice", Email: "alice@example.com", OrderIDs: []int64{}}
	testCases := []struct {
		name         string
		mockService  mockCustomerService
		body         string
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - customer created",
			mockService:  mockCustomerService{customer: alice},
			body:         `{"name":"Alice","email":"alice@example.com"}`,
			expectedCode: http.StatusCreated,
			expectedBody: toJSON(t, alice),
		},
		{
			name: "Error - duplicate email",
			mockService: mockCustomerService{
				error: customererrors.ErrDuplicateEmail,
			},
			body:         `{"name":"Alice","email":"alice@example.com"}`,
			expectedCode: http.StatusConflict,
			expectedBody: toJSON(t, ErrorResponse{Error: "Customer with this email already exists"}),
		},
		{
			name:         "Error - invalid email",
			mockService:  mockCustomerService{},
			body:         `{"name":"Alice","email":"not-an-email"}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"validation_errors":{"Email":"failed on rule: email"}}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			api := NewCustomerHandler(&tc.mockService, discardLogger())
			req := httptest.NewRequest(http.MethodPost, "/api/v1/customers", strings.NewReader(tc.body))
			rr := httptest.NewRecorder()

			// when
			api.Create(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
		})
	}
}

func Test_CustomerAPI_Update(t *testing.T) {
	testCases := []struct {
		name         string
		mockService  mockCustomerService
		body         string
		expectedCode int
	}{
		{
			name: "Success - customer updated",
			mockService: mockCustomerService{
				customer: &customer.CustomerDto{ID: 1, Name: "Alice B", Email: "alice.b@example.com", OrderIDs: []int64{}},
			},
			body:         `{"name":"Alice B","email":"alice.b@example.com"}`,
			expectedCode: http.StatusOK,
		},
		{
			name: "Error - customer not found",
			mockService: mockCustomerService{
				error: customererrors.ErrCustomerNotFound,
			},
			body:         `{"name":"Alice","email":"alice@example.com"}`,
			expectedCode: http.StatusNotFound,
		},
		{
			name: "Error - email taken",
			mockService: mockCustomerService{
				error: customererrors.ErrDuplicateEmail,
			},
			body:         `{"name":"Alice","email":"bob@example.com"}`,
			expectedCode: http.StatusConflict,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			api := NewCustomerHandler(&tc.mockService, discardLogger())
			req := httptest.NewRequest(http.MethodPut, "/api/v1/customers/1", strings.NewReader(tc.body))
			req.SetPathValue("id", "1")
			rr := httptest.NewRecorder()

			// when
			api.Update(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
		})
	}
}

func Test_CustomerAPI_Search(t *testing.T) {
	// given
	api := NewCustomerHandler(&mockCustomerService{
		customers: []customer.CustomerDto{{ID: 1, Name: "Alice", Email: "alice@example.com", City: "Riga", OrderIDs: []int64{}}},
	}, discardLogger())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers?city=Riga", nil)
	rr := httptest.NewRecorder()

	// when
	api.Search(rr, req)

	// then
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, toJSON(t, []customer.CustomerDto{{ID: 1, Name: "Alice", Email: "alice@example.com", City: "Riga", OrderIDs: []int64{}}}), rr.Body.String())
}
