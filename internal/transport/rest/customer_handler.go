package rest

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abgdnv/retailcore/internal/customer"
	customererrors "github.com/abgdnv/retailcore/internal/customer/errors"
	"github.com/abgdnv/retailcore/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// CustomerHandler serves the customer registry endpoints.
type CustomerHandler struct {
	service  customer.CustomerService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewCustomerHandler creates a new instance of CustomerHandler with the provided service.
func NewCustomerHandler(service customer.CustomerService, logger *slog.Logger) *CustomerHandler {
	return &CustomerHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the customer registry.
func (h *CustomerHandler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/customers", func(r chi.Router) {
		r.Get("/", h.Search)
		r.Post("/", h.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.FindByID)
			r.Put("/", h.Update)
		})
	})
}

// FindByID retrieves a customer by its ID.
func (h *CustomerHandler) FindByID(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(h.logger, r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	found, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, customererrors.ErrCustomerNotFound) {
			mLogger.WarnContext(r.Context(), "Customer not found", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Customer with ID %d not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving customer", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve customer with ID %d", id))
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

// Search retrieves customers filtered by email and city.
func (h *CustomerHandler) Search(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(h.logger, r)
	limit, ok := web.ParseOptionalGte(r, w, mLogger, "limit", defaultListLimit, 1)
	if !ok {
		return
	}
	email := r.URL.Query().Get("email")
	city := r.URL.Query().Get("city")

	mLogger.DebugContext(r.Context(), "Received request to search customers", "email", email, "city", city, "limit", limit)
	list, err := h.service.Search(r.Context(), email, city, limit)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error searching customers", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to search customers")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// Create handles the creation of a new customer.
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(h.logger, r)
	var customerCreateDto customer.CustomerCreateDto
	if !decodeAndValidate(w, r, mLogger, h.validate, &customerCreateDto) {
		return
	}

	newCustomer, err := h.service.Create(r.Context(), customerCreateDto)
	if err != nil {
		if errors.Is(err, customererrors.ErrDuplicateEmail) {
			mLogger.WarnContext(r.Context(), "Duplicate email", "email", customerCreateDto.Email)
			web.RespondError(w, mLogger, http.StatusConflict, "Customer with this email already exists")
			return
		}
		mLogger.ErrorContext(r.Context(), "Error creating customer", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to create customer")
		return
	}
	mLogger.InfoContext(r.Context(), "Customer created successfully", "ID", newCustomer.ID)
	web.RespondJSON(w, mLogger, http.StatusCreated, newCustomer)
}

// Update modifies an existing customer's contact details.
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(h.logger, r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	var customerUpdateDto customer.CustomerUpdateDto
	if !decodeAndValidate(w, r, mLogger, h.validate, &customerUpdateDto) {
		return
	}

	updated, err := h.service.Update(r.Context(), id, customerUpdateDto)
	if err != nil {
		switch {
		case errors.Is(err, customererrors.ErrCustomerNotFound):
			mLogger.WarnContext(r.Context(), "Customer not found for update", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Customer with ID %d not found", id))
		case errors.Is(err, customererrors.ErrDuplicateEmail):
			mLogger.WarnContext(r.Context(), "Duplicate email on update", "ID", id)
			web.RespondError(w, mLogger, http.StatusConflict, "Customer with this email already exists")
		default:
			mLogger.ErrorContext(r.Context(), "Error updating customer", "ID", id, "error", err)
			web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to update customer with ID %d", id))
		}
		return
	}
	mLogger.InfoContext(r.Context(), "Customer updated successfully", "ID", updated.ID)
	web.RespondJSON(w, mLogger, http.StatusOK, updated)
}
