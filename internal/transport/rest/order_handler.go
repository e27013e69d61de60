package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	catalogerrors "github.com/abgdnv/retailcore/internal/catalog/errors"
	customererrors "github.com/abgdnv/retailcore/internal/customer/errors"
	"github.com/abgdnv/retailcore/internal/order"
	ordererrors "github.com/abgdnv/retailcore/internal/order/errors"
	"github.com/abgdnv/retailcore/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// OrderHandler serves the order lifecycle endpoints.
type OrderHandler struct {
	service  order.OrderService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewOrderHandler creates a new instance of OrderHandler with the provided service.
func NewOrderHandler(service order.OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for orders.
func (h *OrderHandler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Post("/", h.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.FindByID)
			r.Get("/details", h.FindDetails)
			r.Post("/cancel", h.Cancel)
			r.Post("/complete", h.Complete)
		})
	})

	r.Get("/api/v1/customers/{id}/orders", h.FindByCustomer)
}

// FindByID retrieves an order by its ID.
func (h *OrderHandler) FindByID(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(h.logger, r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	found, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ordererrors.ErrOrderNotFound) {
			mLogger.WarnContext(r.Context(), "Order not found", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Order with ID %d not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving order", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve order with ID %d", id))
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

// FindDetails retrieves an order together with the owning customer's profile.
func (h *OrderHandler) FindDetails(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(h.logger, r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	details, err := h.service.FindDetails(r.Context(), id)
	if err != nil {
		if errors.Is(err, ordererrors.ErrOrderNotFound) {
			mLogger.WarnContext(r.Context(), "Order not found", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Order with ID %d not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving order details", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve details for order with ID %d", id))
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, details)
}

// FindByCustomer retrieves a customer's orders, paginated.
func (h *OrderHandler) FindByCustomer(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(h.logger, r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	offset, ok := web.ParseOptionalGte(r, w, mLogger, "offset", 0, 0)
	if !ok {
		return
	}
	limit, ok := web.ParseOptionalGte(r, w, mLogger, "limit", defaultListLimit, 1)
	if !ok {
		return
	}

	list, err := h.service.FindByCustomer(r.Context(), id, offset, limit)
	if err != nil {
		if errors.Is(err, customererrors.ErrCustomerNotFound) {
			mLogger.WarnContext(r.Context(), "Customer not found", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Customer with ID %d not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving customer orders", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve orders for customer with ID %d", id))
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// Create places a new order.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(h.logger, r)
	var orderCreateDto order.OrderCreateDto
	if !decodeAndValidate(w, r, mLogger, h.validate, &orderCreateDto) {
		return
	}

	placed, err := h.service.Create(r.Context(), orderCreateDto)
	if err != nil {
		switch {
		case errors.Is(err, customererrors.ErrCustomerNotFound):
			mLogger.WarnContext(r.Context(), "Customer not found for order", "customer_id", orderCreateDto.CustomerID)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Customer with ID %d not found", orderCreateDto.CustomerID))
		case errors.Is(err, catalogerrors.ErrProductNotFound):
			mLogger.WarnContext(r.Context(), "Product not found for order", "error", err)
			web.RespondError(w, mLogger, http.StatusNotFound, "Product not found")
		case errors.Is(err, catalogerrors.ErrInsufficientStock),
			errors.Is(err, ordererrors.ErrEmptyOrder),
			errors.Is(err, ordererrors.ErrInvalidQuantity):
			mLogger.WarnContext(r.Context(), "Order rejected", "error", err)
			web.RespondError(w, mLogger, http.StatusBadRequest, err.Error())
		default:
			mLogger.ErrorContext(r.Context(), "Error placing order", "error", err)
			web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to place order")
		}
		return
	}
	mLogger.InfoContext(r.Context(), "Order placed successfully", "ID", placed.ID, "customer_id", placed.CustomerID)
	web.RespondJSON(w, mLogger, http.StatusCreated, placed)
}

// Cancel moves a placed order to CANCELLED.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "cancel", h.service.Cancel)
}

// Complete moves a placed order to COMPLETED.
func (h *OrderHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "complete", h.service.Complete)
}

func (h *OrderHandler) transition(w http.ResponseWriter, r *http.Request, name string, fn func(ctx context.Context, id int64) (*order.OrderDto, error)) {
	mLogger := loggerWithReqID(h.logger, r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	updated, err := fn(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ordererrors.ErrOrderNotFound):
			mLogger.WarnContext(r.Context(), "Order not found", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Order with ID %d not found", id))
		case errors.Is(err, ordererrors.ErrInvalidStateTransition):
			mLogger.WarnContext(r.Context(), "Invalid order state transition", "ID", id, "error", err)
			web.RespondError(w, mLogger, http.StatusConflict, err.Error())
		default:
			mLogger.ErrorContext(r.Context(), "Error updating order", "ID", id, "error", err)
			web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to %s order with ID %d", name, id))
		}
		return
	}
	mLogger.InfoContext(r.Context(), "Order transitioned successfully", "ID", updated.ID, "status", updated.Status)
	web.RespondJSON(w, mLogger, http.StatusOK, updated)
}
