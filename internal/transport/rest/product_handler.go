package rest

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abgdnv/retailcore/internal/catalog"
	catalogerrors "github.com/abgdnv/retailcore/internal/catalog/errors"
	"github.com/abgdnv/retailcore/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

const defaultListLimit = 50

// ProductHandler serves the product catalog endpoints.
type ProductHandler struct {
	service  catalog.ProductService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewProductHandler creates a new instance of ProductHandler with the provided service.
func NewProductHandler(service catalog.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the product catalog.
func (h *ProductHandler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", h.FindAll)
		r.Post("/", h.Create)
		r.Get("/sku/{sku}", h.FindBySKU)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.FindByID)
			r.Put("/stock", h.AdjustStock)
		})
	})

	r.Get("/healthz", h.HealthCheck)
}

// FindByID retrieves a product by its ID.
func (h *ProductHandler) FindByID(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(h.logger, r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to find product by ID", "ID", id)
	found, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrProductNotFound) {
			mLogger.WarnContext(r.Context(), "Product not found", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %d not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving product", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve product with ID %d", id))
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

// FindBySKU retrieves a product by its SKU.
func (h *ProductHandler) FindBySKU(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(h.logger, r)
	sku := r.PathValue("sku")
	if sku == "" {
		web.RespondError(w, mLogger, http.StatusBadRequest, "SKU is required")
		return
	}

	found, err := h.service.FindBySKU(r.Context(), sku)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrProductNotFound) {
			mLogger.WarnContext(r.Context(), "Product not found", "SKU", sku)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with SKU %s not found", sku))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving product", "SKU", sku, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve product with SKU %s", sku))
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

// FindAll retrieves a list of products, optionally filtered by category.
func (h *ProductHandler) FindAll(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(h.logger, r)
	limit, ok := web.ParseOptionalGte(r, w, mLogger, "limit", defaultListLimit, 1)
	if !ok {
		return
	}
	category := r.URL.Query().Get("category")

	mLogger.DebugContext(r.Context(), "Received request to find all products", "limit", limit, "category", category)
	list, err := h.service.FindAll(r.Context(), limit, category)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving product list", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// Create handles the creation of a new product.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(h.logger, r)
	var productCreateDto catalog.ProductCreateDto
	if !decodeAndValidate(w, r, mLogger, h.validate, &productCreateDto) {
		return
	}

	newProduct, err := h.service.Create(r.Context(), productCreateDto)
	if err != nil {
		switch {
		case errors.Is(err, catalogerrors.ErrDuplicateSKU):
			mLogger.WarnContext(r.Context(), "Duplicate SKU", "SKU", productCreateDto.SKU)
			web.RespondError(w, mLogger, http.StatusConflict, fmt.Sprintf("Product with SKU %s already exists", productCreateDto.SKU))
		case errors.Is(err, catalogerrors.ErrInvalidPrice), errors.Is(err, catalogerrors.ErrInvalidStock):
			mLogger.WarnContext(r.Context(), "Invalid product payload", "error", err)
			web.RespondError(w, mLogger, http.StatusBadRequest, err.Error())
		default:
			mLogger.ErrorContext(r.Context(), "Error creating product", "error", err)
			web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to create product")
		}
		return
	}
	mLogger.InfoContext(r.Context(), "Product created successfully", "ID", newProduct.ID, "SKU", newProduct.SKU)
	web.RespondJSON(w, mLogger, http.StatusCreated, newProduct)
}

// AdjustStock applies a stock delta to a product.
func (h *ProductHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(h.logger, r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	var stockAdjustDto catalog.StockAdjustDto
	if !decodeAndValidate(w, r, mLogger, h.validate, &stockAdjustDto) {
		return
	}

	updated, err := h.service.AdjustStock(r.Context(), id, stockAdjustDto.Delta)
	if err != nil {
		switch {
		case errors.Is(err, catalogerrors.ErrProductNotFound):
			mLogger.WarnContext(r.Context(), "Product not found for stock adjustment", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %d not found", id))
		case errors.Is(err, catalogerrors.ErrInsufficientStock):
			mLogger.WarnContext(r.Context(), "Insufficient stock", "ID", id, "error", err)
			web.RespondError(w, mLogger, http.StatusBadRequest, err.Error())
		default:
			mLogger.ErrorContext(r.Context(), "Error adjusting stock", "ID", id, "error", err)
			web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to adjust stock for product with ID %d", id))
		}
		return
	}
	mLogger.InfoContext(r.Context(), "Stock adjusted successfully", "ID", updated.ID, "NewStock", updated.Stock)
	web.RespondJSON(w, mLogger, http.StatusOK, updated)
}

// HealthCheck is a simple health check endpoint.
func (h *ProductHandler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}
