package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/abgdnv/retailcore/internal/report"
	"github.com/abgdnv/retailcore/pkg/web"
	"github.com/go-chi/chi/v5"
)

// ReportHandler serves the sales report endpoints.
type ReportHandler struct {
	service report.ReportService
	logger  *slog.Logger
}

// NewReportHandler creates a new instance of ReportHandler with the provided service.
func NewReportHandler(service report.ReportService, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for reports.
func (h *ReportHandler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/reports", func(r chi.Router) {
		r.Get("/top-products", h.TopSellingProducts)
		r.Get("/revenue", h.Revenue)
		r.Get("/frequent-customers", h.FrequentCustomers)
	})
}

// TopSellingProducts returns the best selling products by sold quantity.
func (h *ReportHandler) TopSellingProducts(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(h.logger, r)
	limit, ok := web.ParseOptionalGte(r, w, mLogger, "limit", 10, 1)
	if !ok {
		return
	}

	list, err := h.service.TopSellingProducts(r.Context(), limit)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error building top products report", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to build report")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// Revenue returns the revenue of non-cancelled orders in [from, to).
// Both bounds are required RFC 3339 timestamps.
func (h *ReportHandler) Revenue(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(h.logger, r)
	from, ok := parseTime(w, r, mLogger, "from")
	if !ok {
		return
	}
	to, ok := parseTime(w, r, mLogger, "to")
	if !ok {
		return
	}
	if !to.After(from) {
		web.RespondError(w, mLogger, http.StatusBadRequest, "to must be after from")
		return
	}

	revenue, err := h.service.RevenueBetween(r.Context(), from, to)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error building revenue report", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to build report")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, revenue)
}

// FrequentCustomers returns customers with at least min_orders non-cancelled orders.
func (h *ReportHandler) FrequentCustomers(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(h.logger, r)
	minOrders, ok := web.ParseOptionalGte(r, w, mLogger, "min_orders", 2, 1)
	if !ok {
		return
	}

	list, err := h.service.FrequentCustomers(r.Context(), int64(minOrders))
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error building frequent customers report", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to build report")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

func parseTime(w http.ResponseWriter, r *http.Request, logger *slog.Logger, key string) (time.Time, bool) {
	value := r.URL.Query().Get(key)
	if value == "" {
		web.RespondError(w, logger, http.StatusBadRequest, key+" url parameter is required")
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		web.RespondError(w, logger, http.StatusBadRequest, "Invalid "+key+" timestamp, expected RFC 3339")
		return time.Time{}, false
	}
	return t, true
}
