// Package app contains the application setup for the retail service.
package app

import (
	"log/slog"
	"net/http"

	"github.com/abgdnv/retailcore/internal/catalog"
	catalogstore "github.com/abgdnv/retailcore/internal/catalog/store"
	"github.com/abgdnv/retailcore/internal/config"
	"github.com/abgdnv/retailcore/internal/customer"
	customerstore "github.com/abgdnv/retailcore/internal/customer/store"
	"github.com/abgdnv/retailcore/internal/order"
	orderstore "github.com/abgdnv/retailcore/internal/order/store"
	"github.com/abgdnv/retailcore/internal/report"
	"github.com/abgdnv/retailcore/internal/transport/rest"
	"github.com/abgdnv/retailcore/pkg/messaging"
	"github.com/abgdnv/retailcore/pkg/server"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Dependencies struct {
	ProductService  catalog.ProductService
	CustomerService customer.CustomerService
	OrderService    order.OrderService
	ReportService   report.ReportService
	Logger          *slog.Logger
	MetricsHandler  http.Handler
}

func SetupDependencies(dbPool *pgxpool.Pool, publisher messaging.Publisher, logger *slog.Logger, metricsHandler http.Handler) *Dependencies {
	products := catalog.NewService(catalogstore.NewPgStore(dbPool))
	customers := customer.NewService(customerstore.NewPgStore(dbPool))
	orders := orderstore.NewPgStore(dbPool)

	return &Dependencies{
		ProductService:  products,
		CustomerService: customers,
		OrderService:    order.NewService(orders, products, customers, publisher, logger),
		ReportService:   report.NewService(orders, products, customers),
		Logger:          logger,
		MetricsHandler:  metricsHandler,
	}
}

// SetupHttpHandler initializes the HTTP routes for the retail application.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

// wireRoutes sets up the HTTP routes for the retail application.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	rest.NewProductHandler(deps.ProductService, deps.Logger).RegisterRoutes(mux)
	rest.NewCustomerHandler(deps.CustomerService, deps.Logger).RegisterRoutes(mux)
	rest.NewOrderHandler(deps.OrderService, deps.Logger).RegisterRoutes(mux)
	rest.NewReportHandler(deps.ReportService, deps.Logger).RegisterRoutes(mux)

	if deps.MetricsHandler != nil {
		mux.Handle("/metrics", deps.MetricsHandler)
	}
}

// SetupHttpServer creates and configures an HTTP server for the retail application.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux)
}
