// Package report builds sales reports over the recorded orders.
// Cancelled orders never contribute to a report.
package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abgdnv/retailcore/internal/catalog"
	catalogerrors "github.com/abgdnv/retailcore/internal/catalog/errors"
	"github.com/abgdnv/retailcore/internal/customer"
	orderstore "github.com/abgdnv/retailcore/internal/order/store"
)

// ReportService defines the reporting queries.
type ReportService interface {
	// TopSellingProducts returns the best selling products by sold quantity,
	// highest first, limited to limit products.
	TopSellingProducts(ctx context.Context, limit int32) ([]ProductSalesDto, error)

	// RevenueBetween sums the totals of non-cancelled orders created in [from, to).
	RevenueBetween(ctx context.Context, from, to time.Time) (*RevenueDto, error)

	// FrequentCustomers returns customers with at least minOrders
	// non-cancelled orders, most orders first.
	FrequentCustomers(ctx context.Context, minOrders int64) ([]CustomerOrdersDto, error)
}

// Service implements ReportService on top of the order store's aggregates,
// resolving names through the catalog and customer services.
type Service struct {
	orders    orderstore.OrderStore
	products  catalog.ProductService
	customers customer.CustomerService
}

// NewService creates a new instance of ReportService with the provided dependencies.
func NewService(orders orderstore.OrderStore, products catalog.ProductService, customers customer.CustomerService) *Service {
	return &Service{
		orders:    orders,
		products:  products,
		customers: customers,
	}
}

// ProductSalesDto represents one row of the top sellers report.
type ProductSalesDto struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Sold      int64  `json:"sold"`
}

// RevenueDto represents the revenue report for a time window.
type RevenueDto struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Revenue int64  `json:"revenue"`
}

// CustomerOrdersDto represents one row of the frequent customers report.
type CustomerOrdersDto struct {
	CustomerID int64  `json:"customer_id"`
	Name       string `json:"name"`
	Orders     int64  `json:"orders"`
}

// TopSellingProducts returns per-product sold quantities, highest first.
// Products that have since left the catalog keep their row with an empty name.
func (s *Service) TopSellingProducts(ctx context.Context, limit int32) ([]ProductSalesDto, error) {
	sales, err := s.orders.TopSellers(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch top sellers: %w", err)
	}

	report := make([]ProductSalesDto, 0, len(sales))
	for _, sale := range sales {
		row := ProductSalesDto{ProductID: sale.ProductID, Sold: sale.Sold}
		product, err := s.products.FindByID(ctx, sale.ProductID)
		if err != nil {
			if !errors.Is(err, catalogerrors.ErrProductNotFound) {
				return nil, fmt.Errorf("failed to resolve product %d: %w", sale.ProductID, err)
			}
		} else {
			row.Name = product.Name
		}
		report = append(report, row)
	}
	return report, nil
}

// RevenueBetween sums the totals of non-cancelled orders created in [from, to).
func (s *Service) RevenueBetween(ctx context.Context, from, to time.Time) (*RevenueDto, error) {
	revenue, err := s.orders.RevenueBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch revenue: %w", err)
	}
	return &RevenueDto{
		From:    from.Format(time.RFC3339),
		To:      to.Format(time.RFC3339),
		Revenue: revenue,
	}, nil
}

// FrequentCustomers returns customers with at least minOrders non-cancelled
// orders, most orders first.
func (s *Service) FrequentCustomers(ctx context.Context, minOrders int64) ([]CustomerOrdersDto, error) {
	counts, err := s.orders.OrderCountsByCustomer(ctx, minOrders)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch customer order counts: %w", err)
	}

	report := make([]CustomerOrdersDto, 0, len(counts))
	for _, count := range counts {
		row := CustomerOrdersDto{CustomerID: count.CustomerID, Orders: count.Orders}
		c, err := s.customers.FindByID(ctx, count.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve customer %d: %w", count.CustomerID, err)
		}
		row.Name = c.Name
		report = append(report, row)
	}
	return report, nil
}
