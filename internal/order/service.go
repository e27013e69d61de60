// Package order implements order placement and the order lifecycle,
// including the stock movements that go with both.
package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/abgdnv/retailcore/internal/catalog"
	catalogerrors "github.com/abgdnv/retailcore/internal/catalog/errors"
	"github.com/abgdnv/retailcore/internal/customer"
	ordererrors "github.com/abgdnv/retailcore/internal/order/errors"
	"github.com/abgdnv/retailcore/internal/order/store"
	"github.com/abgdnv/retailcore/pkg/messaging"
	"github.com/abgdnv/retailcore/pkg/messaging/events"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// OrderService defines the methods for placing orders and moving them
// through their lifecycle.
type OrderService interface {
	// FindByID retrieves a single order with its items.
	// Returns ErrOrderNotFound if no order exists with the given ID.
	FindByID(ctx context.Context, id int64) (*OrderDto, error)

	// FindDetails retrieves an order together with the owning customer's
	// profile. Returns ErrOrderNotFound if no order exists with the given ID.
	FindDetails(ctx context.Context, id int64) (*OrderDetailsDto, error)

	// FindByCustomer returns the customer's orders, paginated.
	// Returns ErrCustomerNotFound if no customer exists with the given ID.
	FindByCustomer(ctx context.Context, customerID int64, offset, limit int32) ([]OrderDto, error)

	// Create places a new order: captures current catalog prices, deducts
	// stock and records the order against the customer's history.
	Create(ctx context.Context, order OrderCreateDto) (*OrderDto, error)

	// Cancel moves a PLACED order to CANCELLED and restores the deducted
	// stock. Returns an InvalidStateTransitionError for terminal orders.
	Cancel(ctx context.Context, id int64) (*OrderDto, error)

	// Complete moves a PLACED order to COMPLETED.
	// Returns an InvalidStateTransitionError for terminal orders.
	Complete(ctx context.Context, id int64) (*OrderDto, error)
}

// Service implements OrderService on top of the order store, the product
// catalog and the customer registry.
type Service struct {
	orderStore    store.OrderStore
	products      catalog.ProductService
	customers     customer.CustomerService
	publisher     messaging.Publisher
	logger        *slog.Logger
	ordersCounter metric.Int64Counter
}

// NewService creates a new instance of OrderService with the provided dependencies.
func NewService(orderStore store.OrderStore, products catalog.ProductService, customers customer.CustomerService, publisher messaging.Publisher, logger *slog.Logger) *Service {
	meter := otel.Meter("retailcore")
	ordersCounter, err := meter.Int64Counter("orders_placed", metric.WithDescription("Total number of placed orders"))
	if err != nil {
		panic(fmt.Sprintf("failed to create orders_placed counter: %v", err))
	}
	return &Service{
		orderStore:    orderStore,
		products:      products,
		customers:     customers,
		publisher:     publisher,
		logger:        logger,
		ordersCounter: ordersCounter,
	}
}

// OrderDto represents the data transfer object for an order.
type OrderDto struct {
	ID          int64          `json:"id"`
	CustomerID  int64          `json:"customer_id"`
	Status      string         `json:"status"`
	TotalAmount int64          `json:"total_amount"`
	CreatedAt   string         `json:"created_at"`
	Items       []OrderItemDto `json:"items"`
}

// OrderItemDto represents one line of an order. UnitPrice is the catalog
// price captured at placement time.
type OrderItemDto struct {
	ID        int64 `json:"id"`
	ProductID int64 `json:"product_id"`
	Quantity  int32 `json:"quantity"`
	UnitPrice int64 `json:"unit_price"`
}

// OrderDetailsDto is the composite view of an order and its customer.
type OrderDetailsDto struct {
	OrderDto
	Customer customer.CustomerDto `json:"customer"`
}

// OrderCreateDto represents the data transfer object for placing a new order.
type OrderCreateDto struct {
	CustomerID int64                `json:"customer_id" validate:"required"`
	Items      []OrderItemCreateDto `json:"items"       validate:"required,gt=0,dive"`
}

// OrderItemCreateDto represents one requested line of a new order.
type OrderItemCreateDto struct {
	ProductID int64 `json:"product_id" validate:"required"`
	Quantity  int32 `json:"quantity"   validate:"required,min=1"`
}

// FindByID retrieves an order by its ID and returns it as an OrderDto.
// Returns ErrOrderNotFound if no order exists with the given ID.
func (s *Service) FindByID(ctx context.Context, id int64) (*OrderDto, error) {
	order, err := s.orderStore.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order by ID %d: %w", id, err)
	}

	return toDto(order), nil
}

// FindDetails retrieves an order and resolves the owning customer, returning
// the composite view. Read-only.
func (s *Service) FindDetails(ctx context.Context, id int64) (*OrderDetailsDto, error) {
	order, err := s.orderStore.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order by ID %d: %w", id, err)
	}

	owner, err := s.customers.FindByID(ctx, order.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch customer %d for order %d: %w", order.CustomerID, id, err)
	}

	return &OrderDetailsDto{
		OrderDto: *toDto(order),
		Customer: *owner,
	}, nil
}

// FindByCustomer retrieves a customer's orders and returns them as OrderDtos.
// Returns ErrCustomerNotFound if no customer exists with the given ID.
func (s *Service) FindByCustomer(ctx context.Context, customerID int64, offset, limit int32) ([]OrderDto, error) {
	if _, err := s.customers.FindByID(ctx, customerID); err != nil {
		return nil, fmt.Errorf("failed to fetch customer %d: %w", customerID, err)
	}

	orders, err := s.orderStore.FindByCustomer(ctx, customerID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orders for customer %d: %w", customerID, err)
	}
	orderDtos := make([]OrderDto, len(orders))

	for i, item := range orders {
		orderDtos[i] = *toDto(&item)
	}

	return orderDtos, nil
}

// Create places a new order. For every requested line it captures the
// product's current price and deducts stock through the catalog's atomic
// adjustment. Lines are deducted one at a time: when a later line fails,
// earlier deductions stay applied and the order is not recorded.
func (s *Service) Create(ctx context.Context, order OrderCreateDto) (*OrderDto, error) {
	if len(order.Items) == 0 {
		return nil, ordererrors.ErrEmptyOrder
	}
	for _, item := range order.Items {
		if item.Quantity <= 0 {
			return nil, ordererrors.ErrInvalidQuantity
		}
	}

	if _, err := s.customers.FindByID(ctx, order.CustomerID); err != nil {
		return nil, fmt.Errorf("failed to fetch customer %d: %w", order.CustomerID, err)
	}

	var totalAmount int64
	items := make([]store.ItemParams, 0, len(order.Items))
	for _, item := range order.Items {
		product, err := s.products.AdjustStock(ctx, item.ProductID, -item.Quantity)
		if err != nil {
			s.logger.WarnContext(ctx, "order placement stopped",
				"customer_id", order.CustomerID, "product_id", item.ProductID, "error", err)
			return nil, err
		}
		items = append(items, store.ItemParams{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
		})
		totalAmount += product.Price * int64(item.Quantity)
	}

	created, err := s.orderStore.Create(ctx, store.CreateParams{
		CustomerID:  order.CustomerID,
		TotalAmount: totalAmount,
		Items:       items,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err := s.customers.AppendOrder(ctx, created.CustomerID, created.ID); err != nil {
		s.logger.ErrorContext(ctx, "failed to record order in customer history",
			"order_id", created.ID, "customer_id", created.CustomerID, "error", err)
	}

	event := events.OrderPlacedEvent{
		EventID:     uuid.New(),
		OrderID:     created.ID,
		CustomerID:  created.CustomerID,
		TotalAmount: created.TotalAmount,
		PlacedAt:    created.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish OrderPlacedEvent", "order_id", created.ID, "error", err)
	}
	s.ordersCounter.Add(ctx, 1)

	return toDto(created), nil
}

// Cancel moves a PLACED order to CANCELLED and restores its stock. The
// transition is committed first, so a second cancel of the same order fails
// before any stock moves. Products removed from the catalog since placement
// are skipped during restore.
func (s *Service) Cancel(ctx context.Context, id int64) (*OrderDto, error) {
	cancelled, err := s.orderStore.UpdateStatus(ctx, id, store.StatusPlaced, store.StatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel order %d: %w", id, err)
	}

	for _, item := range cancelled.Items {
		if _, err := s.products.AdjustStock(ctx, item.ProductID, item.Quantity); err != nil {
			if errors.Is(err, catalogerrors.ErrProductNotFound) {
				s.logger.WarnContext(ctx, "skipping stock restore for missing product",
					"order_id", id, "product_id", item.ProductID)
				continue
			}
			s.logger.ErrorContext(ctx, "failed to restore stock",
				"order_id", id, "product_id", item.ProductID, "error", err)
		}
	}

	event := events.OrderCancelledEvent{
		EventID:     uuid.New(),
		OrderID:     cancelled.ID,
		CustomerID:  cancelled.CustomerID,
		CancelledAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish OrderCancelledEvent", "order_id", id, "error", err)
	}

	return toDto(cancelled), nil
}

// Complete moves a PLACED order to COMPLETED. Stock is untouched: the
// deduction already happened at placement.
func (s *Service) Complete(ctx context.Context, id int64) (*OrderDto, error) {
	completed, err := s.orderStore.UpdateStatus(ctx, id, store.StatusPlaced, store.StatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to complete order %d: %w", id, err)
	}

	event := events.OrderCompletedEvent{
		EventID:     uuid.New(),
		OrderID:     completed.ID,
		CustomerID:  completed.CustomerID,
		CompletedAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish OrderCompletedEvent", "order_id", id, "error", err)
	}

	return toDto(completed), nil
}

// toDto converts a store.Order to an OrderDto.
func toDto(order *store.Order) *OrderDto {
	items := make([]OrderItemDto, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemDto{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	return &OrderDto{
		ID:          order.ID,
		CustomerID:  order.CustomerID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		CreatedAt:   order.CreatedAt.Format(time.RFC3339),
		Items:       items,
	}
}
