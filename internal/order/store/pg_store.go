package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	ordererrors "github.com/abgdnv/retailcore/internal/order/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore implements OrderStore using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of OrderStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

const orderColumns = "id, customer_id, status, total_amount, created_at"

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.CustomerID, &o.Status, &o.TotalAmount, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (p *PgStore) itemsByOrderIDs(ctx context.Context, q pgx.Tx, orderIDs []int64) (map[int64][]OrderItem, error) {
	var rows pgx.Rows
	var err error
	const query = "SELECT id, order_id, product_id, quantity, unit_price FROM order_items WHERE order_id = ANY($1) ORDER BY id ASC"
	if q != nil {
		rows, err = q.Query(ctx, query, orderIDs)
	} else {
		rows, err = p.db.Query(ctx, query, orderIDs)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list order items: %w", err)
	}
	defer rows.Close()

	items := make(map[int64][]OrderItem)
	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items[item.OrderID] = append(items[item.OrderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read order items: %w", err)
	}
	return items, nil
}

// FindByID retrieves an order with its items.
// Returns ErrOrderNotFound if no order exists with the given ID.
func (p *PgStore) FindByID(ctx context.Context, id int64) (*Order, error) {
	row := p.db.QueryRow(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = $1", id)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ordererrors.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}

	items, err := p.itemsByOrderIDs(ctx, nil, []int64{id})
	if err != nil {
		return nil, err
	}
	order.Items = items[id]
	if order.Items == nil {
		order.Items = []OrderItem{}
	}
	return order, nil
}

// FindByCustomer returns the customer's orders with items, ordered by id
// ascending, paginated by offset and limit.
func (p *PgStore) FindByCustomer(ctx context.Context, customerID int64, offset, limit int32) ([]Order, error) {
	rows, err := p.db.Query(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE customer_id = $1 ORDER BY id ASC OFFSET $2 LIMIT $3",
		customerID, offset, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list customer orders: %w", err)
	}
	defer rows.Close()

	orders := make([]Order, 0)
	orderIDs := make([]int64, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
		orderIDs = append(orderIDs, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	items, err := p.itemsByOrderIDs(ctx, nil, orderIDs)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
		if orders[i].Items == nil {
			orders[i].Items = []OrderItem{}
		}
	}
	return orders, nil
}

// Create persists an order and its items in one transaction.
func (p *PgStore) Create(ctx context.Context, params CreateParams) (*Order, error) {
	var created *Order

	txErr := p.withTransaction(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx,
			"INSERT INTO orders (customer_id, status, total_amount) VALUES ($1, $2, $3) RETURNING "+orderColumns,
			params.CustomerID, StatusPlaced, params.TotalAmount,
		)
		order, err := scanOrder(row)
		if err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		order.Items = make([]OrderItem, 0, len(params.Items))
		for _, item := range params.Items {
			var orderItem OrderItem
			err := tx.QueryRow(ctx,
				"INSERT INTO order_items (order_id, product_id, quantity, unit_price) VALUES ($1, $2, $3, $4) RETURNING id, order_id, product_id, quantity, unit_price",
				order.ID, item.ProductID, item.Quantity, item.UnitPrice,
			).Scan(&orderItem.ID, &orderItem.OrderID, &orderItem.ProductID, &orderItem.Quantity, &orderItem.UnitPrice)
			if err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}
			order.Items = append(order.Items, orderItem)
		}
		created = order
		return nil
	})

	if txErr != nil {
		return nil, txErr
	}
	return created, nil
}

// UpdateStatus moves an order from one status to another as a single
// conditional update. The status check and the write cannot interleave
// with a concurrent transition of the same order.
func (p *PgStore) UpdateStatus(ctx context.Context, id int64, from, to string) (*Order, error) {
	row := p.db.QueryRow(ctx,
		"UPDATE orders SET status = $3 WHERE id = $1 AND status = $2 RETURNING "+orderColumns,
		id, from, to,
	)
	order, err := scanOrder(row)
	if err == nil {
		items, err := p.itemsByOrderIDs(ctx, nil, []int64{id})
		if err != nil {
			return nil, err
		}
		order.Items = items[id]
		if order.Items == nil {
			order.Items = []OrderItem{}
		}
		return order, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	// No row updated: either the order is missing or it is not in the
	// expected status.
	var current string
	if err := p.db.QueryRow(ctx, "SELECT status FROM orders WHERE id = $1", id).Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ordererrors.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to read order status: %w", err)
	}
	return nil, &ordererrors.InvalidStateTransitionError{
		OrderID:   id,
		Current:   current,
		Attempted: to,
	}
}

// TopSellers returns per-product sold quantities across non-cancelled
// orders, highest first.
func (p *PgStore) TopSellers(ctx context.Context, limit int32) ([]ProductSales, error) {
	rows, err := p.db.Query(ctx,
		`SELECT oi.product_id, SUM(oi.quantity)::bigint AS sold
		   FROM order_items oi
		   JOIN orders o ON o.id = oi.order_id
		  WHERE o.status <> $1
		  GROUP BY oi.product_id
		  ORDER BY sold DESC, oi.product_id ASC
		  LIMIT $2`,
		StatusCancelled, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate product sales: %w", err)
	}
	defer rows.Close()

	sales := make([]ProductSales, 0)
	for rows.Next() {
		var s ProductSales
		if err := rows.Scan(&s.ProductID, &s.Sold); err != nil {
			return nil, fmt.Errorf("failed to scan product sales: %w", err)
		}
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read product sales: %w", err)
	}
	return sales, nil
}

// RevenueBetween sums the totals of non-cancelled orders created in [from, to).
func (p *PgStore) RevenueBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var revenue int64
	err := p.db.QueryRow(ctx,
		"SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE status <> $1 AND created_at >= $2 AND created_at < $3",
		StatusCancelled, from, to,
	).Scan(&revenue)
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate revenue: %w", err)
	}
	return revenue, nil
}

// OrderCountsByCustomer returns per-customer non-cancelled order counts
// for customers with at least minOrders orders, highest first.
func (p *PgStore) OrderCountsByCustomer(ctx context.Context, minOrders int64) ([]CustomerOrders, error) {
	rows, err := p.db.Query(ctx,
		`SELECT customer_id, COUNT(*)::bigint AS orders
		   FROM orders
		  WHERE status <> $1
		  GROUP BY customer_id
		 HAVING COUNT(*) >= $2
		  ORDER BY orders DESC, customer_id ASC`,
		StatusCancelled, minOrders,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate customer orders: %w", err)
	}
	defer rows.Close()

	counts := make([]CustomerOrders, 0)
	for rows.Next() {
		var c CustomerOrders
		if err := rows.Scan(&c.CustomerID, &c.Orders); err != nil {
			return nil, fmt.Errorf("failed to scan customer orders: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read customer orders: %w", err)
	}
	return counts, nil
}

func (p *PgStore) withTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return fmt.Errorf("failed to rollback transaction: %w", rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
