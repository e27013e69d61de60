package store

import (
	"context"
	"errors"
	"fmt"

	catalogerrors "github.com/abgdnv/retailcore/internal/catalog/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolationCode = "23505"

// PgStore implements ProductStore using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of ProductStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

const productColumns = "id, sku, name, price, stock, category, created_at"

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Price, &p.Stock, &p.Category, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByID retrieves a product by its unique identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) FindByID(ctx context.Context, id int64) (*Product, error) {
	row := p.db.QueryRow(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1", id)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalogerrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return product, nil
}

// FindBySKU retrieves a product by its unique SKU.
// Returns ErrProductNotFound if no product exists with the given SKU.
func (p *PgStore) FindBySKU(ctx context.Context, sku string) (*Product, error) {
	row := p.db.QueryRow(ctx, "SELECT "+productColumns+" FROM products WHERE sku = $1", sku)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalogerrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by SKU: %w", err)
	}
	return product, nil
}

// FindAll retrieves up to limit products ordered by id ascending,
// optionally filtered by category.
func (p *PgStore) FindAll(ctx context.Context, limit int32, category string) ([]Product, error) {
	query := "SELECT " + productColumns + " FROM products"
	args := []any{limit}
	if category != "" {
		query += " WHERE category = $2"
		args = append(args, category)
	}
	query += " ORDER BY id ASC LIMIT $1"

	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}
	return products, nil
}

// Create adds a new product to the catalog.
// Returns ErrDuplicateSKU when the SKU is already taken.
func (p *PgStore) Create(ctx context.Context, params CreateParams) (*Product, error) {
	row := p.db.QueryRow(ctx,
		"INSERT INTO products (sku, name, price, stock, category) VALUES ($1, $2, $3, $4, $5) RETURNING "+productColumns,
		params.SKU, params.Name, params.Price, params.Stock, params.Category,
	)
	product, err := scanProduct(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, catalogerrors.ErrDuplicateSKU
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

// AdjustStock applies delta to the product's stock as a single conditional
// update, so the precondition check cannot interleave with a concurrent
// adjustment of the same product.
func (p *PgStore) AdjustStock(ctx context.Context, id int64, delta int32) (*Product, error) {
	row := p.db.QueryRow(ctx,
		"UPDATE products SET stock = stock + $2 WHERE id = $1 AND stock + $2 >= 0 RETURNING "+productColumns,
		id, delta,
	)
	product, err := scanProduct(row)
	if err == nil {
		return product, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to adjust stock: %w", err)
	}

	// No row updated: either the product is missing or the stock is too low.
	var available int32
	if err := p.db.QueryRow(ctx, "SELECT stock FROM products WHERE id = $1", id).Scan(&available); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalogerrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to read stock: %w", err)
	}
	return nil, &catalogerrors.InsufficientStockError{
		ProductID: id,
		Available: available,
		Requested: -delta,
	}
}
