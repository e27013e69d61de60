package store

import (
	"context"
	"errors"
	"fmt"

	customererrors "github.com/abgdnv/retailcore/internal/customer/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolationCode = "23505"

// PgStore implements CustomerStore using PostgreSQL as the data store.
// Order history lives in a BIGINT[] column appended with array_append.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of CustomerStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

const customerColumns = "id, name, email, phone, city, order_ids, created_at"

func scanCustomer(row pgx.Row) (*Customer, error) {
	var c Customer
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.City, &c.OrderIDs, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	if c.OrderIDs == nil {
		c.OrderIDs = []int64{}
	}
	return &c, nil
}

// FindByID retrieves a customer by its unique identifier.
// Returns ErrCustomerNotFound if no customer exists with the given ID.
func (p *PgStore) FindByID(ctx context.Context, id int64) (*Customer, error) {
	row := p.db.QueryRow(ctx, "SELECT "+customerColumns+" FROM customers WHERE id = $1", id)
	customer, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, customererrors.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to find customer by ID: %w", err)
	}
	return customer, nil
}

// FindByEmail retrieves a customer by its unique email.
// Returns ErrCustomerNotFound if no customer exists with the given email.
func (p *PgStore) FindByEmail(ctx context.Context, email string) (*Customer, error) {
	row := p.db.QueryRow(ctx, "SELECT "+customerColumns+" FROM customers WHERE email = $1", email)
	customer, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, customererrors.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to find customer by email: %w", err)
	}
	return customer, nil
}

// Search returns customers matching params, ordered by id ascending.
func (p *PgStore) Search(ctx context.Context, params SearchParams) ([]Customer, error) {
	query := "SELECT " + customerColumns + " FROM customers WHERE ($2 = '' OR email = $2) AND ($3 = '' OR city = $3) ORDER BY id ASC LIMIT $1"

	rows, err := p.db.Query(ctx, query, params.Limit, params.Email, params.City)
	if err != nil {
		return nil, fmt.Errorf("failed to search customers: %w", err)
	}
	defer rows.Close()

	customers := make([]Customer, 0)
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, *customer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read customers: %w", err)
	}
	return customers, nil
}

// Create adds a new customer.
// Returns ErrDuplicateEmail when the email is already taken.
func (p *PgStore) Create(ctx context.Context, params CreateParams) (*Customer, error) {
	row := p.db.QueryRow(ctx,
		"INSERT INTO customers (name, email, phone, city) VALUES ($1, $2, $3, $4) RETURNING "+customerColumns,
		params.Name, params.Email, params.Phone, params.City,
	)
	customer, err := scanCustomer(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, customererrors.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return customer, nil
}

// Update modifies an existing customer's contact details.
func (p *PgStore) Update(ctx context.Context, params UpdateParams) (*Customer, error) {
	row := p.db.QueryRow(ctx,
		"UPDATE customers SET name = $2, email = $3, phone = $4, city = $5 WHERE id = $1 RETURNING "+customerColumns,
		params.ID, params.Name, params.Email, params.Phone, params.City,
	)
	customer, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, customererrors.ErrCustomerNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, customererrors.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return customer, nil
}

// AppendOrder records an order id against the customer's history.
func (p *PgStore) AppendOrder(ctx context.Context, id int64, orderID int64) error {
	tag, err := p.db.Exec(ctx,
		"UPDATE customers SET order_ids = array_append(order_ids, $2) WHERE id = $1",
		id, orderID,
	)
	if err != nil {
		return fmt.Errorf("failed to append order to customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return customererrors.ErrCustomerNotFound
	}
	return nil
}
