package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"storefront/pkg/order"
)

// Schema creates the orders table.
const Schema = `CREATE TABLE IF NOT EXISTS orders (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL DEFAULT '',
	city TEXT NOT NULL,
	items JSONB NOT NULL,
	total DOUBLE PRECISION NOT NULL,
	payment_url TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
)`

const selectOrders = "SELECT id,username,city,items,total,payment_url,created_at FROM orders"

// Repository persists orders in PostgreSQL.
type Repository struct {
	db *sql.DB
}

// New creates a PostgreSQL repository.
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates the orders table.
func (r *Repository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, Schema)
	return err
}

// Create inserts a new order.
func (r *Repository) Create(ctx context.Context, o order.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		"INSERT INTO orders (id,username,city,items,total,payment_url,created_at) VALUES ($1,$2,$3,$4,$5,$6,$7)",
		o.ID, o.Username, o.City, string(items), o.Total, o.PaymentURL, o.CreatedAt)
	return err
}

// Get retrieves an order by ID.
func (r *Repository) Get(ctx context.Context, id string) (order.Order, error) {
	o, err := scan(r.db.QueryRowContext(ctx, selectOrders+" WHERE id=$1", id))
	if err == sql.ErrNoRows {
		return order.Order{}, order.ErrNotFound
	}
	return o, err
}

// List fetches all orders, oldest first.
func (r *Repository) List(ctx context.Context) ([]order.Order, error) {
	return r.query(ctx, selectOrders+" ORDER BY created_at, id")
}

// ListByUser fetches the orders of username, oldest first.
func (r *Repository) ListByUser(ctx context.Context, username string) ([]order.Order, error) {
	return r.query(ctx, selectOrders+" WHERE username=$1 ORDER BY created_at, id", username)
}

// Delete removes an order by ID.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM orders WHERE id=$1", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return order.ErrNotFound
	}
	return nil
}

func (r *Repository) query(ctx context.Context, q string, args ...any) ([]order.Order, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	orders := []order.Order{}
	for rows.Next() {
		o, err := scan(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (order.Order, error) {
	var o order.Order
	var items []byte
	if err := s.Scan(&o.ID, &o.Username, &o.City, &items, &o.Total, &o.PaymentURL, &o.CreatedAt); err != nil {
		return order.Order{}, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return order.Order{}, fmt.Errorf("decode items of %s: %w", o.ID, err)
	}
	return o, nil
}
