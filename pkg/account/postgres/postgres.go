// Package postgres implements an account repository in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"storefront/pkg/account"
)

// Schema creates the accounts table.
const Schema = `CREATE TABLE IF NOT EXISTS accounts (
	username TEXT PRIMARY KEY,
	password_hash TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	city TEXT NOT NULL DEFAULT '',
	orders JSONB NOT NULL DEFAULT '[]'
)`

// Repository persists accounts in PostgreSQL.
type Repository struct {
	db *sql.DB
}

// New creates a PostgreSQL repository.
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates the accounts table.
func (r *Repository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, Schema)
	return err
}

// Get retrieves an account by username.
func (r *Repository) Get(ctx context.Context, username string) (account.Account, error) {
	return scan(r.db.QueryRowContext(ctx,
		"SELECT username,password_hash,email,city,orders FROM accounts WHERE username=$1", username))
}

// GetByEmail retrieves an account by email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (account.Account, error) {
	return scan(r.db.QueryRowContext(ctx,
		"SELECT username,password_hash,email,city,orders FROM accounts WHERE email=$1", email))
}

// Add inserts a new account.
func (r *Repository) Add(ctx context.Context, a account.Account) error {
	orders := a.Orders
	if orders == nil {
		orders = []string{}
	}
	b, err := json.Marshal(orders)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		"INSERT INTO accounts (username,password_hash,email,city,orders) VALUES ($1,$2,$3,$4,$5)",
		a.Username, a.PasswordHash, a.Email, a.City, string(b))
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		if pqErr.Constraint == "accounts_email_key" {
			return account.ErrEmailTaken
		}
		return account.ErrUsernameTaken
	}
	return err
}

// AddOrder appends orderID to the account's orders.
func (r *Repository) AddOrder(ctx context.Context, username, orderID string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE accounts SET orders = orders || jsonb_build_array($2::text) WHERE username=$1", username, orderID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return account.ErrNotFound
	}
	return nil
}

func scan(row *sql.Row) (account.Account, error) {
	var a account.Account
	var orders []byte
	err := row.Scan(&a.Username, &a.PasswordHash, &a.Email, &a.City, &orders)
	if err == sql.ErrNoRows {
		return account.Account{}, account.ErrNotFound
	}
	if err != nil {
		return account.Account{}, err
	}
	a.Orders = []string{}
	if err := json.Unmarshal(orders, &a.Orders); err != nil {
		return account.Account{}, fmt.Errorf("decode orders of %s: %w", a.Username, err)
	}
	return a, nil
}
