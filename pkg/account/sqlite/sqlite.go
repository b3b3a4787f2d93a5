// Package sqlite implements an account repository in an embedded SQLite
// database file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"storefront/pkg/account"
)

const schema = `CREATE TABLE IF NOT EXISTS accounts (
	username TEXT PRIMARY KEY,
	password_hash TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	city TEXT NOT NULL DEFAULT '',
	orders TEXT NOT NULL DEFAULT '[]'
)`

// Repository persists accounts in SQLite.
type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the database at path.
func Open(path string) (*Repository, error) {
	if path == "" {
		path = "storefront.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create accounts table: %w", err)
	}
	return &Repository{db: db}, nil
}

// Close closes the database.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Get retrieves an account by username.
func (r *Repository) Get(ctx context.Context, username string) (account.Account, error) {
	return r.scan(r.db.QueryRowContext(ctx,
		"SELECT username,password_hash,email,city,orders FROM accounts WHERE username=?", username))
}

// GetByEmail retrieves an account by email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (account.Account, error) {
	return r.scan(r.db.QueryRowContext(ctx,
		"SELECT username,password_hash,email,city,orders FROM accounts WHERE email=?", email))
}

// Add inserts a new account.
func (r *Repository) Add(ctx context.Context, a account.Account) error {
	orders, err := json.Marshal(nonNil(a.Orders))
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		"INSERT INTO accounts (username,password_hash,email,city,orders) VALUES (?,?,?,?,?)",
		a.Username, a.PasswordHash, a.Email, a.City, string(orders))
	if err != nil {
		msg := err.Error()
		switch {
		case strings.Contains(msg, "accounts.email"):
			return account.ErrEmailTaken
		case strings.Contains(msg, "accounts.username"):
			return account.ErrUsernameTaken
		}
		return err
	}
	return nil
}

// AddOrder appends orderID to the account's orders.
func (r *Repository) AddOrder(ctx context.Context, username, orderID string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE accounts SET orders=json_insert(orders,'$[#]',?) WHERE username=?", orderID, username)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return account.ErrNotFound
	}
	return nil
}

func (r *Repository) scan(row *sql.Row) (account.Account, error) {
	var a account.Account
	var orders string
	err := row.Scan(&a.Username, &a.PasswordHash, &a.Email, &a.City, &orders)
	if err == sql.ErrNoRows {
		return account.Account{}, account.ErrNotFound
	}
	if err != nil {
		return account.Account{}, err
	}
	if err := json.Unmarshal([]byte(orders), &a.Orders); err != nil {
		return account.Account{}, fmt.Errorf("decode orders of %s: %w", a.Username, err)
	}
	a.Orders = nonNil(a.Orders)
	return a, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
