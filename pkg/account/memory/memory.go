// Package memory implements an in-memory account repository.
package memory

import (
	"context"
	"sync"

	"storefront/pkg/account"
)

// Repository provides an in-memory implementation of account.Repository.
type Repository struct {
	mu       sync.RWMutex
	accounts map[string]account.Account
	byEmail  map[string]string
}

// New creates an empty repository.
func New() *Repository {
	return &Repository{
		accounts: make(map[string]account.Account),
		byEmail:  make(map[string]string),
	}
}

// Get retrieves an account by username.
func (r *Repository) Get(ctx context.Context, username string) (account.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[username]
	if !ok {
		return account.Account{}, account.ErrNotFound
	}
	return clone(a), nil
}

// GetByEmail retrieves an account by email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (account.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	username, ok := r.byEmail[email]
	if !ok {
		return account.Account{}, account.ErrNotFound
	}
	return clone(r.accounts[username]), nil
}

// Add stores a new account.
func (r *Repository) Add(ctx context.Context, a account.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[a.Username]; ok {
		return account.ErrUsernameTaken
	}
	if _, ok := r.byEmail[a.Email]; ok {
		return account.ErrEmailTaken
	}
	r.accounts[a.Username] = clone(a)
	r.byEmail[a.Email] = a.Username
	return nil
}

// AddOrder appends orderID to the account's orders.
func (r *Repository) AddOrder(ctx context.Context, username, orderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[username]
	if !ok {
		return account.ErrNotFound
	}
	a.Orders = append(append([]string{}, a.Orders...), orderID)
	r.accounts[username] = a
	return nil
}

func clone(a account.Account) account.Account {
	a.Orders = append([]string{}, a.Orders...)
	return a
}
