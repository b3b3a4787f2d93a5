// Package account keeps shopper accounts and checks their credentials.
package account

import (
	"context"
	"errors"
)

var (
	// ErrNotFound indicates no account matches the lookup.
	ErrNotFound = errors.New("account not found")
	// ErrUsernameTaken indicates the username is already registered.
	ErrUsernameTaken = errors.New("username already registered")
	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
)

// Account is a stored account record.
type Account struct {
	Username     string   `json:"username"`
	PasswordHash string   `json:"-"`
	Email        string   `json:"email"`
	City         string   `json:"city"`
	Orders       []string `json:"orders"`
}

// Profile is the part of an account that may leave the account store.
type Profile struct {
	Username string   `json:"username"`
	Email    string   `json:"email"`
	City     string   `json:"city"`
	Orders   []string `json:"orders"`
}

// Profile strips the credential.
func (a Account) Profile() Profile {
	orders := a.Orders
	if orders == nil {
		orders = []string{}
	}
	return Profile{Username: a.Username, Email: a.Email, City: a.City, Orders: orders}
}

// Repository stores accounts keyed by username with a unique email.
type Repository interface {
	Get(ctx context.Context, username string) (Account, error)
	GetByEmail(ctx context.Context, email string) (Account, error)
	Add(ctx context.Context, a Account) error
	AddOrder(ctx context.Context, username, orderID string) error
}
