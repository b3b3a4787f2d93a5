// Package order records orders placed from the cart.
package order

import (
	"context"
	"errors"
	"time"

	"storefront/pkg/catalog"
)

// Item is one purchased product, copied from the cart at checkout.
type Item struct {
	ProductID catalog.ID `json:"productId"`
	Name      string     `json:"name"`
	Price     float64    `json:"price"`
	Quantity  int        `json:"quantity"`
}

// Order represents a placed order awaiting payment.
type Order struct {
	ID         string    `json:"id"`
	Username   string    `json:"username,omitempty"`
	City       string    `json:"city"`
	Items      []Item    `json:"items"`
	Total      float64   `json:"total"`
	PaymentURL string    `json:"paymentUrl"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Repository defines behavior for persisting orders.
type Repository interface {
	Create(ctx context.Context, o Order) error
	Get(ctx context.Context, id string) (Order, error)
	List(ctx context.Context) ([]Order, error)
	ListByUser(ctx context.Context, username string) ([]Order, error)
	Delete(ctx context.Context, id string) error
}

// ErrNotFound indicates the requested order does not exist.
var ErrNotFound = errors.New("order not found")
