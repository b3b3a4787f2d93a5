// Package checkout turns a cart into an order awaiting external payment.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"storefront/pkg/account"
	"storefront/pkg/cart"
	"storefront/pkg/logger"
	"storefront/pkg/order"
)

var (
	// ErrCityRequired indicates the delivery city was left blank.
	ErrCityRequired = errors.New("choose a city")
	// ErrEmptyCart indicates there is nothing to order.
	ErrEmptyCart = errors.New("cart is empty")
)

// Service places orders.
type Service struct {
	orders     order.Repository
	accounts   account.Repository
	paymentURL string
	log        *logger.Logger
	now        func() time.Time
}

// New returns a Service sending shoppers to paymentURL.
func New(orders order.Repository, accounts account.Repository, paymentURL string, log *logger.Logger) *Service {
	return &Service{
		orders:     orders,
		accounts:   accounts,
		paymentURL: paymentURL,
		log:        log,
		now:        time.Now,
	}
}

// Checkout records an order for the contents of c. user is nil for guests;
// otherwise the order is also added to the user's account. The cart is
// left untouched since payment happens elsewhere.
func (s *Service) Checkout(ctx context.Context, c *cart.Store, user *account.Profile, city string) (order.Order, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return order.Order{}, ErrCityRequired
	}

	lines, err := c.Lines(ctx)
	if err != nil {
		return order.Order{}, err
	}
	if len(lines) == 0 {
		return order.Order{}, ErrEmptyCart
	}

	o := order.Order{
		ID:         uuid.NewString(),
		City:       city,
		Items:      make([]order.Item, len(lines)),
		Total:      cart.Total(lines),
		PaymentURL: s.paymentURL,
		CreatedAt:  s.now().UTC(),
	}
	for i, l := range lines {
		o.Items[i] = order.Item{ProductID: l.ID, Name: l.Name, Price: l.Price, Quantity: l.Quantity}
	}
	if user != nil {
		o.Username = user.Username
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return order.Order{}, fmt.Errorf("create order: %w", err)
	}
	if user != nil {
		if err := s.accounts.AddOrder(ctx, user.Username, o.ID); err != nil {
			if derr := s.orders.Delete(ctx, o.ID); derr != nil {
				s.log.Error(ctx, "orphaned order", "order_id", o.ID, "username", user.Username, "error", derr)
			}
			return order.Order{}, fmt.Errorf("attach order to %s: %w", user.Username, err)
		}
	}

	s.log.Info(ctx, "order placed", "order_id", o.ID, "items", len(o.Items), "total", o.Total)
	return o, nil
}
