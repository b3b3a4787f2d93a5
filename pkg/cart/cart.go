// Package cart is the single source of truth for a shopper's cart.
//
// The cart is kept in a kv.Store as two JSON values: the list of lines under
// LinesKey and, derived from it, the ids of the products in the cart under
// AddedKey. Every mutation writes the lines first, then the id set computed
// from them, then publishes EventName.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"storefront/pkg/catalog"
	"storefront/pkg/kv"
	"storefront/pkg/logger"
	"storefront/pkg/notify"
)

// Storage keys and the change notification name.
const (
	LinesKey  = "cartItems"
	AddedKey  = "addedItems"
	EventName = "cart-updated"
)

// Line is one product in the cart.
type Line struct {
	ID       catalog.ID `json:"id"`
	Name     string     `json:"name"`
	Price    float64    `json:"price"`
	Image    string     `json:"image"`
	Quantity int        `json:"quantity"`
}

// Item is what a page hands over when adding a product.
type Item struct {
	ID     catalog.ID
	Name   string
	Price  float64
	Images []string
}

// ItemFromProduct builds an Item from a catalog product.
func ItemFromProduct(p catalog.Product) Item {
	return Item{ID: p.ID, Name: p.Title, Price: p.Price, Images: p.Images}
}

// IDSet holds stringified product ids.
type IDSet map[string]struct{}

// Contains reports whether id is in the set.
func (s IDSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Slice returns the ids sorted.
func (s IDSet) Slice() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Observer is told about every completed mutation.
type Observer interface {
	CartMutated(op string)
}

// Store reads and mutates one cart.
type Store struct {
	kv       kv.Store
	pub      notify.Publisher
	log      *logger.Logger
	observer Observer
}

// Option configures a Store.
type Option func(*Store)

// WithObserver registers o to be told about mutations.
func WithObserver(o Observer) Option {
	return func(s *Store) { s.observer = o }
}

// New returns a Store over store, publishing change notifications to pub.
func New(store kv.Store, pub notify.Publisher, log *logger.Logger, opts ...Option) *Store {
	s := &Store{kv: store, pub: pub, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lines returns the cart lines in insertion order. A missing or malformed
// value reads as an empty cart.
func (s *Store) Lines(ctx context.Context) ([]Line, error) {
	var lines []Line
	if err := load(ctx, s, LinesKey, &lines); err != nil {
		return nil, err
	}
	if lines == nil {
		lines = []Line{}
	}
	return lines, nil
}

// AddedIDs returns the set of ids currently in the cart, read the same way
// as Lines.
func (s *Store) AddedIDs(ctx context.Context) (IDSet, error) {
	var ids []string
	if err := load(ctx, s, AddedKey, &ids); err != nil {
		return nil, err
	}
	set := make(IDSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// Contains reports whether the product is in the cart.
func (s *Store) Contains(ctx context.Context, id catalog.ID) (bool, error) {
	ids, err := s.AddedIDs(ctx)
	if err != nil {
		return false, err
	}
	return ids.Contains(id.String()), nil
}

// AddItem puts one more unit of item in the cart. A product not yet in the
// cart gets a new line showing its first image.
func (s *Store) AddItem(ctx context.Context, item Item) error {
	lines, err := s.Lines(ctx)
	if err != nil {
		return err
	}

	found := false
	for i := range lines {
		if lines[i].ID == item.ID {
			lines[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		var image string
		if len(item.Images) > 0 {
			image = item.Images[0]
		}
		lines = append(lines, Line{
			ID:       item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Image:    image,
			Quantity: 1,
		})
	}

	return s.save(ctx, "add", lines)
}

// RemoveItem drops the line for id. Removing an absent id still saves and
// notifies.
func (s *Store) RemoveItem(ctx context.Context, id catalog.ID) error {
	lines, err := s.Lines(ctx)
	if err != nil {
		return err
	}
	kept := lines[:0]
	for _, l := range lines {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	return s.save(ctx, "remove", kept)
}

// Toggle removes item when it is in the cart and adds it otherwise. It
// returns whether the item is in the cart afterwards.
func (s *Store) Toggle(ctx context.Context, item Item) (bool, error) {
	in, err := s.Contains(ctx, item.ID)
	if err != nil {
		return false, err
	}
	if in {
		return false, s.RemoveItem(ctx, item.ID)
	}
	return true, s.AddItem(ctx, item)
}

// TotalCount is the number of units in the cart.
func (s *Store) TotalCount(ctx context.Context) (int, error) {
	lines, err := s.Lines(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n, nil
}

// TotalPrice is the sum of price times quantity over all lines.
func (s *Store) TotalPrice(ctx context.Context) (float64, error) {
	lines, err := s.Lines(ctx)
	if err != nil {
		return 0, err
	}
	return Total(lines), nil
}

// Total sums price times quantity.
func Total(lines []Line) float64 {
	var total float64
	for _, l := range lines {
		total += l.Price * float64(l.Quantity)
	}
	return total
}

// save writes the lines, then the id set derived from them, then notifies.
func (s *Store) save(ctx context.Context, op string, lines []Line) error {
	b, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode cart lines: %w", err)
	}
	ids := make([]string, len(lines))
	for i, l := range lines {
		ids[i] = l.ID.String()
	}
	idb, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode cart ids: %w", err)
	}

	if err := s.kv.Set(ctx, LinesKey, string(b)); err != nil {
		return fmt.Errorf("save cart lines: %w", err)
	}
	if err := s.kv.Set(ctx, AddedKey, string(idb)); err != nil {
		return fmt.Errorf("save cart ids: %w", err)
	}

	s.log.Debug(ctx, "cart saved", "op", op, "lines", len(lines))
	if s.observer != nil {
		s.observer.CartMutated(op)
	}
	s.pub.Publish(notify.Event{
		Kind: notify.LocalNotification,
		Name: EventName,
		Key:  kv.FullKey(s.kv, LinesKey),
	})
	return nil
}

// load decodes key into dst, a pointer to a nil slice. dst is left
// untouched when the value is missing or malformed.
func load[T any](ctx context.Context, s *Store, key string, dst *[]T) error {
	raw, err := s.kv.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	var v []T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		s.log.Debug(ctx, "malformed cart state, treating as empty", "key", key, "error", err)
		return nil
	}
	*dst = v
	return nil
}
