// Package session keeps the "current user" marker of an origin: a copy of
// the signed-in account's profile stored next to the cart.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"storefront/pkg/account"
	"storefront/pkg/kv"
)

// Key is the storage key of the marker.
const Key = "currentUser"

// ErrNoSession indicates nobody is signed in.
var ErrNoSession = errors.New("no current user")

// Store reads and writes the marker.
type Store struct {
	kv kv.Store
}

// New returns a Store over store.
func New(store kv.Store) *Store {
	return &Store{kv: store}
}

// Current returns the signed-in profile. A missing or unreadable marker
// means nobody is signed in.
func (s *Store) Current(ctx context.Context) (account.Profile, error) {
	raw, err := s.kv.Get(ctx, Key)
	if errors.Is(err, kv.ErrNotFound) {
		return account.Profile{}, ErrNoSession
	}
	if err != nil {
		return account.Profile{}, fmt.Errorf("load session: %w", err)
	}
	var p account.Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil || p.Username == "" {
		return account.Profile{}, ErrNoSession
	}
	return p, nil
}

// Set records p as the signed-in profile.
func (s *Store) Set(ctx context.Context, p account.Profile) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, Key, string(b))
}

// Clear signs out.
func (s *Store) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, Key)
}
