// Package kv defines the durable key-value storage the storefront keeps
// per-origin state in.
package kv

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound indicates the key holds no value.
var ErrNotFound = errors.New("key not found")

// Store persists string values under string keys.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Watcher is implemented by stores shared with other processes. Watch
// calls fn with the key of every value changed by another process until
// ctx is done. Changes made through the store itself are not reported.
type Watcher interface {
	Watch(ctx context.Context, fn func(key string)) error
}

// Namer reports the key under which a store persists k.
type Namer interface {
	FullKey(k string) string
}

// FullKey resolves k through s when s is a Namer.
func FullKey(s Store, k string) string {
	if n, ok := s.(Namer); ok {
		return n.FullKey(k)
	}
	return k
}

// Prefixed scopes every key of an underlying store with a fixed prefix.
type Prefixed struct {
	store  Store
	prefix string
}

// WithPrefix returns a view of s in which every key is prefixed.
func WithPrefix(s Store, prefix string) *Prefixed {
	return &Prefixed{store: s, prefix: prefix}
}

// Get reads prefix+key.
func (p *Prefixed) Get(ctx context.Context, key string) (string, error) {
	return p.store.Get(ctx, p.prefix+key)
}

// Set writes prefix+key.
func (p *Prefixed) Set(ctx context.Context, key, value string) error {
	return p.store.Set(ctx, p.prefix+key, value)
}

// Delete removes prefix+key.
func (p *Prefixed) Delete(ctx context.Context, key string) error {
	return p.store.Delete(ctx, p.prefix+key)
}

// FullKey returns prefix+k as seen by the underlying store.
func (p *Prefixed) FullKey(k string) string {
	return FullKey(p.store, p.prefix+k)
}

// Prefix returns the scope prefix.
func (p *Prefixed) Prefix() string { return p.prefix }

// Owns reports whether a full key belongs to this scope.
func (p *Prefixed) Owns(fullKey string) bool {
	return strings.HasPrefix(fullKey, p.FullKey(""))
}
