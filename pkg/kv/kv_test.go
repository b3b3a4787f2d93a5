package kv_test

import (
	"context"
	"errors"
	"testing"

	"storefront/pkg/kv"
	"storefront/pkg/kv/memory"
)

func TestPrefixedIsolatesScopes(t *testing.T) {
	ctx := context.Background()
	base := memory.New()
	a := kv.WithPrefix(base, "origin/a/")
	b := kv.WithPrefix(base, "origin/b/")

	if err := a.Set(ctx, "cartItems", "[]"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := b.Get(ctx, "cartItems"); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from other scope, got %v", err)
	}
	got, err := base.Get(ctx, "origin/a/cartItems")
	if err != nil || got != "[]" {
		t.Fatalf("base get: %q %v", got, err)
	}
	if !a.Owns("origin/a/cartItems") || a.Owns("origin/b/cartItems") {
		t.Fatal("Owns mismatched scopes")
	}
	if got := kv.FullKey(a, "addedItems"); got != "origin/a/addedItems" {
		t.Fatalf("unexpected full key %q", got)
	}
}
