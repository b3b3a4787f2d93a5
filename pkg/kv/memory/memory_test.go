package memory

import (
	"context"
	"errors"
	"testing"

	"storefront/pkg/kv"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := New()
	if _, err := s.Get(ctx, "cartItems"); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Set(ctx, "cartItems", `[{"id":1}]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := s.Get(ctx, "cartItems")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != `[{"id":1}]` {
		t.Fatalf("unexpected value %q", got)
	}
	if err := s.Delete(ctx, "cartItems"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, "cartItems"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if _, err := s.Get(ctx, "cartItems"); err == nil {
		t.Fatal("expected error after delete")
	}
}
