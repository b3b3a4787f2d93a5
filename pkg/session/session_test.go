package session

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"storefront/pkg/account"
	"storefront/pkg/kv/memory"
)

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	s := New(mem)

	if _, err := s.Current(ctx); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}

	p := account.Profile{Username: "alice", Email: "alice@example.com", Orders: []string{}}
	if err := s.Set(ctx, p); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := s.Current(ctx)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if diff := cmp.Diff(p, got); diff != "" {
		t.Fatalf("profile mismatch (-want +got):\n%s", diff)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := s.Current(ctx); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession after clear, got %v", err)
	}
}

func TestMalformedMarker(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	_ = mem.Set(ctx, Key, "not json")
	if _, err := New(mem).Current(ctx); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}
