// Package accounttest holds behaviour checks shared by every
// account.Repository implementation.
package accounttest

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"storefront/pkg/account"
)

// RunRepository exercises repo, which must start empty.
func RunRepository(t *testing.T, repo account.Repository) {
	t.Helper()
	ctx := context.Background()

	alice := account.Account{
		Username:     "alice",
		PasswordHash: "hash-a",
		Email:        "alice@example.com",
		City:         "",
		Orders:       []string{},
	}

	if _, err := repo.Get(ctx, "alice"); !errors.Is(err, account.ErrNotFound) {
		t.Fatalf("get before add: expected ErrNotFound, got %v", err)
	}
	if _, err := repo.GetByEmail(ctx, "alice@example.com"); !errors.Is(err, account.ErrNotFound) {
		t.Fatalf("get by email before add: expected ErrNotFound, got %v", err)
	}
	if err := repo.Add(ctx, alice); err != nil {
		t.Fatalf("add: %v", err)
	}

	got, err := repo.Get(ctx, "alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if diff := cmp.Diff(alice, got); diff != "" {
		t.Fatalf("get mismatch (-want +got):\n%s", diff)
	}
	got, err = repo.GetByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got.Username != "alice" {
		t.Fatalf("get by email returned %q", got.Username)
	}

	dupName := alice
	dupName.Email = "other@example.com"
	if err := repo.Add(ctx, dupName); !errors.Is(err, account.ErrUsernameTaken) {
		t.Fatalf("duplicate username: expected ErrUsernameTaken, got %v", err)
	}
	dupEmail := alice
	dupEmail.Username = "alice2"
	if err := repo.Add(ctx, dupEmail); !errors.Is(err, account.ErrEmailTaken) {
		t.Fatalf("duplicate email: expected ErrEmailTaken, got %v", err)
	}

	if err := repo.AddOrder(ctx, "alice", "order-1"); err != nil {
		t.Fatalf("add order: %v", err)
	}
	if err := repo.AddOrder(ctx, "alice", "order-2"); err != nil {
		t.Fatalf("add second order: %v", err)
	}
	got, err = repo.Get(ctx, "alice")
	if err != nil {
		t.Fatalf("get after orders: %v", err)
	}
	if diff := cmp.Diff([]string{"order-1", "order-2"}, got.Orders); diff != "" {
		t.Fatalf("orders mismatch (-want +got):\n%s", diff)
	}
	if err := repo.AddOrder(ctx, "nobody", "order-3"); !errors.Is(err, account.ErrNotFound) {
		t.Fatalf("add order for unknown user: expected ErrNotFound, got %v", err)
	}
}
