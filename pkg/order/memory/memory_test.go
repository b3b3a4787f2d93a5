package memory

import (
	"context"
	"testing"
	"time"

	"storefront/pkg/order"
)

func TestRepository(t *testing.T) {
	ctx := context.Background()
	repo := New()
	now := time.Now()
	o := order.Order{
		ID:        "1",
		Username:  "alice",
		City:      "Moscow",
		Items:     []order.Item{{ProductID: 7, Name: "Shoe", Price: 1000, Quantity: 2}},
		Total:     2000,
		CreatedAt: now,
	}
	if err := repo.Create(ctx, o); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, order.Order{ID: "2", City: "Kazan", CreatedAt: now.Add(time.Second)}); err != nil {
		t.Fatalf("create guest: %v", err)
	}

	got, err := repo.Get(ctx, "1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Items[0].Name != "Shoe" {
		t.Fatalf("expected Shoe, got %s", got.Items[0].Name)
	}

	list, err := repo.List(ctx)
	if err != nil || len(list) != 2 || list[0].ID != "1" {
		t.Fatalf("list: %v %+v", err, list)
	}
	mine, err := repo.ListByUser(ctx, "alice")
	if err != nil || len(mine) != 1 {
		t.Fatalf("list by user: %v len=%d", err, len(mine))
	}
	if _, err := repo.Get(ctx, "3"); err != order.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := repo.Delete(ctx, "2"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, "2"); err != order.ErrNotFound {
		t.Fatalf("expected deleted order gone, got %v", err)
	}
	if err := repo.Delete(ctx, "2"); err != order.ErrNotFound {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
