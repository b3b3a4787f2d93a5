package redis

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"storefront/pkg/kv"
	"storefront/pkg/logger"
)

func newTestClient(t *testing.T) *goredis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New(newTestClient(t), "storefront:test", logger.NewNop())
	key := "test/" + time.Now().Format(time.RFC3339Nano)

	if _, err := s.Get(ctx, key); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Set(ctx, key, "[]"); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := s.Get(ctx, key)
	if err != nil || got != "[]" {
		t.Fatalf("get: %q %v", got, err)
	}
	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestWatchSkipsOwnWrites(t *testing.T) {
	client := newTestClient(t)
	writer := New(client, "storefront:test-watch", logger.NewNop())
	reader := New(client, "storefront:test-watch", logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan string, 4)
	go reader.Watch(ctx, func(key string) { got <- key })
	time.Sleep(200 * time.Millisecond)

	if err := reader.Set(ctx, "own", "1"); err != nil {
		t.Fatalf("set own: %v", err)
	}
	if err := writer.Set(ctx, "other", "1"); err != nil {
		t.Fatalf("set other: %v", err)
	}

	select {
	case key := <-got:
		if key != "other" {
			t.Fatalf("expected change for other, got %q", key)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no change observed")
	}
}
