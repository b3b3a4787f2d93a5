// Package redis implements a kv.Store on Redis. Every write is published on
// a channel so that other storefront processes sharing the same Redis learn
// about it, the way browser tabs learn about each other's localStorage
// writes.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jpillora/backoff"
	goredis "github.com/redis/go-redis/v9"

	"storefront/pkg/kv"
	"storefront/pkg/logger"
)

// DefaultChannel carries "<instance> <key>" change messages.
const DefaultChannel = "storefront:kv-changed"

// Store persists values as plain Redis strings.
type Store struct {
	client   *goredis.Client
	channel  string
	instance string
	log      *logger.Logger
}

// New wraps client. Changes are announced on channel.
func New(client *goredis.Client, channel string, log *logger.Logger) *Store {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Store{
		client:   client,
		channel:  channel,
		instance: uuid.NewString(),
		log:      log,
	}
}

// Get reads key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", kv.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, nil
}

// Set writes key and announces the change in the same transaction.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, key, value, 0)
		pipe.Publish(ctx, s.channel, s.message(key))
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete removes key and announces the change.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.Publish(ctx, s.channel, s.message(key))
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Watch subscribes to the change channel and calls fn for every key written
// by another instance. It blocks until ctx is done.
func (s *Store) Watch(ctx context.Context, fn func(key string)) error {
	sub := s.client.Subscribe(ctx, s.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("redis subscribe %s: %w", s.channel, err)
	}
	s.log.Info(ctx, "watching redis changes", "channel", s.channel, "instance", s.instance)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			instance, key, found := strings.Cut(msg.Payload, " ")
			if !found || instance == s.instance {
				continue
			}
			fn(key)
		}
	}
}

// Ping reports whether Redis answers within five seconds.
func (s *Store) Ping(ctx context.Context) bool {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.client.Ping(pingCtx).Err(); err != nil {
		s.log.Warn(ctx, "redis ping failed", "error", err)
		return false
	}
	return true
}

// WaitReady pings Redis with exponential backoff until it answers, attempts
// are exhausted or ctx is done.
func (s *Store) WaitReady(ctx context.Context, attempts int) error {
	b := &backoff.Backoff{Min: time.Second, Max: 30 * time.Second, Factor: 2}
	for i := 0; i < attempts; i++ {
		if s.Ping(ctx) {
			s.log.Info(ctx, "redis ready", "attempt", i+1)
			return nil
		}
		wait := b.Duration()
		s.log.Info(ctx, "redis not ready", "attempt", i+1, "retry_in", wait.String())
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return fmt.Errorf("redis not reachable after %d attempts", attempts)
}

func (s *Store) message(key string) string {
	return s.instance + " " + key
}
