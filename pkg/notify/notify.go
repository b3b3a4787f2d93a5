// Package notify broadcasts change notifications inside the process.
//
// Two kinds of event exist: a LocalNotification raised by code in this
// process after it mutated shared state, and a StorageChanged event raised
// when another process changed the shared storage. Subscribers are expected
// to treat both the same way: reload from storage and re-render.
package notify

import (
	"context"
	"sync"

	"storefront/pkg/kv"
)

// Kind tells where a change originated.
type Kind int

const (
	// LocalNotification is published by this process after a mutation.
	LocalNotification Kind = iota + 1
	// StorageChanged is published when another process wrote shared storage.
	StorageChanged
)

func (k Kind) String() string {
	switch k {
	case LocalNotification:
		return "local"
	case StorageChanged:
		return "storage"
	default:
		return "unknown"
	}
}

// Event describes one change.
type Event struct {
	Kind Kind   `json:"kind"`
	Name string `json:"name"`
	// Key is the full storage key involved, used to scope delivery.
	Key string `json:"key"`
}

// Publisher accepts events.
type Publisher interface {
	Publish(ev Event)
}

type subscription struct {
	id int
	fn func(Event)
}

// Bus delivers every published event to all current subscribers,
// synchronously and in subscription order.
type Bus struct {
	mu   sync.RWMutex
	next int
	subs []subscription
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers fn and returns a function removing it.
func (b *Bus) Subscribe(fn func(Event)) (cancel func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.next++
	id := b.next
	b.subs = append(b.subs, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Bus) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish calls every subscriber with ev before returning.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, s := range subs {
		s.fn(ev)
	}
}

// Len returns the number of subscribers.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Forward republishes changes reported by w as StorageChanged events. It
// blocks until ctx is done or the watcher fails.
func Forward(ctx context.Context, w kv.Watcher, pub Publisher) error {
	return w.Watch(ctx, func(key string) {
		pub.Publish(Event{Kind: StorageChanged, Name: "storage", Key: key})
	})
}
