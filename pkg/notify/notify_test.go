package notify

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBusDeliversInOrder(t *testing.T) {
	b := NewBus()
	var got []string
	b.Subscribe(func(ev Event) { got = append(got, "first:"+ev.Name) })
	cancel := b.Subscribe(func(ev Event) { got = append(got, "second:"+ev.Name) })

	b.Publish(Event{Kind: LocalNotification, Name: "cart-updated"})
	cancel()
	cancel()
	b.Publish(Event{Kind: StorageChanged, Name: "storage"})

	want := []string{"first:cart-updated", "second:cart-updated", "first:storage"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("deliveries mismatch (-want +got):\n%s", diff)
	}
	if b.Len() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", b.Len())
	}
}

func TestSubscriberMayUnsubscribeDuringPublish(t *testing.T) {
	b := NewBus()
	calls := 0
	var cancel func()
	cancel = b.Subscribe(func(Event) {
		calls++
		cancel()
	})
	b.Publish(Event{Kind: LocalNotification})
	b.Publish(Event{Kind: LocalNotification})
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

type fakeWatcher struct{ keys []string }

func (f fakeWatcher) Watch(ctx context.Context, fn func(string)) error {
	for _, k := range f.keys {
		fn(k)
	}
	return nil
}

func TestForward(t *testing.T) {
	b := NewBus()
	var got []Event
	b.Subscribe(func(ev Event) { got = append(got, ev) })

	if err := Forward(context.Background(), fakeWatcher{keys: []string{"origin/a/cartItems"}}, b); err != nil {
		t.Fatalf("forward: %v", err)
	}
	want := []Event{{Kind: StorageChanged, Name: "storage", Key: "origin/a/cartItems"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestKindString(t *testing.T) {
	if LocalNotification.String() != "local" || StorageChanged.String() != "storage" || Kind(0).String() != "unknown" {
		t.Fatal("unexpected kind names")
	}
}
