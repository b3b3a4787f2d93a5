package cart

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"storefront/pkg/catalog"
	"storefront/pkg/kv"
	"storefront/pkg/kv/memory"
	"storefront/pkg/logger"
	"storefront/pkg/notify"
)

func newTestStore(t *testing.T) (*Store, *memory.Store, *notify.Bus) {
	t.Helper()
	mem := memory.New()
	bus := notify.NewBus()
	return New(mem, bus, logger.NewNop()), mem, bus
}

func shoe(id catalog.ID) Item {
	return Item{ID: id, Name: "Shoe", Price: 1000, Images: []string{"a.jpg", "b.jpg"}}
}

func TestAddSameItemTwice(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	if err := s.AddItem(ctx, shoe(7)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if n, _ := s.TotalCount(ctx); n != 1 {
		t.Fatalf("expected count 1, got %d", n)
	}
	if err := s.AddItem(ctx, shoe(7)); err != nil {
		t.Fatalf("add again: %v", err)
	}
	if n, _ := s.TotalCount(ctx); n != 2 {
		t.Fatalf("expected count 2, got %d", n)
	}

	lines, err := s.Lines(ctx)
	if err != nil {
		t.Fatalf("lines: %v", err)
	}
	want := []Line{{ID: 7, Name: "Shoe", Price: 1000, Image: "a.jpg", Quantity: 2}}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
	if total, _ := s.TotalPrice(ctx); total != 2000 {
		t.Fatalf("expected total 2000, got %v", total)
	}
}

func TestAddThenRemove(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	id, err := catalog.ParseID("7")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.AddItem(ctx, shoe(id)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.RemoveItem(ctx, id); err != nil {
		t.Fatalf("remove: %v", err)
	}

	lines, _ := s.Lines(ctx)
	if len(lines) != 0 {
		t.Fatalf("expected no lines, got %+v", lines)
	}
	ids, _ := s.AddedIDs(ctx)
	if len(ids) != 0 {
		t.Fatalf("expected no ids, got %v", ids.Slice())
	}
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	ctx := context.Background()
	s, _, bus := newTestStore(t)
	events := 0
	bus.Subscribe(func(notify.Event) { events++ })

	if err := s.RemoveItem(ctx, 999); err != nil {
		t.Fatalf("remove: %v", err)
	}
	lines, _ := s.Lines(ctx)
	ids, _ := s.AddedIDs(ctx)
	if len(lines) != 0 || len(ids) != 0 {
		t.Fatalf("expected empty state, got %v %v", lines, ids)
	}
	if events != 1 {
		t.Fatalf("expected one notification, got %d", events)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, mem, _ := newTestStore(t)
	_ = s.AddItem(ctx, shoe(1))
	_ = s.AddItem(ctx, shoe(2))

	_ = s.RemoveItem(ctx, 1)
	once := snapshot(t, mem)
	_ = s.RemoveItem(ctx, 1)
	twice := snapshot(t, mem)

	if diff := cmp.Diff(once, twice); diff != "" {
		t.Fatalf("second remove changed state (-once +twice):\n%s", diff)
	}
}

func snapshot(t *testing.T, mem *memory.Store) [2]string {
	t.Helper()
	ctx := context.Background()
	lines, err := mem.Get(ctx, LinesKey)
	if err != nil {
		t.Fatal(err)
	}
	ids, err := mem.Get(ctx, AddedKey)
	if err != nil {
		t.Fatal(err)
	}
	return [2]string{lines, ids}
}

func TestAddAccumulatesQuantity(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)
	for i := 0; i < 25; i++ {
		if err := s.AddItem(ctx, shoe(3)); err != nil {
			t.Fatal(err)
		}
	}
	lines, _ := s.Lines(ctx)
	if len(lines) != 1 || lines[0].Quantity != 25 {
		t.Fatalf("expected one line with quantity 25, got %+v", lines)
	}
}

func TestInvariantUnderRandomMutations(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)
	rnd := rand.New(rand.NewSource(1))

	for i := 0; i < 500; i++ {
		id := catalog.ID(rnd.Intn(8))
		var err error
		if rnd.Intn(3) == 0 {
			err = s.RemoveItem(ctx, id)
		} else {
			err = s.AddItem(ctx, shoe(id))
		}
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}

		lines, _ := s.Lines(ctx)
		ids, _ := s.AddedIDs(ctx)
		want := IDSet{}
		sum := 0
		for _, l := range lines {
			if !ids.Contains(l.ID.String()) {
				t.Fatalf("step %d: line %s missing from ids", i, l.ID)
			}
			if _, dup := want[l.ID.String()]; dup {
				t.Fatalf("step %d: duplicate line %s", i, l.ID)
			}
			want[l.ID.String()] = struct{}{}
			sum += l.Quantity
		}
		if diff := cmp.Diff(want.Slice(), ids.Slice()); diff != "" {
			t.Fatalf("step %d: ids diverged (-lines +ids):\n%s", i, diff)
		}
		if n, _ := s.TotalCount(ctx); n != sum {
			t.Fatalf("step %d: total %d, sum %d", i, n, sum)
		}
	}
}

func TestNotificationSeesCompletedMutation(t *testing.T) {
	ctx := context.Background()
	s, _, bus := newTestStore(t)

	var seen []int
	var events []notify.Event
	bus.Subscribe(func(ev notify.Event) {
		events = append(events, ev)
		n, err := s.TotalCount(ctx)
		if err != nil {
			t.Errorf("count in listener: %v", err)
		}
		in, _ := s.Contains(ctx, 5)
		if in != (n > 0) {
			t.Errorf("ids and lines disagree in listener: in=%v count=%d", in, n)
		}
		seen = append(seen, n)
	})

	_ = s.AddItem(ctx, shoe(5))
	_ = s.AddItem(ctx, shoe(5))
	_ = s.RemoveItem(ctx, 5)

	if diff := cmp.Diff([]int{1, 2, 0}, seen); diff != "" {
		t.Fatalf("listener observations (-want +got):\n%s", diff)
	}
	for _, ev := range events {
		if ev.Kind != notify.LocalNotification || ev.Name != EventName || ev.Key != LinesKey {
			t.Fatalf("unexpected event %+v", ev)
		}
	}
}

func TestEventKeyIsScoped(t *testing.T) {
	ctx := context.Background()
	bus := notify.NewBus()
	s := New(kv.WithPrefix(memory.New(), "origin/x/"), bus, logger.NewNop())

	var got notify.Event
	bus.Subscribe(func(ev notify.Event) { got = ev })
	_ = s.AddItem(ctx, shoe(1))

	if got.Key != "origin/x/cartItems" {
		t.Fatalf("unexpected key %q", got.Key)
	}
}

func TestMalformedStateReadsEmpty(t *testing.T) {
	ctx := context.Background()
	s, mem, _ := newTestStore(t)
	_ = mem.Set(ctx, LinesKey, `[{"id":1,"quantity":2}, oops`)
	_ = mem.Set(ctx, AddedKey, `{"not":"a list"}`)

	lines, err := s.Lines(ctx)
	if err != nil || len(lines) != 0 {
		t.Fatalf("expected empty lines, got %v %v", lines, err)
	}
	ids, err := s.AddedIDs(ctx)
	if err != nil || len(ids) != 0 {
		t.Fatalf("expected empty ids, got %v %v", ids, err)
	}

	if err := s.AddItem(ctx, shoe(1)); err != nil {
		t.Fatalf("add over malformed state: %v", err)
	}
	if n, _ := s.TotalCount(ctx); n != 1 {
		t.Fatalf("expected count 1, got %d", n)
	}
}

func TestItemWithoutImages(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)
	if err := s.AddItem(ctx, Item{ID: 4, Name: "Cap", Price: 5}); err != nil {
		t.Fatal(err)
	}
	lines, _ := s.Lines(ctx)
	if lines[0].Image != "" {
		t.Fatalf("expected empty image, got %q", lines[0].Image)
	}
}

func TestToggle(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	in, err := s.Toggle(ctx, shoe(9))
	if err != nil || !in {
		t.Fatalf("first toggle: %v %v", in, err)
	}
	in, err = s.Toggle(ctx, shoe(9))
	if err != nil || in {
		t.Fatalf("second toggle: %v %v", in, err)
	}
	if n, _ := s.TotalCount(ctx); n != 0 {
		t.Fatalf("expected empty cart, got %d", n)
	}
}

type failingStore struct {
	kv.Store
	failKey string
}

var errBoom = errors.New("boom")

func (f failingStore) Set(ctx context.Context, key, value string) error {
	if key == f.failKey {
		return errBoom
	}
	return f.Store.Set(ctx, key, value)
}

func TestWriteFailureSkipsNotification(t *testing.T) {
	ctx := context.Background()
	bus := notify.NewBus()
	events := 0
	bus.Subscribe(func(notify.Event) { events++ })

	s := New(failingStore{Store: memory.New(), failKey: AddedKey}, bus, logger.NewNop())
	if err := s.AddItem(ctx, shoe(1)); !errors.Is(err, errBoom) {
		t.Fatalf("expected errBoom, got %v", err)
	}
	if events != 0 {
		t.Fatalf("expected no notification, got %d", events)
	}
}

type countingObserver map[string]int

func (c countingObserver) CartMutated(op string) { c[op]++ }

func TestObserver(t *testing.T) {
	ctx := context.Background()
	obs := countingObserver{}
	s := New(memory.New(), notify.NewBus(), logger.NewNop(), WithObserver(obs))
	_ = s.AddItem(ctx, shoe(1))
	_ = s.RemoveItem(ctx, 1)
	if obs["add"] != 1 || obs["remove"] != 1 {
		t.Fatalf("unexpected observations %v", obs)
	}
}
