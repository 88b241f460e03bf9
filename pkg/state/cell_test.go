package state

import (
	"sync"
	"testing"
)

// testListener counts MarkDirty notifications.
type testListener struct {
	id    uint64
	mu    sync.Mutex
	dirty int
}

func newTestListener() *testListener {
	return &testListener{id: NextID()}
}

func (l *testListener) MarkDirty() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dirty++
}

func (l *testListener) ID() uint64 { return l.id }

func (l *testListener) dirtyCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dirty
}

func TestCellBasic(t *testing.T) {
	count := NewCell(0)

	if count.Get() != 0 {
		t.Errorf("expected initial value 0, got %d", count.Get())
	}

	count.Set(5)
	if count.Get() != 5 {
		t.Errorf("expected value 5, got %d", count.Get())
	}

	count.Update(func(n int) int { return n * 2 })
	if count.Get() != 10 {
		t.Errorf("expected value 10, got %d", count.Get())
	}
}

func TestCellSubscription(t *testing.T) {
	count := NewCell(0)
	listener := newTestListener()

	WithListener(listener, func() {
		_ = count.Get()
	})

	count.Set(1)
	if listener.dirtyCount() != 1 {
		t.Errorf("expected 1 notification, got %d", listener.dirtyCount())
	}

	// Same value should not notify.
	count.Set(1)
	if listener.dirtyCount() != 1 {
		t.Errorf("same value should not notify, got %d", listener.dirtyCount())
	}

	count.Set(2)
	if listener.dirtyCount() != 2 {
		t.Errorf("expected 2 notifications, got %d", listener.dirtyCount())
	}
}

func TestCellPeekDoesNotSubscribe(t *testing.T) {
	count := NewCell(42)
	listener := newTestListener()

	WithListener(listener, func() {
		if v := count.Peek(); v != 42 {
			t.Errorf("expected 42, got %d", v)
		}
	})

	count.Set(100)
	if listener.dirtyCount() != 0 {
		t.Errorf("Peek should not subscribe, got %d notifications", listener.dirtyCount())
	}
}

func TestCellNoTrackingOutsideContext(t *testing.T) {
	count := NewCell(0)
	listener := newTestListener()

	// Read outside any tracked context.
	_ = count.Get()

	count.Set(1)
	if listener.dirtyCount() != 0 {
		t.Errorf("untracked read must not subscribe, got %d", listener.dirtyCount())
	}
}

func TestCellDedupeSubscription(t *testing.T) {
	count := NewCell(0)
	listener := newTestListener()

	WithListener(listener, func() {
		_ = count.Get()
		_ = count.Get()
		_ = count.Get()
	})

	count.Set(1)
	if listener.dirtyCount() != 1 {
		t.Errorf("triple read must subscribe once, got %d notifications", listener.dirtyCount())
	}
}

func TestCellCustomEquals(t *testing.T) {
	// Treat all even numbers as equal to each other.
	c := NewCell(2).WithEquals(func(a, b int) bool { return a%2 == b%2 })
	listener := newTestListener()

	WithListener(listener, func() { _ = c.Get() })

	c.Set(4)
	if listener.dirtyCount() != 0 {
		t.Errorf("custom equality should suppress notification, got %d", listener.dirtyCount())
	}

	c.Set(3)
	if listener.dirtyCount() != 1 {
		t.Errorf("expected 1 notification, got %d", listener.dirtyCount())
	}
}

type fakeLifetime struct{ disposed bool }

func (f *fakeLifetime) Disposed() bool { return f.disposed }

func TestCellDisposedOwnerDropsWrites(t *testing.T) {
	owner := &fakeLifetime{}
	c := NewCell(1).BindOwner(owner)
	listener := newTestListener()

	WithListener(listener, func() { _ = c.Get() })

	owner.disposed = true
	c.Set(2)

	if c.Peek() != 1 {
		t.Errorf("write to disposed owner must be dropped, value = %d", c.Peek())
	}
	if listener.dirtyCount() != 0 {
		t.Errorf("dropped write must not notify, got %d", listener.dirtyCount())
	}

	// Update is dropped the same way.
	c.Update(func(n int) int { return n + 1 })
	if c.Peek() != 1 {
		t.Errorf("update to disposed owner must be dropped, value = %d", c.Peek())
	}
}

func TestCellUnsubscribe(t *testing.T) {
	count := NewCell(0)
	listener := newTestListener()

	WithListener(listener, func() { _ = count.Get() })
	count.Unsubscribe(listener)

	count.Set(1)
	if listener.dirtyCount() != 0 {
		t.Errorf("unsubscribed listener must not be notified, got %d", listener.dirtyCount())
	}
}

func TestCellConcurrentAccess(t *testing.T) {
	count := NewCell(0)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			count.Set(n)
			_ = count.Get()
		}(i)
	}
	wg.Wait()

	v := count.Peek()
	if v < 0 || v > 9 {
		t.Errorf("unexpected final value %d", v)
	}
}
