package state

import (
	"log/slog"
	"reflect"
	"sync"
)

// cellBase provides type-erased subscriber management.
// It is embedded in Cell[T] so that subscription logic is shared across
// value types.
type cellBase struct {
	id uint64

	// subs are the listeners subscribed to this cell.
	subs []Listener

	// subMu protects the subs slice.
	subMu sync.RWMutex
}

// subscribe adds a listener, deduplicating by listener ID so that a node
// reading the same cell several times in one pass subscribes once.
func (c *cellBase) subscribe(l Listener) {
	if l == nil {
		return
	}

	c.subMu.Lock()
	defer c.subMu.Unlock()

	lid := l.ID()
	for _, existing := range c.subs {
		if existing.ID() == lid {
			return
		}
	}

	c.subs = append(c.subs, l)
}

// unsubscribe removes a listener from this cell's subscribers.
func (c *cellBase) unsubscribe(l Listener) {
	if l == nil {
		return
	}

	c.subMu.Lock()
	defer c.subMu.Unlock()

	lid := l.ID()
	for i, existing := range c.subs {
		if existing.ID() == lid {
			c.subs[i] = c.subs[len(c.subs)-1]
			c.subs = c.subs[:len(c.subs)-1]
			return
		}
	}
}

// notifySubscribers marks all subscribers dirty, or queues them when a
// batch is open. Subscribers are copied out before notification so no
// lock is held while listeners run.
func (c *cellBase) notifySubscribers() {
	c.subMu.RLock()
	subs := make([]Listener, len(c.subs))
	copy(subs, c.subs)
	c.subMu.RUnlock()

	if getBatchDepth() > 0 {
		for _, sub := range subs {
			queuePendingUpdate(sub)
		}
		return
	}

	for _, sub := range subs {
		sub.MarkDirty()
	}
}

// Cell is a single mutable reactive value.
// Reading a Cell during a tracked context (a composing node body or an
// effect body) subscribes the current listener, so the cell knows which
// nodes to mark dirty when it changes.
type Cell[T any] struct {
	base cellBase

	// value is the current cell value.
	value T

	// mu protects the value.
	mu sync.RWMutex

	// equal overrides the change check. If nil, default equality is used.
	equal func(T, T) bool

	// owner, when set, gates writes: a cell whose owner is disposed drops
	// writes instead of notifying.
	owner Lifetime
}

// NewCell creates a cell with the given initial value.
func NewCell[T any](initial T) *Cell[T] {
	return &Cell[T]{
		base: cellBase{id: NextID()},
		value: initial,
	}
}

// Get returns the current value and subscribes the current listener, if any.
func (c *Cell[T]) Get() T {
	c.mu.RLock()
	value := c.value
	c.mu.RUnlock()

	if listener := getCurrentListener(); listener != nil {
		c.base.subscribe(listener)
		if st, ok := listener.(SourceTracker); ok {
			st.AddSource(&c.base)
		}
	}

	return value
}

// Peek returns the current value without subscribing.
func (c *Cell[T]) Peek() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Set updates the value and notifies subscribers if it changed.
// Writes to a cell owned by a disposed node are dropped and logged.
func (c *Cell[T]) Set(value T) {
	if c.ownerDisposed() {
		return
	}

	c.mu.Lock()
	changed := !c.equals(c.value, value)
	if changed {
		c.value = value
	}
	c.mu.Unlock()

	if changed {
		c.base.notifySubscribers()
	}
}

// Update atomically reads and rewrites the value.
func (c *Cell[T]) Update(fn func(T) T) {
	if c.ownerDisposed() {
		return
	}

	c.mu.Lock()
	oldValue := c.value
	newValue := fn(oldValue)
	changed := !c.equals(oldValue, newValue)
	if changed {
		c.value = newValue
	}
	c.mu.Unlock()

	if changed {
		c.base.notifySubscribers()
	}
}

// WithEquals configures a custom equality function.
// Useful when reflect.DeepEqual is too expensive or has wrong semantics
// for the stored type.
func (c *Cell[T]) WithEquals(fn func(T, T) bool) *Cell[T] {
	c.equal = fn
	return c
}

// BindOwner ties the cell's writable lifetime to a scope.
// The composer calls this when a cell is remembered in a node's slot.
func (c *Cell[T]) BindOwner(owner Lifetime) *Cell[T] {
	c.owner = owner
	return c
}

// ID returns the unique identifier for this cell.
func (c *Cell[T]) ID() uint64 {
	return c.base.id
}

// Unsubscribe detaches a listener from this cell.
func (c *Cell[T]) Unsubscribe(l Listener) {
	c.base.unsubscribe(l)
}

func (c *Cell[T]) ownerDisposed() bool {
	if c.owner != nil && c.owner.Disposed() {
		slog.Warn("dropped write to cell of disposed node", "cell", c.base.id)
		return true
	}
	return false
}

func (c *Cell[T]) equals(a, b T) bool {
	if c.equal != nil {
		return c.equal(a, b)
	}
	return DeepEqual(a, b)
}

// DeepEqual is the default structural equality used by cells and by the
// composer's skip policy. It uses == for common comparable types and
// falls back to reflect.DeepEqual for the rest.
func DeepEqual[T any](a, b T) bool {
	switch av := any(a).(type) {
	case int:
		return av == any(b).(int)
	case int8:
		return av == any(b).(int8)
	case int16:
		return av == any(b).(int16)
	case int32:
		return av == any(b).(int32)
	case int64:
		return av == any(b).(int64)
	case uint:
		return av == any(b).(uint)
	case uint8:
		return av == any(b).(uint8)
	case uint16:
		return av == any(b).(uint16)
	case uint32:
		return av == any(b).(uint32)
	case uint64:
		return av == any(b).(uint64)
	case float32:
		return av == any(b).(float32)
	case float64:
		return av == any(b).(float64)
	case string:
		return av == any(b).(string)
	case bool:
		return av == any(b).(bool)
	default:
		return reflect.DeepEqual(a, b)
	}
}

// Source is the subscription end of a cell, seen by listeners that track
// which cells they read.
type Source interface {
	// Remove detaches a listener from this source.
	Remove(l Listener)
}

// Remove implements Source.
func (c *cellBase) Remove(l Listener) {
	c.unsubscribe(l)
}

// SourceTracker is implemented by listeners that record which cells they
// read, so they can unsubscribe from stale sources before re-running.
type SourceTracker interface {
	Listener
	AddSource(source Source)
}
