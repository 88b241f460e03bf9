// Package state provides Arbor's reactive value cells.
//
// A Cell[T] is a single mutable value with subscriber tracking. Reading a
// cell during a tracked context (a composing node body or an effect body)
// automatically subscribes the current listener, so mutations know exactly
// which parts of the tree to mark dirty:
//
//	open := state.NewCell(false)
//	value := open.Get()   // read (subscribes current listener)
//	open.Set(true)        // write (notifies subscribers)
//	open.Update(func(b bool) bool { return !b })
//
// # Batching
//
// Multiple writes can be batched so subscribers are notified once:
//
//	state.Batch(func() {
//	    a.Set(1)
//	    b.Set(2)
//	})  // one notification per affected listener
//
// # Thread safety
//
// Cells are safe for concurrent use. The tracking context is per-goroutine:
// each SSR request composes its own tree on its own goroutine and the
// contexts never interleave.
package state
