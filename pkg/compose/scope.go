package compose

import "github.com/arbor-ui/arbor/pkg/state"

// Scope is handed to a node body while it composes. It is the only way to
// emit child nodes and to address the node's slot table.
//
// A Scope is valid only for the duration of the body invocation that
// received it.
type Scope struct {
	c *Composer
	n *Node
}

// Node composes a child node identified by (callSite, key) and returns
// its rendered artifact. props participate in the skip policy: when they
// are structurally equal to the previous run and no subscribed cell in
// the subtree is dirty, the body is not invoked and the previous artifact
// is returned.
func (s *Scope) Node(callSite, key string, props any, body func(*Scope)) any {
	idx := s.c.composeNode(s.n.idx, Key{CallSite: callSite, Explicit: key}, props, body)
	if idx < 0 {
		return nil
	}
	if child := s.c.arena[idx]; child != nil {
		return child.out
	}
	return nil
}

// Emit records the node's rendered artifact. The renderer backend decides
// what the artifact is; the composer only stores and reuses it.
func (s *Scope) Emit(out any) {
	s.n.out = out
}

// OnMount registers an effect in the current slot. body runs after the
// first composition of the node and again whenever deps differ
// structurally from the previous run; it may return a cleanup. The
// previous cleanup runs fully before the new body starts. Effects never
// run on the skip path.
func (s *Scope) OnMount(deps []any, body func() Cleanup) {
	n := s.n
	idx := n.slotIdx
	n.slotIdx++

	if idx < len(n.slots) {
		sl := &n.slots[idx]
		if sl.kind != slotEffect || sl.effect == nil {
			panic("compose: slot kind changed between runs (effect expected)")
		}
		rec := sl.effect
		if !keysEqual(rec.deps, deps) {
			rec.deps = deps
			rec.next = body
			s.c.pendingEffects = append(s.c.pendingEffects, rec)
		}
		return
	}

	rec := &EffectRecord{deps: deps, next: body, node: n}
	n.slots = append(n.slots, slot{kind: slotEffect, effect: rec})
	s.c.pendingEffects = append(s.c.pendingEffects, rec)
}

// OnDispose registers a cleanup that runs when the node is destroyed.
func (s *Scope) OnDispose(fn func()) {
	s.OnMount(nil, func() Cleanup { return fn })
}

// NodeKey returns the identity key of the composing node.
func (s *Scope) NodeKey() Key {
	return s.n.key
}

// Remember returns the slot's stored value unless keys changed
// structurally since the previous run, in which case compute re-runs and
// the slot is overwritten.
func Remember[T any](s *Scope, keys []any, compute func() T) T {
	n := s.n
	idx := n.slotIdx
	n.slotIdx++

	if idx < len(n.slots) {
		sl := &n.slots[idx]
		if sl.kind != slotRemembered {
			panic("compose: slot kind changed between runs (remembered value expected)")
		}
		if keysEqual(sl.keys, keys) {
			return sl.value.(T)
		}
		v := compute()
		sl.keys = keys
		sl.value = v
		return v
	}

	v := compute()
	n.slots = append(n.slots, slot{kind: slotRemembered, keys: keys, value: v})
	return v
}

// UseCell remembers a state cell in the current slot. The cell is created
// on first composition and reused thereafter; its writable lifetime is
// bound to the node, so writes after the node is destroyed are dropped.
func UseCell[T any](s *Scope, initial T) *state.Cell[T] {
	n := s.n
	idx := n.slotIdx
	n.slotIdx++

	if idx < len(n.slots) {
		sl := &n.slots[idx]
		if sl.kind != slotCell {
			panic("compose: slot kind changed between runs (cell expected)")
		}
		return sl.value.(*state.Cell[T])
	}

	cell := state.NewCell(initial).BindOwner(n)
	n.slots = append(n.slots, slot{kind: slotCell, value: cell})
	return cell
}

// keysEqual compares slot key lists by structural equality, element-wise.
func keysEqual(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !state.DeepEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}
