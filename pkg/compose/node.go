package compose

import (
	"github.com/arbor-ui/arbor/pkg/state"
)

// Key identifies a node across recomposition runs.
// Nodes are matched by (call-site id, explicit key), not by position, so
// reordering keyed children moves existing nodes instead of recreating them.
type Key struct {
	CallSite string
	Explicit string
}

// slotKind tags the values remembered in a node's slot table.
type slotKind uint8

const (
	slotRemembered slotKind = iota // cached computation result
	slotCell                       // state cell
	slotEffect                     // effect record
)

// slot is one entry in a node's slot table.
type slot struct {
	kind   slotKind
	keys   []any
	value  any
	effect *EffectRecord
}

// Node is one record in the composer's arena. It tracks the declarative
// call that produced it, the values it remembered, and the cells it read.
//
// Nodes are owned exclusively by the Composer and addressed by arena index.
// A node is destroyed when its parent no longer emits it in a re-run.
type Node struct {
	c *Composer

	idx    int // arena index
	id     uint64
	key    Key
	parent int // arena index of the parent, -1 for the root
	depth  int

	// children is the committed child list from the last completed run.
	// building assembles the next list while the body runs.
	children []int
	building []int

	// prevByKey indexes the committed children during a body re-run so
	// matched children can be claimed and leftovers collected.
	prevByKey map[Key]int

	// slots is the ordered remembered-value table.
	slots   []slot
	slotIdx int

	// props are the declared inputs from the last run, compared
	// structurally by the skip policy.
	props any

	// body re-runs the node's declarative calls.
	body func(*Scope)

	// out is the node's rendered artifact, reused wholesale on skip.
	out any

	// sources are the cells this node read during its last run.
	sources []state.Source

	dirty        bool // a subscribed cell changed
	subtreeDirty bool // some descendant is dirty
	disposed     bool
}

// MarkDirty implements state.Listener. It flags the node and its ancestor
// chain, then asks the scheduler for a pass.
func (n *Node) MarkDirty() {
	if n.disposed {
		return
	}

	n.dirty = true

	for p := n.parent; p >= 0; {
		pn := n.c.arena[p]
		if pn == nil || pn.subtreeDirty {
			break
		}
		pn.subtreeDirty = true
		p = pn.parent
	}

	n.c.sched.Schedule()
}

// ID implements state.Listener.
func (n *Node) ID() uint64 {
	return n.id
}

// AddSource implements state.SourceTracker.
func (n *Node) AddSource(src state.Source) {
	for _, s := range n.sources {
		if s == src {
			return
		}
	}
	n.sources = append(n.sources, src)
}

// Disposed implements state.Lifetime. Cells remembered in this node's
// slots stop accepting writes once the node is gone.
func (n *Node) Disposed() bool {
	return n.disposed
}

// Key returns the node's identity key.
func (n *Node) Key() Key {
	return n.key
}

// clearSources detaches the node from every cell it subscribed to.
// Called before a body re-run and on disposal.
func (n *Node) clearSources() {
	for _, src := range n.sources {
		src.Remove(n)
	}
	n.sources = n.sources[:0]
}
