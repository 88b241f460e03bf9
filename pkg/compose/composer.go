package compose

import (
	"fmt"
	"log/slog"

	"github.com/arbor-ui/arbor/pkg/state"
)

// rootKey is the identity of the implicit root node.
var rootKey = Key{CallSite: "root"}

// ErrorHandler receives composition errors: a node body panicked during a
// run. The previously composed subtree of that node is retained.
type ErrorHandler func(key Key, recovered any)

// Composer walks declarative calls, allocates or reuses node slots in its
// arena, records which cells each node read, and decides skip versus
// re-run per node.
//
// A Composer owns exactly one logical tree. It is single-threaded and
// cooperative: all passes run on the caller's goroutine via the Scheduler.
type Composer struct {
	arena []*Node
	free  []int

	root int // arena index of the root node, -1 before first compose
	cur  int // node being composed, -1 outside a pass

	rootBody  func(*Scope)
	rootProps any

	sched  *Scheduler
	logger *slog.Logger

	onError ErrorHandler

	// garbage holds nodes unmatched by the current run. They are torn
	// down after the run completes, never during.
	garbage []int

	// pendingEffects are effect records whose body must run (first mount
	// or deps change) once the pass has completed.
	pendingEffects []*EffectRecord

	inPass bool
}

// Option configures a Composer.
type Option func(*Composer)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Composer) { c.logger = logger }
}

// WithErrorHandler installs the handler that receives composition errors.
// Without one, errors are logged and otherwise dropped.
func WithErrorHandler(h ErrorHandler) Option {
	return func(c *Composer) { c.onError = h }
}

// New creates an empty Composer.
func New(opts ...Option) *Composer {
	c := &Composer{
		root:   -1,
		cur:    -1,
		logger: slog.Default().With("component", "composer"),
	}
	c.sched = newScheduler(c.pass)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Scheduler returns the composer's recomposition scheduler.
func (c *Composer) Scheduler() *Scheduler {
	return c.sched
}

// Compose performs the initial composition with the given root body.
// Subsequent cell mutations re-enter through the Scheduler.
func (c *Composer) Compose(body func(*Scope)) {
	c.ComposeWithProps(nil, body)
}

// ComposeWithProps is Compose with explicit root inputs for the skip policy.
func (c *Composer) ComposeWithProps(props any, body func(*Scope)) {
	c.rootBody = body
	c.rootProps = props
	c.sched.Schedule()
	c.sched.Flush()
}

// Output returns the root node's rendered artifact from the last
// completed pass, or nil if nothing has been composed.
func (c *Composer) Output() any {
	if c.root < 0 {
		return nil
	}
	return c.arena[c.root].out
}

// NodeCount reports the number of live nodes in the arena.
func (c *Composer) NodeCount() int {
	count := 0
	for _, n := range c.arena {
		if n != nil && !n.disposed {
			count++
		}
	}
	return count
}

// Dispose tears down the whole tree: every still-active effect cleanup
// runs, child-before-parent, and all slots are reclaimed.
func (c *Composer) Dispose() {
	if c.root >= 0 {
		c.teardown(c.root)
		c.root = -1
	}
}

// pass is one coalesced recomposition: re-enter at the root and let the
// skip policy prune unaffected subtrees. Invoked only by the Scheduler,
// which guarantees no two passes overlap.
func (c *Composer) pass() {
	if c.rootBody == nil {
		return
	}

	c.inPass = true
	c.composeNode(-1, rootKey, c.rootProps, c.rootBody)
	c.inPass = false

	// Unmatched nodes from the previous run are torn down after the new
	// run completes.
	garbage := c.garbage
	c.garbage = nil
	for _, idx := range garbage {
		c.teardown(idx)
	}

	c.flushEffects()
}

// composeNode enters a node: reuse by key when the parent composed it in
// the previous run, create it otherwise, and apply the skip policy.
// Returns the arena index of the (re)composed node.
func (c *Composer) composeNode(parent int, key Key, props any, body func(*Scope)) int {
	idx, found := c.claimExisting(parent, key)

	if found {
		n := c.arena[idx]

		// Skip policy: structurally equal props and no dirty cell
		// anywhere in the subtree means the body is not re-invoked and
		// the children are reused wholesale.
		if !n.dirty && !n.subtreeDirty && state.DeepEqual(n.props, props) {
			c.appendChild(parent, idx)
			return idx
		}

		prev := n.props
		n.props = props
		n.body = body
		c.appendChild(parent, idx)
		if !c.runBody(n) {
			// The body never committed, so the retained output still
			// reflects the previous props. Keep them so the skip policy
			// cannot mistake the node for up to date.
			n.props = prev
		}
		return idx
	}

	n := c.allocNode(parent, key)
	n.props = props
	n.body = body
	c.appendChild(parent, n.idx)
	c.runBody(n)
	return n.idx
}

// claimExisting looks up the node for key in the parent's previous run
// and claims it so it will not be collected as garbage.
func (c *Composer) claimExisting(parent int, key Key) (int, bool) {
	if parent < 0 {
		if c.root >= 0 && c.arena[c.root].key == key {
			return c.root, true
		}
		if c.root >= 0 {
			// Root identity changed: old tree goes away.
			c.garbage = append(c.garbage, c.root)
			c.root = -1
		}
		return -1, false
	}

	p := c.arena[parent]
	if p.prevByKey == nil {
		return -1, false
	}
	idx, ok := p.prevByKey[key]
	if !ok {
		return -1, false
	}
	delete(p.prevByKey, key)
	return idx, true
}

func (c *Composer) allocNode(parent int, key Key) *Node {
	n := &Node{
		c:      c,
		id:     state.NextID(),
		key:    key,
		parent: parent,
	}

	if len(c.free) > 0 {
		idx := c.free[len(c.free)-1]
		c.free = c.free[:len(c.free)-1]
		n.idx = idx
		c.arena[idx] = n
	} else {
		n.idx = len(c.arena)
		c.arena = append(c.arena, n)
	}

	if parent >= 0 {
		n.depth = c.arena[parent].depth + 1
	} else {
		c.root = n.idx
	}

	return n
}

func (c *Composer) appendChild(parent, child int) {
	if parent < 0 || child < 0 {
		return
	}
	c.arena[parent].building = append(c.arena[parent].building, child)
}

// runBody invokes the node's declarative calls with the node installed as
// the tracked listener, so cell reads subscribe it. A panic in the body is
// a composition error: the previously committed subtree is retained and
// the error is surfaced to the error handler. Sibling subtrees are never
// affected. Reports whether the body ran to completion and committed.
func (c *Composer) runBody(n *Node) bool {
	n.dirty = false
	n.subtreeDirty = false
	n.slotIdx = 0
	n.building = nil

	n.prevByKey = make(map[Key]int, len(n.children))
	for _, idx := range n.children {
		if child := c.arena[idx]; child != nil {
			n.prevByKey[child.key] = idx
		}
	}

	n.clearSources()

	savedCur := c.cur
	c.cur = n.idx

	committed := false
	func() {
		defer func() {
			if r := recover(); r != nil {
				c.recoverBody(n, r)
			}
		}()
		state.WithListener(n, func() {
			n.body(&Scope{c: c, n: n})
		})
		committed = true
	}()

	c.cur = savedCur

	if !committed {
		return false
	}

	// Children the body no longer emitted become garbage.
	for _, idx := range n.prevByKey {
		c.garbage = append(c.garbage, idx)
	}
	n.prevByKey = nil
	n.children = n.building
	n.building = nil
	return true
}

// recoverBody handles a panicking node body. The committed children are
// left untouched; nodes freshly created during the failed run are dropped
// before their effects ever start. The node stays dirty so the next pass
// re-enters it instead of skipping over the stale output.
func (c *Composer) recoverBody(n *Node, r any) {
	for _, idx := range n.building {
		fresh := true
		for _, prev := range n.children {
			if prev == idx {
				fresh = false
				break
			}
		}
		if fresh {
			c.dropPendingEffects(idx)
			c.teardown(idx)
		}
	}
	n.building = nil
	n.prevByKey = nil

	// Flag the node and its ancestor chain by hand: MarkDirty would ask
	// the scheduler for a pass, and re-queueing from inside a failing
	// pass would spin on a body that panics every time.
	n.dirty = true
	for p := n.parent; p >= 0; {
		pn := c.arena[p]
		if pn == nil || pn.subtreeDirty {
			break
		}
		pn.subtreeDirty = true
		p = pn.parent
	}

	c.logger.Error("composition error", "node", fmt.Sprintf("%s/%s", n.key.CallSite, n.key.Explicit), "recovered", r)
	if c.onError != nil {
		c.onError(n.key, r)
	}
}

// dropPendingEffects removes queued effect runs belonging to a node that
// never committed.
func (c *Composer) dropPendingEffects(idx int) {
	kept := c.pendingEffects[:0]
	for _, rec := range c.pendingEffects {
		if rec.node.idx != idx {
			kept = append(kept, rec)
		}
	}
	c.pendingEffects = kept
}

// teardown destroys a node and its subtree. Cleanup effects fire
// child-before-parent, before any slot is reclaimed.
func (c *Composer) teardown(idx int) {
	n := c.arena[idx]
	if n == nil || n.disposed {
		return
	}

	for _, child := range n.children {
		c.teardown(child)
	}

	for i := range n.slots {
		if n.slots[i].kind == slotEffect && n.slots[i].effect != nil {
			n.slots[i].effect.dispose(c.logger)
		}
	}

	n.disposed = true
	n.clearSources()
	n.slots = nil
	n.children = nil
	n.out = nil
	n.body = nil

	c.arena[idx] = nil
	c.free = append(c.free, idx)
}

// flushEffects runs queued effect bodies in visit order. For a deps
// change, the record's previous cleanup has already been contracted to
// run first; see EffectRecord.run.
func (c *Composer) flushEffects() {
	for len(c.pendingEffects) > 0 {
		pending := c.pendingEffects
		c.pendingEffects = nil
		for _, rec := range pending {
			rec.run(c.logger)
		}
	}
}

// currentNode returns the node being composed. Panics outside a pass:
// slot operations are only legal inside a node body.
func (c *Composer) currentNode() *Node {
	if c.cur < 0 {
		panic("compose: slot operation outside a composition pass")
	}
	return c.arena[c.cur]
}
