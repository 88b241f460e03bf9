package compose

import (
	"log/slog"

	"github.com/arbor-ui/arbor/pkg/state"
)

// Cleanup is returned by an effect body to release whatever the body
// acquired. It is invoked exactly once: when deps change, fully before
// the new body starts, or when the owning node is destroyed — whichever
// happens first.
type Cleanup func()

// EffectRecord is the slot-table entry for one OnMount call site.
type EffectRecord struct {
	node *Node

	// deps are the declared dependency keys from the last run.
	deps []any

	// next is the body queued to run after the current pass.
	// nil when the record is up to date.
	next func() Cleanup

	// cleanup is the cleanup returned by the last body run.
	cleanup Cleanup

	// started reports whether the body has run at least once.
	started bool
}

// run executes the queued body. Bodies run untracked: an effect that does
// asynchronous work communicates its completion back only through a cell
// mutation, which re-enters the scheduler queue.
func (r *EffectRecord) run(logger *slog.Logger) {
	if r.node.disposed || r.next == nil {
		return
	}

	body := r.next
	r.next = nil

	r.runCleanup(logger)

	state.Untracked(func() {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("effect body panicked", "node", r.node.key.CallSite, "recovered", rec)
			}
		}()
		r.cleanup = body()
	})
	r.started = true
}

// dispose runs the still-active cleanup. One failing cleanup must not
// prevent sibling cleanups from running, so failures are logged and
// swallowed here.
func (r *EffectRecord) dispose(logger *slog.Logger) {
	r.next = nil
	r.runCleanup(logger)
}

func (r *EffectRecord) runCleanup(logger *slog.Logger) {
	if !r.started || r.cleanup == nil {
		return
	}
	cleanup := r.cleanup
	r.cleanup = nil

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("effect cleanup panicked", "node", r.node.key.CallSite, "recovered", rec)
		}
	}()
	cleanup()
}
