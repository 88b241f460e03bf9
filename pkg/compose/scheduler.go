package compose

import "sync"

// Scheduler batches cell invalidations into a single coalesced
// recomposition per tick. A cell mutation never re-runs composition
// synchronously: it marks subscribers dirty and enqueues a pass here.
//
// No two passes run concurrently. A mutation occurring during a pass is
// deferred to the next pass; Flush loops until nothing is pending.
type Scheduler struct {
	mu      sync.Mutex
	pending bool
	running bool

	// pass runs one recomposition. Set by the composer.
	pass func()

	// wake, when set, is called once when work becomes pending while no
	// pass is running. Server sessions use it to nudge their event loop.
	wake func()
}

func newScheduler(pass func()) *Scheduler {
	return &Scheduler{pass: pass}
}

// OnWake installs the wakeup callback.
func (s *Scheduler) OnWake(fn func()) {
	s.mu.Lock()
	s.wake = fn
	s.mu.Unlock()
}

// Schedule enqueues a pass if one is not already pending. All mutations
// in the same tick coalesce into one pass.
func (s *Scheduler) Schedule() {
	s.mu.Lock()
	already := s.pending
	s.pending = true
	running := s.running
	wake := s.wake
	s.mu.Unlock()

	if !already && !running && wake != nil {
		wake()
	}
}

// HasPending reports whether a pass is queued.
func (s *Scheduler) HasPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Flush runs passes until none is pending. Calling Flush from within a
// pass is a no-op: the in-flight Flush picks the work up on the next
// loop iteration, so passes never nest.
func (s *Scheduler) Flush() {
	for {
		s.mu.Lock()
		if !s.pending || s.running {
			s.mu.Unlock()
			return
		}
		s.pending = false
		s.running = true
		s.mu.Unlock()

		s.pass()

		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}
}
