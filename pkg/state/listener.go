package state

// Listener is anything that can be notified when a cell it read changes.
// The composer's nodes and effect records implement this interface.
type Listener interface {
	// MarkDirty notifies the listener that one of its dependencies changed.
	// For composition nodes, this schedules a recomposition pass.
	MarkDirty()

	// ID returns a unique identifier for this listener.
	// Used for deduplication during batch processing.
	ID() uint64
}

// Lifetime reports whether the scope that owns a cell is still alive.
// Cells owned by a disposed scope drop writes instead of notifying.
type Lifetime interface {
	Disposed() bool
}
