// Package compose implements Arbor's composition and recomposition engine.
//
// The Composer walks declarative calls and maintains an arena of
// composition nodes, one per declarative call site. Each node carries a
// slot table of remembered values (state cells, effect records, cached
// results) and records which cells it read, so a cell mutation knows
// exactly which subtrees to re-run.
//
// # Identity and reuse
//
// Nodes are matched across runs by (call-site id, explicit key), not by
// position. Reordering a keyed list moves the existing nodes; nodes the
// parent no longer emits are torn down after the run completes.
//
// # Skip policy
//
// A node whose declared props are structurally equal to the previous run
// and whose subtree contains no dirty cell subscription is skipped: its
// body is not invoked, its children and rendered artifact are reused
// wholesale, and none of its effects run.
//
// # Scheduling
//
// Cell mutations never re-run composition synchronously. They mark
// subscribers dirty and enqueue one pass on the Scheduler; all mutations
// in a tick coalesce into a single re-walk, and a mutation during a pass
// defers to the next pass.
package compose
