// Package hydrate attaches live behavior to server-rendered markup
// without recreating any node.
//
// The engine walks an existing DOM looking for elements carrying a
// data-action attribute, validates each embedded ActionDescriptor, and
// installs a single delegated listener at a stable ancestor. Dispatch is
// a tagged registry lookup by action type; malformed or unmatched
// descriptors fail locally — logged, element left inert, walk continues.
//
// Dynamically added markup that follows the data-action contract is
// handled by the same delegated listener without re-walking.
package hydrate
