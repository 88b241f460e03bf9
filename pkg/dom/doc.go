// Package dom wraps golang.org/x/net/html with the small document model
// the hydration engine needs: id lookup, attribute and inline-style
// access, and delegated event dispatch with bubbling.
//
// It is a headless DOM: the server hydrates and exercises real rendered
// markup with it, and tests assert on computed display state exactly the
// way a browser would.
package dom
