// Package uitest provides test helpers for Arbor components.
//
// The harness mounts a component body in a real composer, renders the
// output to HTML, and lets tests drive recomposition by mutating
// cells:
//
//	h := uitest.NewHarness(t)
//	defer h.Dispose()
//
//	html := h.Mount(func(s *compose.Scope) { ... })
//	uitest.ExpectContains(t, h.Output(), "Menu")
//
//	open.Set(true)
//	html = h.Flush()
//
// Hydrate loads rendered HTML into an in-memory document and runs the
// hydration engine over it, so interaction tests can click elements
// headlessly.
package uitest
