package uitest

import (
	"io"
	"log/slog"
	"testing"

	"github.com/arbor-ui/arbor/pkg/compose"
	"github.com/arbor-ui/arbor/pkg/dom"
	"github.com/arbor-ui/arbor/pkg/hydrate"
	"github.com/arbor-ui/arbor/pkg/render"
)

// Harness mounts a component body in a real composer and renders its
// output for assertions.
type Harness struct {
	t *testing.T
	c *compose.Composer
}

// NewHarness creates a harness with a quiet logger.
func NewHarness(t *testing.T) *Harness {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &Harness{
		t: t,
		c: compose.New(compose.WithLogger(logger)),
	}
}

// Composer exposes the underlying composer for scheduler assertions.
func (h *Harness) Composer() *compose.Composer {
	return h.c
}

// Mount composes the body and returns the rendered HTML.
func (h *Harness) Mount(body func(s *compose.Scope)) string {
	h.t.Helper()
	h.c.Compose(body)
	return h.html()
}

// Flush runs pending recomposition and returns the rendered HTML.
func (h *Harness) Flush() string {
	h.t.Helper()
	h.c.Scheduler().Flush()
	return h.html()
}

// Output returns the root's emitted element tree.
func (h *Harness) Output() *render.El {
	h.t.Helper()
	el, ok := h.c.Output().(*render.El)
	if !ok {
		h.t.Fatalf("component emitted %T, want *render.El", h.c.Output())
	}
	return el
}

// Dispose tears down the composer.
func (h *Harness) Dispose() {
	h.c.Dispose()
}

func (h *Harness) html() string {
	h.t.Helper()
	html, err := render.ToHTML(h.Output())
	if err != nil {
		h.t.Fatalf("render: %v", err)
	}
	return html
}

// openGuard always grants activation, so hydration in tests never
// competes with a bootloader.
type openGuard struct{}

func (openGuard) TryActivate(owner string) bool { return true }

// Hydrate parses markup into a document and hydrates it with the
// standard action handlers. Click elements on the returned document to
// drive interactions.
func Hydrate(t *testing.T, markup string) (*dom.Document, hydrate.Stats) {
	t.Helper()
	doc, err := dom.ParseString(markup)
	if err != nil {
		t.Fatalf("parse markup: %v", err)
	}

	reg := hydrate.NewRegistry()
	if err := hydrate.RegisterStandard(reg); err != nil {
		t.Fatalf("register handlers: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := hydrate.NewEngine(reg, hydrate.WithLogger(logger))
	stats, ok := engine.Hydrate(doc, openGuard{})
	if !ok {
		t.Fatal("hydration did not activate")
	}
	return doc, stats
}

// Click dispatches a click on the element with the given id.
func Click(t *testing.T, doc *dom.Document, id string) {
	t.Helper()
	el := doc.ElementByID(id)
	if el == nil {
		t.Fatalf("no element with id %q", id)
	}
	el.Click()
}
