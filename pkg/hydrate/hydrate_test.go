package hydrate

import (
	"testing"

	"github.com/arbor-ui/arbor/pkg/dom"
)

const page = `<!DOCTYPE html>
<html><head></head><body>
<header>
  <button id="menu-trigger" role="button" tabindex="0"
          aria-controls="hamburger-menu-1" aria-expanded="false"
          data-action='{"type":"toggle","targetId":"hamburger-menu-1","params":{"openLabel":"Open menu","closeLabel":"Close menu"}}'>☰</button>
  <nav id="hamburger-menu-1" style="display:none"><a href="/">Home</a></nav>
</header>
<div id="broken" data-action='{oops'>broken</div>
<div id="orphan" data-action='{"type":"toggle","targetId":"missing"}'>orphan</div>
<div id="alien" data-action='{"type":"launch","targetId":"hamburger-menu-1"}'>alien</div>
</body></html>`

func newHydrated(t *testing.T) (*Engine, *dom.Document, Stats) {
	t.Helper()

	doc, err := dom.ParseString(page)
	if err != nil {
		t.Fatal(err)
	}

	registry := NewRegistry()
	if err := RegisterStandard(registry); err != nil {
		t.Fatal(err)
	}

	engine := NewEngine(registry)
	stats, ok := engine.Hydrate(doc, nil)
	if !ok {
		t.Fatal("unguarded hydration must proceed")
	}
	return engine, doc, stats
}

func TestHydrateStats(t *testing.T) {
	_, _, stats := newHydrated(t)

	if stats.Scanned != 4 {
		t.Errorf("expected 4 scanned, got %d", stats.Scanned)
	}
	if stats.Bound != 1 {
		t.Errorf("expected 1 bound, got %d", stats.Bound)
	}
	// bad JSON, missing target, unknown type
	if stats.Failed != 3 {
		t.Errorf("expected 3 failed, got %d", stats.Failed)
	}
}

func TestInitialStateClosed(t *testing.T) {
	_, doc, _ := newHydrated(t)

	menu := doc.ElementByID("hamburger-menu-1")
	if menu.StyleProperty("display") != "none" {
		t.Errorf("toggle target must start closed, display=%q", menu.StyleProperty("display"))
	}
}

func TestToggleFlipsAndSyncsAria(t *testing.T) {
	_, doc, _ := newHydrated(t)

	trigger := doc.ElementByID("menu-trigger")
	menu := doc.ElementByID("hamburger-menu-1")

	trigger.Click()

	if menu.StyleProperty("display") != "block" {
		t.Errorf("expected open, display=%q", menu.StyleProperty("display"))
	}
	if v, _ := trigger.Attr("aria-expanded"); v != "true" {
		t.Errorf("aria-expanded must mirror open state, got %q", v)
	}
	if v, _ := trigger.Attr("aria-label"); v != "Close menu" {
		t.Errorf("aria-label must flip, got %q", v)
	}

	trigger.Click()

	if menu.StyleProperty("display") != "none" {
		t.Errorf("expected closed, display=%q", menu.StyleProperty("display"))
	}
	if v, _ := trigger.Attr("aria-expanded"); v != "false" {
		t.Errorf("aria-expanded must mirror closed state, got %q", v)
	}
	if v, _ := trigger.Attr("aria-label"); v != "Open menu" {
		t.Errorf("aria-label must flip back, got %q", v)
	}
}

func TestToggleIdempotentOverCycles(t *testing.T) {
	_, doc, _ := newHydrated(t)

	trigger := doc.ElementByID("menu-trigger")
	menu := doc.ElementByID("hamburger-menu-1")

	original := menu.StyleProperty("display")

	// 2N invocations restore the original computed value, for N=5.
	for n := 0; n < 5; n++ {
		trigger.Click()
		trigger.Click()
		if got := menu.StyleProperty("display"); got != original {
			t.Fatalf("cycle %d: display=%q, want %q", n, got, original)
		}
	}
}

func TestBrokenBindingsStayInert(t *testing.T) {
	_, doc, _ := newHydrated(t)

	menu := doc.ElementByID("hamburger-menu-1")

	// None of these may panic, and none may touch the menu.
	doc.ElementByID("broken").Click()
	doc.ElementByID("orphan").Click()
	doc.ElementByID("alien").Click()

	if menu.StyleProperty("display") != "none" {
		t.Error("inert bindings must not affect unrelated targets")
	}
}

func TestSingleDelegatedListener(t *testing.T) {
	_, doc, _ := newHydrated(t)

	if n := doc.Body().ListenerCount("click"); n != 1 {
		t.Errorf("exactly one delegated listener expected, got %d", n)
	}
}

func TestDynamicMarkupHandledWithoutRewalk(t *testing.T) {
	_, doc, _ := newHydrated(t)

	body := doc.Body()
	err := body.AppendHTML(`<button id="late-trigger" data-action='{"type":"toggle","targetId":"late-panel"}'>late</button>
<div id="late-panel" style="display:none">late content</div>`)
	if err != nil {
		t.Fatal(err)
	}

	doc.ElementByID("late-trigger").Click()

	if got := doc.ElementByID("late-panel").StyleProperty("display"); got != "block" {
		t.Errorf("dynamically added markup must be handled, display=%q", got)
	}
}

func TestHydrateRespectsGuard(t *testing.T) {
	doc, err := dom.ParseString(page)
	if err != nil {
		t.Fatal(err)
	}

	registry := NewRegistry()
	if err := RegisterStandard(registry); err != nil {
		t.Fatal(err)
	}
	engine := NewEngine(registry)

	taken := guardStub{held: true}
	if _, ok := engine.Hydrate(doc, taken); ok {
		t.Error("hydration must be skipped when the guard is held")
	}
	if n := doc.Body().ListenerCount("click"); n != 0 {
		t.Errorf("skipped hydration must not attach listeners, got %d", n)
	}
}

type guardStub struct{ held bool }

func (g guardStub) TryActivate(string) bool { return !g.held }
