package dom

import (
	"strings"
	"testing"
)

const page = `<!DOCTYPE html>
<html><head><title>t</title></head><body>
<nav id="site-nav">
  <button id="trigger" data-action='{"type":"toggle","targetId":"menu"}'>☰</button>
  <ul id="menu" style="display:none"><li>Home</li></ul>
</nav>
</body></html>`

func TestElementByID(t *testing.T) {
	doc, err := ParseString(page)
	if err != nil {
		t.Fatal(err)
	}

	menu := doc.ElementByID("menu")
	if menu == nil {
		t.Fatal("menu not found")
	}
	if menu.Tag() != "ul" {
		t.Errorf("expected ul, got %s", menu.Tag())
	}
	if doc.ElementByID("nope") != nil {
		t.Error("missing id must return nil")
	}
}

func TestStyleProperty(t *testing.T) {
	doc, _ := ParseString(page)
	menu := doc.ElementByID("menu")

	if got := menu.StyleProperty("display"); got != "none" {
		t.Errorf("expected none, got %q", got)
	}

	menu.SetStyleProperty("display", "block")
	if got := menu.StyleProperty("display"); got != "block" {
		t.Errorf("expected block, got %q", got)
	}

	// Unrelated declarations survive.
	menu.SetAttr("style", "color:red;display:none")
	menu.SetStyleProperty("display", "block")
	if got := menu.StyleProperty("color"); got != "red" {
		t.Errorf("color lost: %q", got)
	}
	if got := menu.StyleProperty("display"); got != "block" {
		t.Errorf("expected block, got %q", got)
	}
}

func TestDispatchBubbles(t *testing.T) {
	doc, _ := ParseString(page)

	var seen []string
	doc.Body().AddEventListener("click", func(target *Element) {
		seen = append(seen, "body:"+target.ID())
	})
	doc.ElementByID("site-nav").AddEventListener("click", func(target *Element) {
		seen = append(seen, "nav:"+target.ID())
	})

	doc.ElementByID("trigger").Click()

	if len(seen) != 2 {
		t.Fatalf("expected 2 handler invocations, got %v", seen)
	}
	// Bubbling order: nearest ancestor first.
	if seen[0] != "nav:trigger" || seen[1] != "body:trigger" {
		t.Errorf("unexpected dispatch order: %v", seen)
	}
}

func TestClosest(t *testing.T) {
	doc, _ := ParseString(page)

	trigger := doc.ElementByID("trigger")
	el, val := trigger.Closest("data-action")
	if el == nil {
		t.Fatal("expected to find data-action carrier")
	}
	if el.ID() != "trigger" || !strings.Contains(val, "toggle") {
		t.Errorf("unexpected closest result: %s %s", el.ID(), val)
	}

	menu := doc.ElementByID("menu")
	if el, _ := menu.Closest("data-action"); el != nil {
		t.Errorf("menu has no data-action ancestor, got %s", el.ID())
	}
}

func TestAppendHTMLFindableAndDispatchable(t *testing.T) {
	doc, _ := ParseString(page)

	nav := doc.ElementByID("site-nav")
	if err := nav.AppendHTML(`<button id="late" data-action='{"type":"toggle","targetId":"menu"}'>more</button>`); err != nil {
		t.Fatal(err)
	}

	late := doc.ElementByID("late")
	if late == nil {
		t.Fatal("dynamically added element not found")
	}

	var hits int
	doc.Body().AddEventListener("click", func(*Element) { hits++ })
	late.Click()
	if hits != 1 {
		t.Errorf("delegated listener must see dynamic markup, hits=%d", hits)
	}
}

func TestHTMLSerializeRoundTrip(t *testing.T) {
	doc, _ := ParseString(page)
	doc.ElementByID("menu").SetStyleProperty("display", "block")

	out, err := doc.HTML()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "display:block") {
		t.Errorf("mutation not serialized: %s", out)
	}
}
