package dom

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Document is a parsed HTML document plus listener state for delegated
// event dispatch.
type Document struct {
	root *html.Node

	// listeners maps element node -> event type -> handlers.
	// Delegation installs handlers on stable ancestors, so this map
	// stays small regardless of document size.
	listeners map[*html.Node]map[string][]Handler
}

// Handler receives the element the event originally targeted, not the
// element the listener is attached to.
type Handler func(target *Element)

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return &Document{root: root, listeners: make(map[*html.Node]map[string][]Handler)}, nil
}

// ParseString reads an HTML document from a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Root returns the document's root element.
func (d *Document) Root() *Element {
	return &Element{n: d.root, doc: d}
}

// Body returns the body element, or the root when none exists.
func (d *Document) Body() *Element {
	var body *html.Node
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "body" {
			body = n
			return false
		}
		return true
	})
	if body == nil {
		return d.Root()
	}
	return &Element{n: body, doc: d}
}

// ElementByID finds the element with the given id attribute, walking the
// live tree so dynamically inserted markup is found too.
func (d *Document) ElementByID(id string) *Element {
	var found *html.Node
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && getAttr(n, "id") == id {
			found = n
			return false
		}
		return true
	})
	if found == nil {
		return nil
	}
	return &Element{n: found, doc: d}
}

// Walk visits every element depth-first. Return false from visit to stop.
func (d *Document) Walk(visit func(*Element) bool) {
	walk(d.root, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		return visit(&Element{n: n, doc: d})
	})
}

// HTML serializes the document back to markup.
func (d *Document) HTML() (string, error) {
	var sb strings.Builder
	if err := html.Render(&sb, d.root); err != nil {
		return "", fmt.Errorf("render document: %w", err)
	}
	return sb.String(), nil
}

// Dispatch simulates an event on the target: it bubbles from the target
// to the root, invoking listeners for the event type along the way.
func (d *Document) Dispatch(eventType string, target *Element) {
	if target == nil {
		return
	}
	for n := target.n; n != nil; n = n.Parent {
		if byType, ok := d.listeners[n]; ok {
			for _, h := range byType[eventType] {
				h(target)
			}
		}
	}
}

// walk visits nodes depth-first; visit returning false stops the walk.
func walk(n *html.Node, visit func(*html.Node) bool) bool {
	if !visit(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, visit) {
			return false
		}
	}
	return true
}

func getAttr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}
