package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Element is a live reference to one element node in a Document.
type Element struct {
	n   *html.Node
	doc *Document
}

// Tag returns the element's tag name.
func (e *Element) Tag() string {
	return e.n.Data
}

// ID returns the element's id attribute.
func (e *Element) ID() string {
	return getAttr(e.n, "id")
}

// Attr returns an attribute value and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or replaces an attribute.
func (e *Element) SetAttr(name, value string) {
	for i := range e.n.Attr {
		if e.n.Attr[i].Key == name {
			e.n.Attr[i].Val = value
			return
		}
	}
	e.n.Attr = append(e.n.Attr, html.Attribute{Key: name, Val: value})
}

// RemoveAttr deletes an attribute if present.
func (e *Element) RemoveAttr(name string) {
	for i := range e.n.Attr {
		if e.n.Attr[i].Key == name {
			e.n.Attr = append(e.n.Attr[:i], e.n.Attr[i+1:]...)
			return
		}
	}
}

// Parent returns the parent element, or nil at the root.
func (e *Element) Parent() *Element {
	p := e.n.Parent
	for p != nil && p.Type != html.ElementNode {
		p = p.Parent
	}
	if p == nil {
		return nil
	}
	return &Element{n: p, doc: e.doc}
}

// StyleProperty reads one property from the inline style attribute.
// Returns "" when the property is not declared.
func (e *Element) StyleProperty(name string) string {
	style, _ := e.Attr("style")
	for _, decl := range strings.Split(style, ";") {
		k, v, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		if strings.TrimSpace(k) == name {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// SetStyleProperty writes one property into the inline style attribute,
// preserving unrelated declarations.
func (e *Element) SetStyleProperty(name, value string) {
	style, _ := e.Attr("style")

	var decls []string
	replaced := false
	for _, decl := range strings.Split(style, ";") {
		k, _, ok := strings.Cut(decl, ":")
		if !ok {
			if s := strings.TrimSpace(decl); s != "" {
				decls = append(decls, s)
			}
			continue
		}
		if strings.TrimSpace(k) == name {
			decls = append(decls, fmt.Sprintf("%s:%s", name, value))
			replaced = true
		} else {
			decls = append(decls, strings.TrimSpace(decl))
		}
	}
	if !replaced {
		decls = append(decls, fmt.Sprintf("%s:%s", name, value))
	}

	e.SetAttr("style", strings.Join(decls, ";"))
}

// AddEventListener attaches a delegated handler for the event type.
// The handler receives the original event target, which may be any
// descendant of this element.
func (e *Element) AddEventListener(eventType string, h Handler) {
	byType, ok := e.doc.listeners[e.n]
	if !ok {
		byType = make(map[string][]Handler)
		e.doc.listeners[e.n] = byType
	}
	byType[eventType] = append(byType[eventType], h)
}

// ListenerCount reports how many handlers this element has for the type.
func (e *Element) ListenerCount(eventType string) int {
	if byType, ok := e.doc.listeners[e.n]; ok {
		return len(byType[eventType])
	}
	return 0
}

// Click dispatches a click event from this element, bubbling to the root.
func (e *Element) Click() {
	e.doc.Dispatch("click", e)
}

// AppendHTML parses a fragment and appends its elements as children.
// Used to simulate dynamically added markup after hydration.
func (e *Element) AppendHTML(fragment string) error {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), e.n)
	if err != nil {
		return fmt.Errorf("parse fragment: %w", err)
	}
	for _, n := range nodes {
		e.n.AppendChild(n)
	}
	return nil
}

// Closest walks up from this element looking for one that has the given
// attribute. Returns the element and the attribute value, or nil.
func (e *Element) Closest(attrName string) (*Element, string) {
	for n := e.n; n != nil; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		for _, a := range n.Attr {
			if a.Key == attrName {
				return &Element{n: n, doc: e.doc}, a.Val
			}
		}
	}
	return nil, ""
}
