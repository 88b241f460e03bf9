package render

import "fmt"

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement Kind = iota // <div>, <button>, etc.
	KindText                // plain text node
	KindRaw                 // raw HTML, caller-trusted
)

// El is one node of the rendered artifact tree.
type El struct {
	Kind     Kind
	Tag      string
	Attrs    map[string]string
	Children []*El
	Text     string // for KindText and KindRaw
}

// Attr is a single attribute.
type Attr struct {
	Key   string
	Value string
}

// voidElements cannot have children.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true,
	"embed": true, "hr": true, "img": true, "input": true,
	"link": true, "meta": true, "param": true, "source": true,
	"track": true, "wbr": true,
}

// IsVoidElement reports whether the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// Element creates an element node. Arguments can be Attr, []Attr, *El,
// []*El, string (text child), or nil (ignored, for conditionals).
func Element(tag string, args ...any) *El {
	el := &El{Kind: KindElement, Tag: tag, Attrs: make(map[string]string)}

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue
		case Attr:
			if v.Key != "" {
				el.Attrs[v.Key] = v.Value
			}
		case []Attr:
			for _, a := range v {
				if a.Key != "" {
					el.Attrs[a.Key] = a.Value
				}
			}
		case *El:
			if v != nil {
				el.Children = append(el.Children, v)
			}
		case []*El:
			for _, child := range v {
				if child != nil {
					el.Children = append(el.Children, child)
				}
			}
		case string:
			el.Children = append(el.Children, Text(v))
		default:
			panic(fmt.Sprintf("render: unsupported element argument %T", arg))
		}
	}

	return el
}

// Text creates a text node; its content is escaped on write.
func Text(content string) *El {
	return &El{Kind: KindText, Text: content}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *El {
	return Text(fmt.Sprintf(format, args...))
}

// Raw creates a raw HTML node. The content is written verbatim; the
// caller owns its safety.
func Raw(html string) *El {
	return &El{Kind: KindRaw, Text: html}
}

// A creates an attribute.
func A(key, value string) Attr {
	return Attr{Key: key, Value: value}
}

// If returns el when the condition holds, nil otherwise.
func If(condition bool, el *El) *El {
	if condition {
		return el
	}
	return nil
}

// Map builds a child list from a slice.
func Map[T any](items []T, fn func(item T) *El) []*El {
	out := make([]*El, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}
