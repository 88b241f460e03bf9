package render

import (
	"bytes"
	"fmt"
	"io"
	"sort"
)

// WriteHTML serializes an element tree.
func WriteHTML(w io.Writer, el *El) error {
	if el == nil {
		return nil
	}

	switch el.Kind {
	case KindText:
		_, err := io.WriteString(w, EscapeHTML(el.Text))
		return err
	case KindRaw:
		_, err := io.WriteString(w, el.Text)
		return err
	case KindElement:
		return writeElement(w, el)
	default:
		return fmt.Errorf("render: unknown node kind %d", el.Kind)
	}
}

// ToHTML serializes an element tree to a string.
func ToHTML(el *El) (string, error) {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, el); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func writeElement(w io.Writer, el *El) error {
	if _, err := fmt.Fprintf(w, "<%s", el.Tag); err != nil {
		return err
	}

	// Deterministic attribute order keeps rendered output diffable.
	keys := make([]string, 0, len(el.Attrs))
	for k := range el.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, err := fmt.Fprintf(w, ` %s="%s"`, k, EscapeAttr(el.Attrs[k])); err != nil {
			return err
		}
	}

	if IsVoidElement(el.Tag) {
		_, err := io.WriteString(w, "/>")
		return err
	}

	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}

	for _, child := range el.Children {
		if err := WriteHTML(w, child); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "</%s>", el.Tag)
	return err
}
