package render

import "sync"

// HeadSink collects document-head markup emitted from anywhere in the
// tree (titles, meta tags, inline scripts) without owning document
// structure. AddHeadElement is idempotent: the same markup is emitted
// once no matter how many nodes request it.
type HeadSink struct {
	mu       sync.Mutex
	seen     map[string]bool
	elements []string
}

// NewHeadSink creates an empty sink.
func NewHeadSink() *HeadSink {
	return &HeadSink{seen: make(map[string]bool)}
}

// AddHeadElement records one piece of head markup, once.
func (h *HeadSink) AddHeadElement(markup string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.seen[markup] {
		return
	}
	h.seen[markup] = true
	h.elements = append(h.elements, markup)
}

// Elements returns the collected markup in insertion order.
func (h *HeadSink) Elements() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.elements))
	copy(out, h.elements)
	return out
}
