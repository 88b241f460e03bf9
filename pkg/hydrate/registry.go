package hydrate

import (
	"fmt"
	"strings"
	"sync"

	"github.com/arbor-ui/arbor/pkg/dom"
	"github.com/arbor-ui/arbor/pkg/protocol"
)

// Action is one dispatched interaction: the document it happened in, the
// element carrying the descriptor, and the parsed descriptor itself.
type Action struct {
	Doc     *dom.Document
	Trigger *dom.Element
	Desc    *protocol.ActionDescriptor
}

// Target resolves the element the descriptor points at.
func (a *Action) Target() (*dom.Element, error) {
	target := a.Doc.ElementByID(a.Desc.TargetID)
	if target == nil {
		return nil, fmt.Errorf("action %q: no element with id %q", a.Desc.Type, a.Desc.TargetID)
	}
	return target, nil
}

// Handler services one action type. Errors are binding-local: the
// dispatcher logs them and moves on.
type Handler func(a *Action) error

// Registry maps action type names to handlers. The type name is an open
// enum: anything can register, but registration is validated up front so
// dispatch never hits an ill-formed entry.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register binds a handler to an action type.
// The type must be non-blank, the handler non-nil, and the type not
// already taken.
func (r *Registry) Register(actionType string, h Handler) error {
	if strings.TrimSpace(actionType) == "" {
		return fmt.Errorf("register action: blank type")
	}
	if h == nil {
		return fmt.Errorf("register action %q: nil handler", actionType)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.handlers[actionType]; taken {
		return fmt.Errorf("register action %q: already registered", actionType)
	}
	r.handlers[actionType] = h
	return nil
}

// Lookup returns the handler for an action type.
func (r *Registry) Lookup(actionType string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[actionType]
	return h, ok
}

// Types returns the registered action type names.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.handlers))
	for t := range r.handlers {
		types = append(types, t)
	}
	return types
}
