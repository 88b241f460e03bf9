package hydrate

import (
	"log/slog"

	"github.com/arbor-ui/arbor/pkg/dom"
	"github.com/arbor-ui/arbor/pkg/protocol"
)

// Guard gates handler registration so at most one handler set — the
// bootloader's or this engine's — is ever live on a page.
// Implemented by boot.Guard.
type Guard interface {
	TryActivate(owner string) bool
}

// Stats summarizes one hydration pass.
type Stats struct {
	// Scanned counts elements carrying a data-action attribute.
	Scanned int
	// Bound counts descriptors that parsed and resolved to a live target.
	Bound int
	// Failed counts binding errors: bad JSON, unknown type, missing
	// target. Those elements stay inert.
	Failed int
}

// Engine attaches live behavior to pre-rendered markup.
type Engine struct {
	registry *Registry
	logger   *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

// NewEngine creates a hydration engine over the given action registry.
func NewEngine(registry *Registry, opts ...EngineOption) *Engine {
	e := &Engine{
		registry: registry,
		logger:   slog.Default().With("component", "hydrate"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Hydrate walks the rendered document, validates every action binding,
// and installs one delegated click listener at the document body. No DOM
// node is replaced or recreated.
//
// The guard is consulted first: when another handler set (typically the
// bootloader) is already active, registration is skipped, logged, and the
// returned Stats are zero.
func (e *Engine) Hydrate(doc *dom.Document, guard Guard) (Stats, bool) {
	if guard != nil && !guard.TryActivate("runtime") {
		e.logger.Info("hydration skipped: another handler set is active")
		return Stats{}, false
	}

	stats := e.scan(doc)
	e.bind(doc)
	e.logger.Info("hydrated document",
		"scanned", stats.Scanned, "bound", stats.Bound, "failed", stats.Failed)
	return stats, true
}

// scan is the depth-first validation walk over the existing DOM.
// Failures are local: logged, counted, walk continues.
func (e *Engine) scan(doc *dom.Document) Stats {
	var stats Stats
	doc.Walk(func(el *dom.Element) bool {
		raw, ok := el.Attr(protocol.ActionAttr)
		if !ok {
			return true
		}
		stats.Scanned++

		desc, err := protocol.DecodeAction(raw)
		if err != nil {
			stats.Failed++
			e.logger.Warn("unparsable action descriptor, element left inert",
				"element", el.ID(), "err", err)
			return true
		}
		if _, known := e.registry.Lookup(desc.Type); !known {
			stats.Failed++
			e.logger.Warn("no handler for action type, element left inert",
				"element", el.ID(), "type", desc.Type)
			return true
		}
		if doc.ElementByID(desc.TargetID) == nil {
			stats.Failed++
			e.logger.Warn("action target missing, element left inert",
				"element", el.ID(), "targetId", desc.TargetID)
			return true
		}

		stats.Bound++
		return true
	})
	return stats
}

// bind installs the single delegated listener for the whole action
// surface. Dispatch re-reads the descriptor from the DOM, so markup added
// after hydration participates without a re-walk.
func (e *Engine) bind(doc *dom.Document) {
	doc.Body().AddEventListener("click", func(target *dom.Element) {
		e.DispatchFrom(doc, target)
	})
}

// DispatchFrom resolves the nearest data-action carrier at or above
// target and runs its handler. All failures degrade to "less
// interactive": they are logged, never propagated.
func (e *Engine) DispatchFrom(doc *dom.Document, target *dom.Element) {
	carrier, raw := target.Closest(protocol.ActionAttr)
	if carrier == nil {
		return
	}

	desc, err := protocol.DecodeAction(raw)
	if err != nil {
		e.logger.Warn("dropping interaction: unparsable descriptor", "err", err)
		return
	}

	handler, ok := e.registry.Lookup(desc.Type)
	if !ok {
		e.logger.Warn("dropping interaction: unknown action type", "type", desc.Type)
		return
	}

	if err := handler(&Action{Doc: doc, Trigger: carrier, Desc: desc}); err != nil {
		e.logger.Warn("action handler failed", "type", desc.Type, "err", err)
	}
}
