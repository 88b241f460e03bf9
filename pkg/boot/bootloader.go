package boot

import (
	"log/slog"

	"github.com/arbor-ui/arbor/pkg/dom"
	"github.com/arbor-ui/arbor/pkg/protocol"
)

// Install registers the bootloader's delegated click handler on the
// document, guarded so it never coexists with the full runtime's set.
// Returns true when the bootloader won the page.
//
// The handler services only the "toggle" action: enough to make the
// primary navigation usable immediately after page load, while the rest
// of the runtime is still on its way.
func Install(doc *dom.Document, guard *Guard, logger *slog.Logger) bool {
	if logger == nil {
		logger = slog.Default().With("component", "boot")
	}

	if !guard.TryActivate("bootloader") {
		logger.Info("bootloader skipped: handler set already active", "owner", guard.Owner())
		return false
	}

	doc.Body().AddEventListener("click", func(target *dom.Element) {
		dispatchToggle(doc, target, logger)
	})

	logger.Debug("bootloader handler installed")
	return true
}

// dispatchToggle is the bootloader's whole action vocabulary: find the
// descriptor, and if it is a well-formed toggle, flip the target.
// Anything else is left for the full runtime.
func dispatchToggle(doc *dom.Document, target *dom.Element, logger *slog.Logger) {
	carrier, raw := target.Closest(protocol.ActionAttr)
	if carrier == nil {
		return
	}

	desc, err := protocol.DecodeAction(raw)
	if err != nil {
		logger.Warn("bootloader ignoring unparsable descriptor", "err", err)
		return
	}
	if desc.Type != protocol.ActionToggle {
		return
	}

	el := doc.ElementByID(desc.TargetID)
	if el == nil {
		logger.Warn("bootloader toggle target missing", "targetId", desc.TargetID)
		return
	}

	open := el.StyleProperty("display") == "none"
	expanded := "false"
	label := desc.Params["openLabel"]
	if open {
		el.SetStyleProperty("display", "block")
		expanded = "true"
		label = desc.Params["closeLabel"]
	} else {
		el.SetStyleProperty("display", "none")
	}
	carrier.SetAttr("aria-expanded", expanded)
	if label != "" {
		carrier.SetAttr("aria-label", label)
	}
}
