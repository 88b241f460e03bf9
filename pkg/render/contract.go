package render

import (
	"log/slog"

	"github.com/arbor-ui/arbor/pkg/protocol"
)

// ToggleTrigger renders an interactive trigger element wired to a toggle
// action, carrying the full accessibility contract: role, tabindex,
// aria-label for the current action, aria-controls referencing the
// controlled element, and aria-expanded reflecting the initial (closed)
// state.
func ToggleTrigger(targetID, openLabel, closeLabel string, children ...any) *El {
	desc := &protocol.ActionDescriptor{
		Type:     protocol.ActionToggle,
		TargetID: targetID,
		Params: map[string]string{
			"openLabel":  openLabel,
			"closeLabel": closeLabel,
		},
	}
	raw, err := protocol.EncodeAction(desc)
	if err != nil {
		// Only reachable with a blank target id; render an inert button
		// rather than corrupt the page.
		slog.Error("could not encode toggle action", "targetId", targetID, "err", err)
		return Element("button", children...)
	}

	args := append([]any{
		A(protocol.ActionAttr, raw),
		A("role", "button"),
		A("tabindex", "0"),
		A("aria-label", openLabel),
		A("aria-controls", targetID),
		A("aria-expanded", "false"),
	}, children...)
	return Element("button", args...)
}

// ToggleTarget renders the controlled element in its closed state.
// The server always renders the collapsed representation; the first
// toggle opens it.
func ToggleTarget(id string, children ...any) *El {
	args := append([]any{
		A("id", id),
		A("style", "display:none"),
	}, children...)
	return Element("nav", args...)
}
