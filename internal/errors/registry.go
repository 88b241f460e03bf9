package errors

import "fmt"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Composition Errors (A001-A099)
	// ============================================

	"A001": {
		Category: CategoryComposition,
		Message:  "cell read outside composition context",
		Detail:   "Cells establish subscriptions only when read inside a composing node's body. Reads elsewhere return the value without tracking.",
		DocURL:   "https://arbor-ui.dev/docs/errors/A001",
	},
	"A002": {
		Category: CategoryComposition,
		Message:  "write to cell of disposed node",
		Detail:   "The node that owns this cell has been torn down. The write was dropped. This usually means an async callback outlived its node.",
		DocURL:   "https://arbor-ui.dev/docs/errors/A002",
	},
	"A003": {
		Category: CategoryComposition,
		Message:  "composition body panicked",
		Detail:   "A node body panicked during a pass. The node keeps its previous output and its fresh children were discarded.",
		DocURL:   "https://arbor-ui.dev/docs/errors/A003",
	},
	"A004": {
		Category: CategoryComposition,
		Message:  "effect cleanup panicked",
		Detail:   "A cleanup function panicked during teardown. Remaining cleanups still ran.",
		DocURL:   "https://arbor-ui.dev/docs/errors/A004",
	},

	// ============================================
	// Hydration Errors (A101-A199)
	// ============================================

	"A101": {
		Category: CategoryHydration,
		Message:  "malformed action descriptor",
		Detail:   "The data-action attribute did not decode to a valid descriptor. The element was left inert.",
		DocURL:   "https://arbor-ui.dev/docs/errors/A101",
	},
	"A102": {
		Category: CategoryHydration,
		Message:  "unknown action type",
		Detail:   "No handler is registered for this action type. Register it before hydrating.",
		DocURL:   "https://arbor-ui.dev/docs/errors/A102",
	},
	"A103": {
		Category: CategoryHydration,
		Message:  "action target not found",
		Detail:   "The descriptor's targetId does not match any element in the document.",
		DocURL:   "https://arbor-ui.dev/docs/errors/A103",
	},
	"A104": {
		Category: CategoryHydration,
		Message:  "hydration skipped, runtime already active",
		Detail:   "Another runtime instance won the activation guard. This pass bound nothing.",
		DocURL:   "https://arbor-ui.dev/docs/errors/A104",
	},

	// ============================================
	// Protocol Errors (A201-A299)
	// ============================================

	"A201": {
		Category: CategoryProtocol,
		Message:  "malformed frame",
		Detail:   "The frame payload did not decode. The connection stays open and the frame is dropped.",
		DocURL:   "https://arbor-ui.dev/docs/errors/A201",
	},
	"A202": {
		Category: CategoryProtocol,
		Message:  "session closed",
		Detail:   "The live session was closed before the frame could be delivered.",
		DocURL:   "https://arbor-ui.dev/docs/errors/A202",
	},
	"A203": {
		Category: CategoryProtocol,
		Message:  "action handler failed",
		Detail:   "A registered action handler returned an error. The session stays open.",
		DocURL:   "https://arbor-ui.dev/docs/errors/A203",
	},

	// ============================================
	// Config Errors (A301-A399)
	// ============================================

	"A301": {
		Category: CategoryConfig,
		Message:  "config file not found",
		DocURL:   "https://arbor-ui.dev/docs/errors/A301",
	},
	"A302": {
		Category: CategoryConfig,
		Message:  "invalid config value",
		DocURL:   "https://arbor-ui.dev/docs/errors/A302",
	},

	// ============================================
	// CLI Errors (A401-A499)
	// ============================================

	"A401": {
		Category: CategoryCLI,
		Message:  "export directory not writable",
		DocURL:   "https://arbor-ui.dev/docs/errors/A401",
	},
}

// New creates an error from a registered code. Unknown codes produce a
// generic CLI-category error so callers never get nil.
func New(code string) *ArborError {
	tmpl, ok := registry[code]
	if !ok {
		return &ArborError{
			Code:     code,
			Category: CategoryCLI,
			Message:  fmt.Sprintf("unknown error code %q", code),
		}
	}
	return &ArborError{
		Code:     code,
		Category: tmpl.Category,
		Message:  tmpl.Message,
		Detail:   tmpl.Detail,
		DocURL:   tmpl.DocURL,
	}
}

// Lookup returns the template for a code, if registered.
func Lookup(code string) (ErrorTemplate, bool) {
	tmpl, ok := registry[code]
	return tmpl, ok
}

// Codes returns all registered error codes.
func Codes() []string {
	out := make([]string, 0, len(registry))
	for code := range registry {
		out = append(out, code)
	}
	return out
}
