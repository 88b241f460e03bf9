package hydrate

// Toggle flips the presentation state of the target element between
// closed (display:none) and open (display:block). The server always
// renders the closed representation, so the first invocation opens.
//
// The transition is idempotent under repeated invocation: an even number
// of invocations restores the original computed display value exactly.
// aria-expanded on the trigger and aria-hidden on the target mirror the
// state on every transition.
func Toggle(a *Action) error {
	target, err := a.Target()
	if err != nil {
		return err
	}

	open := target.StyleProperty("display") == "none"
	if open {
		target.SetStyleProperty("display", "block")
	} else {
		target.SetStyleProperty("display", "none")
	}

	expanded := "false"
	label := a.Desc.Params["openLabel"]
	if open {
		expanded = "true"
		label = a.Desc.Params["closeLabel"]
	}
	if a.Trigger != nil {
		a.Trigger.SetAttr("aria-expanded", expanded)
		if label != "" {
			a.Trigger.SetAttr("aria-label", label)
		}
	}

	return nil
}

// RegisterStandard installs the built-in action handlers.
func RegisterStandard(r *Registry) error {
	return r.Register("toggle", Toggle)
}
