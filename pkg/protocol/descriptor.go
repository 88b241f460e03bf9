package protocol

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ActionAttr is the HTML attribute carrying an encoded action
// descriptor. Elements bearing it are interactive after hydration.
const ActionAttr = "data-action"

// ActionToggle shows or hides the target element.
const ActionToggle = "toggle"

// ActionDescriptor declares an element's behavior. It is serialized
// into the data-action attribute and into event frames.
type ActionDescriptor struct {
	// Type selects the registered handler.
	Type string `json:"type"`

	// TargetID is the id of the element the action operates on.
	TargetID string `json:"targetId"`

	// Params carries handler-specific options.
	Params map[string]string `json:"params,omitempty"`
}

// EncodeAction serializes a descriptor to its attribute form.
func EncodeAction(d *ActionDescriptor) (string, error) {
	if err := d.Validate(); err != nil {
		return "", err
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("encode action: %w", err)
	}
	return string(raw), nil
}

// DecodeAction parses the attribute form of a descriptor. Malformed
// JSON and blank required fields are errors.
func DecodeAction(raw string) (*ActionDescriptor, error) {
	var d ActionDescriptor
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil, fmt.Errorf("decode action: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Validate checks that required fields are present and non-blank.
func (d *ActionDescriptor) Validate() error {
	if strings.TrimSpace(d.Type) == "" {
		return fmt.Errorf("action descriptor: missing type")
	}
	if strings.TrimSpace(d.TargetID) == "" {
		return fmt.Errorf("action descriptor: missing targetId")
	}
	return nil
}

// Equal reports whether two descriptors are identical, params
// included.
func (d *ActionDescriptor) Equal(other *ActionDescriptor) bool {
	if d == nil || other == nil {
		return d == other
	}
	if d.Type != other.Type || d.TargetID != other.TargetID {
		return false
	}
	if len(d.Params) != len(other.Params) {
		return false
	}
	for k, v := range d.Params {
		if other.Params[k] != v {
			return false
		}
	}
	return true
}
