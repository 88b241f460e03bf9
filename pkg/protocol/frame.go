package protocol

import (
	"encoding/json"
	"fmt"
)

// FrameType discriminates live-update frames on the session channel.
type FrameType string

const (
	// FrameEvent carries a client interaction to the server runtime.
	FrameEvent FrameType = "event"

	// FramePatch carries rendered markup updates to the client.
	FramePatch FrameType = "patch"

	// FramePing keeps the session alive.
	FramePing FrameType = "ping"

	// FrameError reports a non-fatal server-side failure.
	FrameError FrameType = "error"
)

// Frame is the envelope for all session traffic.
type Frame struct {
	Type FrameType       `json:"type"`
	Seq  uint64          `json:"seq,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Event is a client interaction delivered inside a FrameEvent.
type Event struct {
	Action ActionDescriptor `json:"action"`
	// SourceID is the id of the element the interaction originated on.
	SourceID string `json:"sourceId,omitempty"`
}

// Patch replaces the rendered markup of one element.
type Patch struct {
	TargetID string `json:"targetId"`
	HTML     string `json:"html,omitempty"`
	// Attrs updates attributes without touching children.
	Attrs map[string]string `json:"attrs,omitempty"`
}

// ErrorInfo is the payload of a FrameError.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// EncodeFrame wraps a payload in an envelope.
func EncodeFrame(t FrameType, seq uint64, payload any) ([]byte, error) {
	var data json.RawMessage
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s frame: %w", t, err)
		}
		data = raw
	}
	return json.Marshal(&Frame{Type: t, Seq: seq, Data: data})
}

// DecodeFrame parses an envelope.
func DecodeFrame(raw []byte) (*Frame, error) {
	var f Frame
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	if f.Type == "" {
		return nil, fmt.Errorf("decode frame: missing type")
	}
	return &f, nil
}

// DecodeEvent parses a FrameEvent payload.
func (f *Frame) DecodeEvent() (*Event, error) {
	if f.Type != FrameEvent {
		return nil, fmt.Errorf("frame type %s is not an event", f.Type)
	}
	var e Event
	if err := json.Unmarshal(f.Data, &e); err != nil {
		return nil, fmt.Errorf("decode event frame: %w", err)
	}
	return &e, nil
}

// DecodePatches parses a FramePatch payload.
func (f *Frame) DecodePatches() ([]Patch, error) {
	if f.Type != FramePatch {
		return nil, fmt.Errorf("frame type %s is not a patch", f.Type)
	}
	var p []Patch
	if err := json.Unmarshal(f.Data, &p); err != nil {
		return nil, fmt.Errorf("decode patch frame: %w", err)
	}
	return p, nil
}
