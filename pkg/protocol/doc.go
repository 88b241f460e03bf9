// Package protocol defines the wire contracts between server-rendered
// markup and live client behavior.
//
// ActionDescriptor is the JSON payload embedded in the data-action
// attribute of rendered elements; the hydration engine and the bootloader
// both consume it. Frame is the envelope for live session traffic over
// the websocket channel: events in, patches out.
package protocol
