package ws

import "encoding/json"

// Envelope is the standard wire format for both socket channels.
type Envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// InboundEnvelope defers payload decoding until the type is known.
type InboundEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Event type names shared by the chat and support channels.
const (
	EventMessage      = "message"
	EventRead         = "read"
	EventOnlineStatus = "onlineStatus"
	EventError        = "error"
)

func ErrorEnvelope(msg string) Envelope {
	return Envelope{Type: EventError, Payload: msg}
}
