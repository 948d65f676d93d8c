package publish

import (
	"encoding/json"
	"time"
)

// ServerMessage is the envelope pushed to display clients.
type ServerMessage struct {
	Type      string    `json:"type"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ClientMessage is a request from a display client, e.g. {"type":"get","request":"feed"}.
type ClientMessage struct {
	Type    string `json:"type"`
	Request string `json:"request"`
}

// TextPayload carries log, warn and error text.
type TextPayload struct {
	Message string `json:"message"`
}

func encode(msgType string, payload any, now time.Time) ([]byte, error) {
	return json.Marshal(ServerMessage{Type: msgType, Payload: payload, Timestamp: now.UTC()})
}
