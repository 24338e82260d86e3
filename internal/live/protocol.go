// Package live streams generation snapshots over WebSocket so a dashboard
// can follow a run while it executes. The protocol is a small typed JSON
// envelope: a hello frame carrying the run configuration, one snapshot
// frame per generation, and a complete frame when the run finishes.
package live

import (
	"encoding/json"
	"fmt"

	"github.com/lox/evopoker/internal/evolve"
)

// MessageType discriminates envelope payloads.
type MessageType string

const (
	TypeHello    MessageType = "hello"
	TypeSnapshot MessageType = "snapshot"
	TypeComplete MessageType = "complete"
)

// Envelope is the wire frame for all live messages.
type Envelope struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Hello announces a run to a freshly connected consumer.
type Hello struct {
	Config evolve.Config `json:"config"`
}

// Complete signals the end of a run.
type Complete struct {
	Generations int `json:"generations"`
}

// Marshal wraps a payload in an envelope of the given type.
func Marshal(t MessageType, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", t, err)
	}
	return json.Marshal(Envelope{Type: t, Payload: raw})
}

// Unmarshal decodes an envelope frame.
func Unmarshal(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	switch env.Type {
	case TypeHello, TypeSnapshot, TypeComplete:
		return &env, nil
	default:
		return nil, fmt.Errorf("unknown message type %q", env.Type)
	}
}
