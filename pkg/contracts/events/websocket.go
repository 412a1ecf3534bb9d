// Package events contains the event contract definitions for WebSocket
// communication between the server and browser clients.
package events

import (
	"time"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// Upload lifecycle: payload is the upload registry entry
	MessageTypeUploadStatus MessageType = "upload:status"

	// Dataset changed: clients should re-fetch aggregates
	MessageTypeDatasetRefresh MessageType = "dataset:refresh"

	// Connection messages
	MessageTypeConnection MessageType = "connection"
	MessageTypeError      MessageType = "error"
)

// WebSocketMessage represents a complete WebSocket message
type WebSocketMessage struct {
	Type      MessageType `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	TraceID   string      `json:"trace_id,omitempty"`
}

// NewMessage builds a message of the given type with the current timestamp
func NewMessage(messageType MessageType, data interface{}) WebSocketMessage {
	return WebSocketMessage{
		Type:      messageType,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}
