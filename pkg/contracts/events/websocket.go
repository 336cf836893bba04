// Package events contains the event contract definitions for WebSocket
// communication between the dashboard backend and the browser.
package events

import (
	"time"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// Core feed message, one per activity event
	MessageTypeActivity MessageType = "activity:event"

	// System messages
	MessageTypeSystemStatus  MessageType = "system:status"
	MessageTypeSystemMetrics MessageType = "system:metrics"

	// Connection messages
	MessageTypeConnect    MessageType = "connect"
	MessageTypeDisconnect MessageType = "disconnect"
	MessageTypeError      MessageType = "error"
)

// BaseMessage represents the base structure for all WebSocket messages
type BaseMessage struct {
	ID        string      `json:"id,omitempty"`
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	TraceID   string      `json:"trace_id,omitempty"`
}

// WebSocketMessage represents a complete WebSocket message
type WebSocketMessage struct {
	BaseMessage
	Data interface{} `json:"data,omitempty"`
}

// ActivityPayload is the data carried by an activity:event message. Text is
// the pre-rendered feed line; Relative is the coarse age label shown next
// to it ("5 minutes ago").
type ActivityPayload struct {
	EventID    string    `json:"event_id"`
	Kind       string    `json:"kind"`
	Text       string    `json:"text"`
	Relative   string    `json:"relative"`
	OccurredAt time.Time `json:"occurred_at"`
}

// SystemStatusPayload reports backend readiness to connected clients.
type SystemStatusPayload struct {
	Status    string    `json:"status"` // healthy|degraded|down
	Platform  string    `json:"platform"`
	CheckedAt time.Time `json:"checked_at"`
}

// ErrorPayload carries a client-facing error over the socket.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Fatal   bool   `json:"fatal"`
}
