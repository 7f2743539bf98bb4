package session

import (
	"encoding/json"

	"github.com/inamate/composer/internal/document"
	"github.com/inamate/composer/internal/geom"
	"github.com/inamate/composer/internal/interact"
	"github.com/inamate/composer/internal/ops"
)

type Message struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload"`
}

const (
	TypeError = "error"

	// Connection
	TypeWelcome = "welcome"

	// Document sync
	TypeDocSync = "doc.sync"
	TypeGuides  = "guides"

	// Pointer gestures
	TypePointerDown = "pointer.down"
	TypePointerMove = "pointer.move"
	TypePointerUp   = "pointer.up"

	// Operation message types
	TypeOpSubmit = "op.submit"
	TypeOpAck    = "op.ack"
	TypeOpNack   = "op.nack"
)

// OperationSubmitPayload is the payload for op.submit messages
type OperationSubmitPayload struct {
	Operation ops.Operation `json:"operation"`
}

// OperationAckPayload is the payload for op.ack messages
type OperationAckPayload struct {
	OperationID  string `json:"operationId"`
	ElementID    string `json:"elementId,omitempty"`
	HistoryIndex int    `json:"historyIndex"`
}

// OperationNackPayload is the payload for op.nack messages
type OperationNackPayload struct {
	OperationID string `json:"operationId"`
	Reason      string `json:"reason"`
}

type WelcomePayload struct {
	SessionID string `json:"sessionId"`
	ClientID  string `json:"clientId"`
}

// DocSyncPayload carries the full document after every change.
type DocSyncPayload struct {
	Document     document.Document `json:"document"`
	HistoryIndex int               `json:"historyIndex"`
	HistoryLen   int               `json:"historyLength"`
	CanUndo      bool              `json:"canUndo"`
	CanRedo      bool              `json:"canRedo"`
	LastAction   string            `json:"lastAction"`
	Gesture      string            `json:"gesture"`
}

type GuidesPayload struct {
	Guides []geom.Guide `json:"guides"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// PointerPayload is the payload of pointer.* messages.
type PointerPayload = interact.PointerEvent

func newMessage(msgType, sessionID string, payload any) *Message {
	data, err := json.Marshal(payload)
	if err != nil {
		data = []byte("null")
	}
	return &Message{Type: msgType, SessionID: sessionID, Payload: data}
}
