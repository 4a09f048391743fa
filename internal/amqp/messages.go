package amqp

import (
	"encoding/json"
	"time"

	"fintrack/internal/core"
)

// ChangeMessage announces a write to the shared transaction collection.
// Receivers reload the whole collection; the message carries no payload.
type ChangeMessage struct {
	Source        string    `json:"source"`
	Version       uint64    `json:"version"`
	Operation     string    `json:"operation"`
	TransactionID string    `json:"transactionId,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewChangeMessage builds a message from a store event, stamping it when the
// event carries no timestamp.
func NewChangeMessage(ev core.ChangeEvent) *ChangeMessage {
	ts := ev.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return &ChangeMessage{
		Source:        ev.Source,
		Version:       ev.Version,
		Operation:     ev.Operation,
		TransactionID: ev.TransactionID,
		Timestamp:     ts,
	}
}

// Event converts the message back to a store event.
func (m *ChangeMessage) Event() core.ChangeEvent {
	return core.ChangeEvent{
		Source:        m.Source,
		Version:       m.Version,
		Operation:     m.Operation,
		TransactionID: m.TransactionID,
		Timestamp:     m.Timestamp,
	}
}

// ToJSON converts the message to JSON bytes
func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ChangeMessageFromJSON creates a message from JSON bytes
func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
