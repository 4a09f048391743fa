package core

import "time"

// Snapshot is an immutable view of the transaction collection. Version
// increases on every change so derived views can be keyed on it.
type Snapshot struct {
	Version      uint64
	Transactions []Transaction
}

// Change operations carried by ChangeEvent.
const (
	OpCreated  = "created"
	OpUpdated  = "updated"
	OpDeleted  = "deleted"
	OpReloaded = "reloaded"
)

// ChangeEvent announces that an instance wrote the transaction collection.
type ChangeEvent struct {
	Source        string    `json:"source"`
	Version       uint64    `json:"version"`
	Operation     string    `json:"operation"`
	TransactionID string    `json:"transactionId,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}
