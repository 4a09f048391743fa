package storage

import (
	"context"
	"errors"
)

// Keys of the persisted namespaces.
const (
	KeyTransactions = "transactions"
	KeyTheme        = "theme"
	KeyActiveTab    = "activeTab"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("key not found")

// KVStore is the persistence port: one opaque value per key, each write
// replacing the previous value atomically.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
