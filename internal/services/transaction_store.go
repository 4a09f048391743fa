package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
	"fintrack/internal/storage"
)

// ChangePublisher announces writes to other instances sharing the same
// persisted state.
type ChangePublisher interface {
	PublishChange(ctx context.Context, ev core.ChangeEvent) error
}

// TransactionStore owns the canonical transaction list. It is the only
// writer of the persisted collection; every mutation rewrites the full list
// under storage.KeyTransactions.
type TransactionStore struct {
	kv         storage.KVStore
	registry   *core.CategoryRegistry
	clock      core.Clock
	publisher  ChangePublisher
	instanceID string
	newID      func() string

	mu      sync.RWMutex
	items   []core.Transaction
	version uint64
}

type StoreOption func(*TransactionStore)

func WithClock(c core.Clock) StoreOption {
	return func(s *TransactionStore) { s.clock = c }
}

func WithRegistry(r *core.CategoryRegistry) StoreOption {
	return func(s *TransactionStore) { s.registry = r }
}

// WithPublisher enables change notifications. A nil publisher disables them.
func WithPublisher(p ChangePublisher) StoreOption {
	return func(s *TransactionStore) { s.publisher = p }
}

func WithInstanceID(id string) StoreOption {
	return func(s *TransactionStore) { s.instanceID = id }
}

func WithIDGenerator(gen func() string) StoreOption {
	return func(s *TransactionStore) { s.newID = gen }
}

// NewTransactionStore loads the persisted collection from kv.
func NewTransactionStore(ctx context.Context, kv storage.KVStore, opts ...StoreOption) (*TransactionStore, error) {
	s := &TransactionStore{
		kv:         kv,
		registry:   core.DefaultRegistry(),
		instanceID: uuid.NewString(),
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	items, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.items = items
	s.version = 1

	slog.InfoContext(ctx, "Transaction store loaded",
		"count", len(items),
		"instance_id", s.instanceID)
	return s, nil
}

// InstanceID identifies this store in change events.
func (s *TransactionStore) InstanceID() string {
	return s.instanceID
}

// Registry returns the category registry used for validation.
func (s *TransactionStore) Registry() *core.CategoryRegistry {
	return s.registry
}

// Create validates the input, assigns id and timestamps, and persists.
func (s *TransactionStore) Create(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	if err := core.NewValidationError(in.Validate(s.registry, s.clock.Today())); err != nil {
		return core.Transaction{}, err
	}

	date, _ := core.ParseDate(in.Date)
	now := s.clock.Now().UTC()
	tx := core.Transaction{
		ID:          s.newID(),
		Amount:      core.MoneyFromDecimal(in.Amount),
		Date:        date,
		Type:        in.Type,
		CategoryID:  strings.TrimSpace(in.CategoryID),
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.mu.Lock()
	next := append(slices.Clone(s.items), tx)
	version, err := s.commitLocked(ctx, next)
	s.mu.Unlock()
	if err != nil {
		return core.Transaction{}, err
	}

	logChange(ctx, applog.OpCreate, tx)
	s.publish(ctx, version, core.OpCreated, tx.ID)
	return tx, nil
}

// Update merges the present fields of patch onto the record. Only those
// fields are validated; the merged record is not re-checked as a whole.
func (s *TransactionStore) Update(ctx context.Context, id string, patch core.TransactionPatch) (core.Transaction, error) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return core.Transaction{}, &core.NotFoundError{Resource: "transaction", ID: id}
	}
	if err := core.NewValidationError(patch.Validate(s.registry, s.clock.Today())); err != nil {
		s.mu.Unlock()
		return core.Transaction{}, err
	}

	existing := s.items[idx]
	updated := patch.Apply(existing)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = s.clock.Now().UTC()

	next := slices.Clone(s.items)
	next[idx] = updated
	version, err := s.commitLocked(ctx, next)
	s.mu.Unlock()
	if err != nil {
		return core.Transaction{}, err
	}

	logChange(ctx, applog.OpUpdate, updated)
	s.publish(ctx, version, core.OpUpdated, id)
	return updated, nil
}

// Delete removes the record. A missing id returns false without error.
func (s *TransactionStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false, nil
	}
	removed := s.items[idx]
	next := slices.Delete(slices.Clone(s.items), idx, idx+1)
	version, err := s.commitLocked(ctx, next)
	s.mu.Unlock()
	if err != nil {
		return false, err
	}

	logChange(ctx, applog.OpDelete, removed)
	s.publish(ctx, version, core.OpDeleted, id)
	return true, nil
}

func logChange(ctx context.Context, op string, tx core.Transaction) {
	applog.NewStructuredLogger(applog.FromContext(ctx)).LogTransactionChange(ctx, op,
		applog.NewFields().WithTransaction(tx.ID, string(tx.Type), tx.Amount.Cents, tx.CategoryID, tx.Date.String()))
}

// All returns a copy of every transaction in insertion order.
func (s *TransactionStore) All(_ context.Context) []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

// Get returns the transaction with id, if present.
func (s *TransactionStore) Get(_ context.Context, id string) (core.Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexLocked(id); idx >= 0 {
		return s.items[idx], true
	}
	return core.Transaction{}, false
}

// Snapshot returns the current collection with its version.
func (s *TransactionStore) Snapshot() core.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.Snapshot{Version: s.version, Transactions: slices.Clone(s.items)}
}

// Reload replaces the in-memory collection with the persisted one. The read
// happens under the write lock so a local write cannot commit between the
// read and the swap.
func (s *TransactionStore) Reload(ctx context.Context) error {
	s.mu.Lock()
	items, err := s.load(ctx)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.items = items
	s.version++
	s.mu.Unlock()

	slog.InfoContext(ctx, "Transaction store reloaded", "count", len(items))
	return nil
}

// HandleExternalChange reloads when another instance wrote the collection.
// Concurrent writers are not merged; the last write wins.
func (s *TransactionStore) HandleExternalChange(ctx context.Context, ev core.ChangeEvent) error {
	if ev.Source == s.instanceID {
		return nil
	}
	slog.InfoContext(ctx, "External change received",
		"source", ev.Source,
		"operation", ev.Operation,
		"transaction_id", ev.TransactionID)
	return s.Reload(ctx)
}

// Close releases the underlying storage.
func (s *TransactionStore) Close() error {
	if s.kv == nil {
		return nil
	}
	if err := s.kv.Close(); err != nil {
		return fmt.Errorf("close transaction store: %w", err)
	}
	return nil
}

func (s *TransactionStore) indexLocked(id string) int {
	return slices.IndexFunc(s.items, func(t core.Transaction) bool { return t.ID == id })
}

// commitLocked persists next and swaps it in. On failure the in-memory state
// is left untouched.
func (s *TransactionStore) commitLocked(ctx context.Context, next []core.Transaction) (uint64, error) {
	if err := s.persist(ctx, next); err != nil {
		slog.ErrorContext(ctx, "Failed to persist transactions", "error", err)
		return 0, err
	}
	s.items = next
	s.version++
	return s.version, nil
}

func (s *TransactionStore) load(ctx context.Context) ([]core.Transaction, error) {
	raw, err := s.kv.Get(ctx, storage.KeyTransactions)
	if errors.Is(err, storage.ErrNotFound) {
		return []core.Transaction{}, nil
	}
	if err != nil {
		return nil, &core.StorageError{Op: "read", Key: storage.KeyTransactions, Err: err}
	}

	var items []core.Transaction
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, &core.StorageError{Op: "decode", Key: storage.KeyTransactions, Err: err}
	}

	seen := make(map[string]struct{}, len(items))
	out := make([]core.Transaction, 0, len(items))
	for _, t := range items {
		if _, dup := seen[t.ID]; dup {
			slog.WarnContext(ctx, "Dropping duplicate transaction id from storage", "id", t.ID)
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out, nil
}

func (s *TransactionStore) persist(ctx context.Context, items []core.Transaction) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return &core.StorageError{Op: "encode", Key: storage.KeyTransactions, Err: err}
	}
	if err := s.kv.Set(ctx, storage.KeyTransactions, raw); err != nil {
		return &core.StorageError{Op: "write", Key: storage.KeyTransactions, Err: err}
	}
	return nil
}

func (s *TransactionStore) publish(ctx context.Context, version uint64, op, id string) {
	if s.publisher == nil {
		return
	}
	ev := core.ChangeEvent{
		Source:        s.instanceID,
		Version:       version,
		Operation:     op,
		TransactionID: id,
		Timestamp:     s.clock.Now().UTC(),
	}
	if err := s.publisher.PublishChange(ctx, ev); err != nil {
		// The write already succeeded locally.
		slog.ErrorContext(ctx, "Failed to publish change event",
			"operation", op, "id", id, "error", err)
	}
}
