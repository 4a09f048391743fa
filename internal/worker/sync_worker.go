package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/export"
	"fintrack/internal/filter"
	"fintrack/internal/sheets"
)

// Store is the part of the transaction store the worker reads.
type Store interface {
	Snapshot() core.Snapshot
	Reload(ctx context.Context) error
	HandleExternalChange(ctx context.Context, ev core.ChangeEvent) error
}

// SyncWorker mirrors the transaction collection into a spreadsheet. Change
// messages trigger an immediate sync; a periodic resync covers lost messages.
type SyncWorker struct {
	store    Store
	sink     sheets.RowStore
	registry *core.CategoryRegistry

	mu          sync.Mutex
	lastVersion uint64
	synced      bool

	// Lifecycle management
	lifeMu  sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewSyncWorker(store Store, sink sheets.RowStore, registry *core.CategoryRegistry) *SyncWorker {
	if registry == nil {
		registry = core.DefaultRegistry()
	}
	return &SyncWorker{store: store, sink: sink, registry: registry}
}

// HandleChange reloads the store for a change made elsewhere and pushes the
// result to the sheet.
func (w *SyncWorker) HandleChange(ctx context.Context, ev core.ChangeEvent) error {
	slog.InfoContext(ctx, "Processing change message",
		"source", ev.Source,
		"operation", ev.Operation,
		"version", ev.Version)

	if err := w.store.HandleExternalChange(ctx, ev); err != nil {
		return fmt.Errorf("reload store: %w", err)
	}
	return w.Sync(ctx)
}

// Sync writes the current snapshot unless that version was already written
// or the sheet already holds the same rows.
func (w *SyncWorker) Sync(ctx context.Context) error {
	return w.sync(ctx, false)
}

// ForceSync writes the current snapshot unconditionally.
func (w *SyncWorker) ForceSync(ctx context.Context) error {
	return w.sync(ctx, true)
}

// Resync reloads from storage and syncs. Used at startup and on the timer.
func (w *SyncWorker) Resync(ctx context.Context) error {
	if err := w.store.Reload(ctx); err != nil {
		return fmt.Errorf("reload store: %w", err)
	}
	return w.Sync(ctx)
}

func (w *SyncWorker) sync(ctx context.Context, force bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap := w.store.Snapshot()
	if !force && w.synced && snap.Version == w.lastVersion {
		slog.DebugContext(ctx, "Sheet already up to date", "version", snap.Version)
		return nil
	}

	ordered := filter.Sort(snap.Transactions, filter.SortDate, filter.Asc)
	rows := export.Rows(ordered, w.registry, export.DefaultOptions())

	if !force && w.sheetMatches(ctx, rows) {
		w.lastVersion = snap.Version
		w.synced = true
		slog.DebugContext(ctx, "Sheet content unchanged", "version", snap.Version)
		return nil
	}

	ref, err := w.sink.ReplaceRows(ctx, rows)
	if err != nil {
		return fmt.Errorf("replace sheet rows: %w", err)
	}
	w.lastVersion = snap.Version
	w.synced = true

	slog.InfoContext(ctx, "Synced transactions to sheet",
		"version", snap.Version,
		"count", len(snap.Transactions),
		"sheets_ref", ref)
	return nil
}

// sheetMatches reports whether the sheet already holds rows. A failed read
// counts as a mismatch so the write is still attempted.
func (w *SyncWorker) sheetMatches(ctx context.Context, rows [][]string) bool {
	current, err := w.sink.ReadRows(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Failed to read sheet, rewriting", "error", err)
		return false
	}
	return slices.EqualFunc(current, rows, func(a, b []string) bool {
		return slices.Equal(trimTrailingEmpty(a), trimTrailingEmpty(b))
	})
}

// Sheets omits trailing empty cells when reading a row back.
func trimTrailingEmpty(row []string) []string {
	n := len(row)
	for n > 0 && strings.TrimSpace(row[n-1]) == "" {
		n--
	}
	return row[:n]
}

// Start runs the periodic resync in the background. Returns an error if
// already running.
func (w *SyncWorker) Start(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return errors.New("sync interval must be positive")
	}

	w.lifeMu.Lock()
	if w.running {
		w.lifeMu.Unlock()
		return errors.New("sync worker is already running")
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.lifeMu.Unlock()

	go w.runLoop(ctx, interval)

	slog.InfoContext(ctx, "Periodic sheet sync started", "interval", interval)
	return nil
}

// Stop signals the loop and waits for it to finish or ctx to expire.
func (w *SyncWorker) Stop(ctx context.Context) error {
	w.lifeMu.Lock()
	if !w.running {
		w.lifeMu.Unlock()
		return nil
	}
	w.running = false
	close(w.stopCh)
	done := w.doneCh
	w.lifeMu.Unlock()

	select {
	case <-done:
		slog.InfoContext(ctx, "Periodic sheet sync stopped")
		return nil
	case <-ctx.Done():
		slog.WarnContext(ctx, "Periodic sheet sync stop timed out")
		return ctx.Err()
	}
}

// IsRunning reports whether the periodic loop is active.
func (w *SyncWorker) IsRunning() bool {
	w.lifeMu.Lock()
	defer w.lifeMu.Unlock()
	return w.running
}

func (w *SyncWorker) runLoop(ctx context.Context, interval time.Duration) {
	defer close(w.doneCh)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.Resync(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic sync failed", "error", err)
			}
		}
	}
}
