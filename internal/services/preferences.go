package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

type (
	Theme string
	Tab   string
)

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"

	TabDashboard    Tab = "dashboard"
	TabTransactions Tab = "transactions"
	TabFilters      Tab = "filters"
)

func (t Theme) Valid() bool { return t == ThemeLight || t == ThemeDark }

func (t Tab) Valid() bool {
	switch t {
	case TabDashboard, TabTransactions, TabFilters:
		return true
	}
	return false
}

// Preferences persists UI preferences, each under its own key.
type Preferences struct {
	kv storage.KVStore
}

func NewPreferences(kv storage.KVStore) *Preferences {
	return &Preferences{kv: kv}
}

// Theme returns the stored theme, or ThemeLight when unset or unrecognized.
func (p *Preferences) Theme(ctx context.Context) (Theme, error) {
	v, err := p.read(ctx, storage.KeyTheme)
	if err != nil {
		return ThemeLight, err
	}
	if t := Theme(v); t.Valid() {
		return t, nil
	}
	return ThemeLight, nil
}

func (p *Preferences) SetTheme(ctx context.Context, t Theme) error {
	if !t.Valid() {
		return core.NewValidationError([]core.FieldError{{Field: "theme", Message: "theme must be light or dark"}})
	}
	return p.write(ctx, storage.KeyTheme, string(t))
}

// ActiveTab returns the stored tab, or TabDashboard when unset or unrecognized.
func (p *Preferences) ActiveTab(ctx context.Context) (Tab, error) {
	v, err := p.read(ctx, storage.KeyActiveTab)
	if err != nil {
		return TabDashboard, err
	}
	if t := Tab(v); t.Valid() {
		return t, nil
	}
	return TabDashboard, nil
}

func (p *Preferences) SetActiveTab(ctx context.Context, t Tab) error {
	if !t.Valid() {
		return core.NewValidationError([]core.FieldError{{Field: "tab", Message: "tab must be dashboard, transactions or filters"}})
	}
	return p.write(ctx, storage.KeyActiveTab, string(t))
}

func (p *Preferences) read(ctx context.Context, key string) (string, error) {
	raw, err := p.kv.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", &core.StorageError{Op: "read", Key: key, Err: err}
	}
	return strings.TrimSpace(string(raw)), nil
}

func (p *Preferences) write(ctx context.Context, key, value string) error {
	if err := p.kv.Set(ctx, key, []byte(value)); err != nil {
		return &core.StorageError{Op: "write", Key: key, Err: fmt.Errorf("set preference: %w", err)}
	}
	slog.InfoContext(ctx, "Preference saved", "key", key, "value", value)
	return nil
}
