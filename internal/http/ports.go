package http

import (
	"context"

	"fintrack/internal/core"
	"fintrack/internal/filter"
	"fintrack/internal/services"
)

// TransactionService is the write side the API needs from the store.
type TransactionService interface {
	Create(ctx context.Context, in core.TransactionInput) (core.Transaction, error)
	Update(ctx context.Context, id string, patch core.TransactionPatch) (core.Transaction, error)
	Delete(ctx context.Context, id string) (bool, error)
	Get(ctx context.Context, id string) (core.Transaction, bool)
}

// PreferenceService reads and writes UI preferences.
type PreferenceService interface {
	Theme(ctx context.Context) (services.Theme, error)
	SetTheme(ctx context.Context, t services.Theme) error
	ActiveTab(ctx context.Context) (services.Tab, error)
	SetActiveTab(ctx context.Context, t services.Tab) error
}

// ViewService serves derived, read-only views of the current snapshot.
type ViewService interface {
	Transactions(c filter.Criteria) []core.Transaction
	Dashboard(p core.TimePeriod, breakdown core.BreakdownType) (core.DashboardSummary, error)
	Trend(p core.TimePeriod) (core.BalanceTrendData, error)
}
