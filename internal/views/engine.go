// Package views memoizes the derived read models (filtered lists, dashboard
// summaries and trend series) per snapshot version of the transaction store.
package views

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/sync/singleflight"

	"fintrack/internal/aggregation"
	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/filter"
	applog "fintrack/internal/log"
)

// Source yields the current transaction snapshot.
type Source interface {
	Snapshot() core.Snapshot
}

// Config sizes the per-view caches.
type Config struct {
	Size int
	TTL  time.Duration
}

// DefaultConfig returns the cache sizing used when none is configured.
func DefaultConfig() Config {
	return Config{Size: 128, TTL: 10 * time.Minute}
}

// Engine serves derived views. A result is recomputed only when the snapshot
// version or the inputs change; concurrent identical requests share one
// computation.
type Engine struct {
	source Source
	calc   *aggregation.Calculator

	lists      *cache.LRUCache[[]core.Transaction]
	dashboards *cache.LRUCache[core.DashboardSummary]
	trends     *cache.LRUCache[core.BalanceTrendData]

	group singleflight.Group
}

func NewEngine(source Source, calc *aggregation.Calculator, cfg Config) *Engine {
	if cfg.Size <= 0 {
		cfg.Size = DefaultConfig().Size
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultConfig().TTL
	}
	return &Engine{
		source:     source,
		calc:       calc,
		lists:      cache.NewLRUCache[[]core.Transaction](cfg.Size, cfg.TTL),
		dashboards: cache.NewLRUCache[core.DashboardSummary](cfg.Size, cfg.TTL),
		trends:     cache.NewLRUCache[core.BalanceTrendData](cfg.Size, cfg.TTL),
	}
}

// Cleaners exposes the caches for periodic expiry sweeps.
func (e *Engine) Cleaners() []cache.Cleaner {
	return []cache.Cleaner{e.lists, e.dashboards, e.trends}
}

// Stats reports cache activity per view.
func (e *Engine) Stats() map[string]cache.Stats {
	return map[string]cache.Stats{
		"transactions": e.lists.Stats(),
		"dashboard":    e.dashboards.Stats(),
		"trend":        e.trends.Stats(),
	}
}

// Transactions returns the snapshot filtered and sorted by c.
func (e *Engine) Transactions(c filter.Criteria) []core.Transaction {
	snap := e.source.Snapshot()
	key := fmt.Sprintf("v%d|%s", snap.Version, c.Key())

	txs, _ := memo(e, e.lists, "list|"+key, func() ([]core.Transaction, error) {
		return filter.Apply(snap.Transactions, c), nil
	})
	return slices.Clone(txs)
}

// Dashboard returns the summary of the period containing p.AnchorDate.
func (e *Engine) Dashboard(p core.TimePeriod, breakdown core.BreakdownType) (core.DashboardSummary, error) {
	snap := e.source.Snapshot()
	key := fmt.Sprintf("v%d|%s|%s", snap.Version, p.Key(), breakdown)

	sum, err := memo(e, e.dashboards, "dash|"+key, func() (core.DashboardSummary, error) {
		slog.Debug("Computing dashboard", applog.NewFields().
			WithComponent(applog.ComponentViews).
			WithOperation(applog.OpAggregate).
			WithPeriod(string(p.Type), p.AnchorDate).
			ToSlice()...)
		return e.calc.Dashboard(snap.Transactions, p, breakdown)
	})
	if err != nil {
		return core.DashboardSummary{}, err
	}
	sum.CategoryBreakdown = slices.Clone(sum.CategoryBreakdown)
	return sum, nil
}

// Trend returns the balance trend ending at p.AnchorDate.
func (e *Engine) Trend(p core.TimePeriod) (core.BalanceTrendData, error) {
	snap := e.source.Snapshot()
	key := fmt.Sprintf("v%d|%s", snap.Version, p.Key())

	data, err := memo(e, e.trends, "trend|"+key, func() (core.BalanceTrendData, error) {
		slog.Debug("Computing balance trend", applog.NewFields().
			WithComponent(applog.ComponentViews).
			WithOperation(applog.OpAggregate).
			WithPeriod(string(p.Type), p.AnchorDate).
			ToSlice()...)
		return e.calc.Trend(snap.Transactions, p)
	})
	if err != nil {
		return core.BalanceTrendData{}, err
	}
	data.Points = slices.Clone(data.Points)
	return data, nil
}

// memo looks key up in c, computing and storing it on a miss. Errors are
// never cached.
func memo[T any](e *Engine, c cache.Cache[T], key string, compute func() (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err, shared := e.group.Do(key, func() (any, error) {
		res, err := compute()
		if err != nil {
			return res, err
		}
		c.Set(key, res)
		return res, nil
	})
	if shared {
		slog.Debug("View computation shared", "key", key)
	}
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
