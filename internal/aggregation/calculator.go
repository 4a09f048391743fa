// Package aggregation derives dashboard summaries and balance trend series
// from a transaction snapshot. Everything here is a pure function of its
// inputs; callers own caching.
package aggregation

import (
	"cmp"
	"math"
	"slices"

	"fintrack/internal/core"
)

// Calculator computes summaries against a category registry and clock.
type Calculator struct {
	registry *core.CategoryRegistry
	clock    core.Clock
}

func NewCalculator(registry *core.CategoryRegistry, clock core.Clock) *Calculator {
	if registry == nil {
		registry = core.DefaultRegistry()
	}
	return &Calculator{registry: registry, clock: clock}
}

// Dashboard summarizes the transactions inside the single bucket of period.
func (c *Calculator) Dashboard(txs []core.Transaction, period core.TimePeriod, breakdown core.BreakdownType) (core.DashboardSummary, error) {
	anchor, err := ParsePeriod(period)
	if err != nil {
		return core.DashboardSummary{}, err
	}
	if breakdown == "" {
		breakdown = core.BreakdownAll
	}
	if !breakdown.Valid() {
		return core.DashboardSummary{}, core.NewValidationError([]core.FieldError{{
			Field: "breakdown", Message: "breakdown must be all, income or expense",
		}})
	}

	r := CurrentRange(period.Type, anchor)
	summary := core.DashboardSummary{
		Period:            period,
		Range:             r,
		BreakdownType:     breakdown,
		CategoryBreakdown: []core.CategoryAmount{},
	}

	groups := make(map[string]*core.CategoryAmount)
	var breakdownTotal int64
	for _, tx := range txs {
		if !r.Contains(tx.Date) {
			continue
		}
		summary.TransactionCount++
		switch tx.Type {
		case core.Income:
			summary.TotalIncome = summary.TotalIncome.Add(tx.Amount)
			summary.IncomeCount++
		case core.Expense:
			summary.TotalExpenses = summary.TotalExpenses.Add(tx.Amount)
			summary.ExpenseCount++
		}

		if !breakdown.Includes(tx.Type) {
			continue
		}
		g, ok := groups[tx.CategoryID]
		if !ok {
			g = c.newGroup(tx)
			groups[tx.CategoryID] = g
		}
		g.Amount = g.Amount.Add(tx.Amount)
		g.Count++
		breakdownTotal += tx.Amount.Cents
	}
	summary.NetBalance = summary.TotalIncome.Sub(summary.TotalExpenses)

	for _, g := range groups {
		if breakdownTotal > 0 {
			g.Percentage = float64(g.Amount.Cents) * 100 / float64(breakdownTotal)
		}
		summary.CategoryBreakdown = append(summary.CategoryBreakdown, *g)
	}
	slices.SortFunc(summary.CategoryBreakdown, func(a, b core.CategoryAmount) int {
		if n := cmp.Compare(b.Amount.Cents, a.Amount.Cents); n != 0 {
			return n
		}
		return cmp.Compare(a.CategoryID, b.CategoryID)
	})

	return summary, nil
}

func (c *Calculator) newGroup(tx core.Transaction) *core.CategoryAmount {
	g := &core.CategoryAmount{CategoryID: tx.CategoryID, CategoryName: core.UnknownCategoryName, Type: tx.Type}
	if cat, ok := c.registry.Lookup(tx.CategoryID); ok {
		g.CategoryName = cat.Name
		g.Icon = cat.Icon
		g.Type = cat.Type
	}
	return g
}

type bucketTotals struct {
	income  int64
	expense int64
	count   int
}

// Trend builds the cumulative balance series over the trailing window of
// period. The opening balance carries every transaction dated before the
// window so the series reflects the real account balance.
func (c *Calculator) Trend(txs []core.Transaction, period core.TimePeriod) (core.BalanceTrendData, error) {
	anchor, err := ParsePeriod(period)
	if err != nil {
		return core.BalanceTrendData{}, err
	}
	if anchor.After(c.clock.Today()) {
		return core.BalanceTrendData{}, core.NewValidationError([]core.FieldError{{
			Field: FieldAnchorDate, Message: ErrAnchorInFuture.Error(),
		}})
	}

	r := TrendRange(period.Type, anchor)
	var starting int64
	totals := make(map[string]*bucketTotals)
	for _, tx := range txs {
		if tx.Date.Before(r.Start) {
			starting += tx.SignedCents()
			continue
		}
		if tx.Date.After(r.End) {
			continue
		}
		key := BucketKey(tx.Date, period.Type).String()
		b, ok := totals[key]
		if !ok {
			b = &bucketTotals{}
			totals[key] = b
		}
		if tx.Type == core.Income {
			b.income += tx.Amount.Cents
		} else {
			b.expense += tx.Amount.Cents
		}
		b.count++
	}

	keys := Buckets(period.Type, r)
	data := core.BalanceTrendData{
		Period:          period,
		Range:           r,
		Points:          make([]core.BalanceTrendPoint, 0, len(keys)),
		StartingBalance: core.Money{Cents: starting},
		EndingBalance:   core.Money{Cents: starting},
	}
	balance := starting
	for _, key := range keys {
		b := totals[key.String()]
		if b == nil {
			b = &bucketTotals{}
		}
		balance += b.income - b.expense
		data.Points = append(data.Points, core.BalanceTrendPoint{
			Date:             key,
			Balance:          core.Money{Cents: balance},
			Income:           core.Money{Cents: b.income},
			Expense:          core.Money{Cents: b.expense},
			TransactionCount: b.count,
		})
	}
	if n := len(data.Points); n > 0 {
		data.EndingBalance = data.Points[n-1].Balance
	}
	data.Change = data.EndingBalance.Sub(data.StartingBalance)
	if starting != 0 {
		data.ChangePercentage = float64(data.Change.Cents) / math.Abs(float64(starting)) * 100
	}

	return data, nil
}
