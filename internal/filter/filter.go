// Package filter implements the search, filter and sort pipeline over a
// transaction list. Stages run in a fixed order and absent criteria are
// identity transforms. Input slices are never mutated.
package filter

import (
	"cmp"
	"slices"
	"strings"

	"fintrack/internal/core"
)

type (
	SortField string
	SortOrder string
)

const (
	SortNone     SortField = ""
	SortDate     SortField = "date"
	SortAmount   SortField = "amount"
	SortCategory SortField = "category"

	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"

	// TypeAll disables the type filter.
	TypeAll = "all"
)

// Criteria selects and orders transactions. The zero value returns the input
// unchanged (as a copy).
type Criteria struct {
	Search     string
	Type       string
	CategoryID string
	From       *core.Date
	To         *core.Date
	SortBy     SortField
	Order      SortOrder
}

// Apply runs search, type, category, date range and sort in that order.
func Apply(txs []core.Transaction, c Criteria) []core.Transaction {
	out := slices.Clone(txs)
	if out == nil {
		out = []core.Transaction{}
	}
	out = Search(out, c.Search)
	out = ByType(out, c.Type)
	out = ByCategory(out, c.CategoryID)
	out = ByDateRange(out, c.From, c.To)
	return Sort(out, c.SortBy, c.Order)
}

// Search keeps transactions whose description contains query, ignoring case.
// A blank query is a no-op.
func Search(txs []core.Transaction, query string) []core.Transaction {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return txs
	}
	return keep(txs, func(t core.Transaction) bool {
		return strings.Contains(strings.ToLower(t.Description), q)
	})
}

func ByType(txs []core.Transaction, typ string) []core.Transaction {
	if typ == "" || typ == TypeAll {
		return txs
	}
	return keep(txs, func(t core.Transaction) bool {
		return string(t.Type) == typ
	})
}

func ByCategory(txs []core.Transaction, categoryID string) []core.Transaction {
	if categoryID == "" {
		return txs
	}
	return keep(txs, func(t core.Transaction) bool {
		return t.CategoryID == categoryID
	})
}

// ByDateRange keeps dates within the inclusive bounds; nil bounds are open.
func ByDateRange(txs []core.Transaction, from, to *core.Date) []core.Transaction {
	if from == nil && to == nil {
		return txs
	}
	return keep(txs, func(t core.Transaction) bool {
		if from != nil && t.Date.Before(*from) {
			return false
		}
		if to != nil && t.Date.After(*to) {
			return false
		}
		return true
	})
}

// Sort orders txs stably by field. SortNone leaves the order untouched.
func Sort(txs []core.Transaction, field SortField, order SortOrder) []core.Transaction {
	var compare func(a, b core.Transaction) int
	switch field {
	case SortDate:
		compare = func(a, b core.Transaction) int { return a.Date.Compare(b.Date.Time) }
	case SortAmount:
		compare = func(a, b core.Transaction) int { return cmp.Compare(a.Amount.Cents, b.Amount.Cents) }
	case SortCategory:
		compare = func(a, b core.Transaction) int { return strings.Compare(a.CategoryID, b.CategoryID) }
	default:
		return txs
	}
	if order == Desc {
		asc := compare
		compare = func(a, b core.Transaction) int { return asc(b, a) }
	}
	out := slices.Clone(txs)
	slices.SortStableFunc(out, compare)
	return out
}

func keep(txs []core.Transaction, pred func(core.Transaction) bool) []core.Transaction {
	out := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if pred(t) {
			out = append(out, t)
		}
	}
	return out
}
