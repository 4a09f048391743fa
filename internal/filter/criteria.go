package filter

import (
	"fmt"
	"net/url"
	"strings"

	"fintrack/internal/core"
)

// Query parameter names understood by FromQuery.
const (
	ParamSearch   = "q"
	ParamType     = "type"
	ParamCategory = "category"
	ParamFrom     = "from"
	ParamTo       = "to"
	ParamSort     = "sort"
	ParamOrder    = "order"
)

// FromQuery parses criteria from URL query values. Every malformed parameter
// is reported in one ValidationError.
func FromQuery(q url.Values) (Criteria, error) {
	c := Criteria{
		Search:     q.Get(ParamSearch),
		Type:       strings.TrimSpace(q.Get(ParamType)),
		CategoryID: strings.TrimSpace(q.Get(ParamCategory)),
		SortBy:     SortField(strings.TrimSpace(q.Get(ParamSort))),
		Order:      SortOrder(strings.ToLower(strings.TrimSpace(q.Get(ParamOrder)))),
	}

	var errs []core.FieldError
	if c.Type != "" && c.Type != TypeAll && !core.TransactionType(c.Type).Valid() {
		errs = append(errs, core.FieldError{Field: ParamType, Message: "type must be all, income or expense"})
	}
	for _, p := range []struct {
		name string
		dst  **core.Date
	}{{ParamFrom, &c.From}, {ParamTo, &c.To}} {
		v := strings.TrimSpace(q.Get(p.name))
		if v == "" {
			continue
		}
		d, err := core.ParseDate(v)
		if err != nil {
			errs = append(errs, core.FieldError{Field: p.name, Message: err.Error()})
			continue
		}
		*p.dst = &d
	}
	switch c.SortBy {
	case SortNone, SortDate, SortAmount, SortCategory:
	default:
		errs = append(errs, core.FieldError{Field: ParamSort, Message: "sort must be date, amount or category"})
	}
	switch c.Order {
	case "", Asc, Desc:
	default:
		errs = append(errs, core.FieldError{Field: ParamOrder, Message: "order must be asc or desc"})
	}

	if err := core.NewValidationError(errs); err != nil {
		return Criteria{}, err
	}
	return c, nil
}

// WithDefaultSort returns c sorted by date descending when no sort is set.
func (c Criteria) WithDefaultSort() Criteria {
	if c.SortBy == SortNone {
		c.SortBy = SortDate
		c.Order = Desc
	}
	return c
}

// Key is a stable identity of the criteria for caching.
func (c Criteria) Key() string {
	from, to := "", ""
	if c.From != nil {
		from = c.From.String()
	}
	if c.To != nil {
		to = c.To.String()
	}
	return fmt.Sprintf("q=%q|t=%s|c=%s|f=%s|to=%s|s=%s|o=%s",
		strings.ToLower(strings.TrimSpace(c.Search)), c.Type, c.CategoryID, from, to, c.SortBy, c.Order)
}
