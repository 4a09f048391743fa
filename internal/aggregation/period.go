package aggregation

import (
	"errors"
	"time"

	"fintrack/internal/core"
)

// Trailing window sizes of the balance trend.
const (
	TrendDays   = 30
	TrendWeeks  = 12
	TrendMonths = 12
)

const FieldAnchorDate = "anchorDate"

var (
	ErrInvalidPeriodType = errors.New("period type must be day, week or month")
	ErrAnchorInFuture    = errors.New("anchor date cannot be in the future")
)

// StartOfWeek returns the Monday of the ISO week containing d.
func StartOfWeek(d core.Date) core.Date {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDays(-offset)
}

// StartOfMonth returns the first day of d's month.
func StartOfMonth(d core.Date) core.Date {
	return core.NewDate(d.Year(), int(d.Month()), 1)
}

// EndOfMonth returns the last day of d's month.
func EndOfMonth(d core.Date) core.Date {
	return d.AddMonths(1).AddDays(-1)
}

// BucketKey maps a date to the first day of its bucket.
func BucketKey(d core.Date, p core.PeriodType) core.Date {
	switch p {
	case core.PeriodWeek:
		return StartOfWeek(d)
	case core.PeriodMonth:
		return StartOfMonth(d)
	}
	return d
}

func nextBucket(key core.Date, p core.PeriodType) core.Date {
	switch p {
	case core.PeriodWeek:
		return key.AddDays(7)
	case core.PeriodMonth:
		return key.AddMonths(1)
	}
	return key.AddDays(1)
}

// CurrentRange is the single bucket containing anchor: the day itself, its
// Monday-Sunday week, or its calendar month.
func CurrentRange(p core.PeriodType, anchor core.Date) core.DateRange {
	switch p {
	case core.PeriodWeek:
		start := StartOfWeek(anchor)
		return core.DateRange{Start: start, End: start.AddDays(6)}
	case core.PeriodMonth:
		return core.DateRange{Start: StartOfMonth(anchor), End: EndOfMonth(anchor)}
	}
	return core.DateRange{Start: anchor, End: anchor}
}

// TrendRange is the trailing window ending at anchor. Its start is aligned
// to a bucket boundary so the window holds exactly TrendDays, TrendWeeks or
// TrendMonths buckets.
func TrendRange(p core.PeriodType, anchor core.Date) core.DateRange {
	switch p {
	case core.PeriodWeek:
		return core.DateRange{Start: StartOfWeek(anchor).AddDays(-7 * (TrendWeeks - 1)), End: anchor}
	case core.PeriodMonth:
		return core.DateRange{Start: StartOfMonth(anchor).AddMonths(-(TrendMonths - 1)), End: anchor}
	}
	return core.DateRange{Start: anchor.AddDays(-(TrendDays - 1)), End: anchor}
}

// Buckets enumerates every bucket key in r in chronological order, including
// buckets that hold no transactions.
func Buckets(p core.PeriodType, r core.DateRange) []core.Date {
	var keys []core.Date
	for key := BucketKey(r.Start, p); !key.After(r.End); key = nextBucket(key, p) {
		keys = append(keys, key)
	}
	return keys
}

// ParsePeriod validates the period type and anchor format and returns the
// anchor as a date.
func ParsePeriod(p core.TimePeriod) (core.Date, error) {
	var errs []core.FieldError
	if !p.Type.Valid() {
		errs = append(errs, core.FieldError{Field: core.FieldType, Message: ErrInvalidPeriodType.Error()})
	}
	anchor, err := core.ParseDate(p.AnchorDate)
	if err != nil {
		errs = append(errs, core.FieldError{Field: FieldAnchorDate, Message: err.Error()})
	}
	if err := core.NewValidationError(errs); err != nil {
		return core.Date{}, err
	}
	return anchor, nil
}

// PeriodFor builds a period anchored at t's calendar date.
func PeriodFor(p core.PeriodType, t time.Time) core.TimePeriod {
	return core.TimePeriod{Type: p, AnchorDate: core.DateOf(t).String()}
}
