package core

import "fmt"

const (
	PeriodDay   PeriodType = "day"
	PeriodWeek  PeriodType = "week"
	PeriodMonth PeriodType = "month"
)

type (
	PeriodType string

	// TimePeriod selects a bucket size and the date its boundaries are
	// computed from.
	TimePeriod struct {
		Type       PeriodType `json:"type"`
		AnchorDate string     `json:"anchorDate"`
	}

	// DateRange is an inclusive [Start, End] span of calendar dates.
	DateRange struct {
		Start Date `json:"start"`
		End   Date `json:"end"`
	}
)

func (p PeriodType) Valid() bool {
	switch p {
	case PeriodDay, PeriodWeek, PeriodMonth:
		return true
	}
	return false
}

// Contains reports whether d falls inside the range.
func (r DateRange) Contains(d Date) bool {
	return d.Between(r.Start, r.End)
}

func (r DateRange) String() string {
	return fmt.Sprintf("%s..%s", r.Start, r.End)
}

// Key identifies the period in cache keys and logs.
func (p TimePeriod) Key() string {
	return string(p.Type) + "@" + p.AnchorDate
}
