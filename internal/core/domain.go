package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and storage format of calendar dates.
const DateLayout = "2006-01-02"

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	TransactionType string

	// Date is a calendar date without time component, normalized to UTC midnight.
	Date struct {
		time.Time
	}

	Transaction struct {
		ID          string          `json:"id"`
		Amount      Money           `json:"amount"`
		Date        Date            `json:"date"`
		Type        TransactionType `json:"type"`
		CategoryID  string          `json:"categoryId"`
		Description string          `json:"description"`
		CreatedAt   time.Time       `json:"createdAt"`
		UpdatedAt   time.Time       `json:"updatedAt"`
	}

	// Clock returns the current instant. Tests inject fixed clocks.
	Clock func() time.Time
)

var ErrInvalidDate = errors.New("date must be in YYYY-MM-DD format")

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// Sign returns +1 for income and -1 for expense.
func (t TransactionType) Sign() int64 {
	if t == Income {
		return 1
	}
	return -1
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a strict YYYY-MM-DD string. Dates that do not exist on the
// calendar (2026-02-30) are rejected.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if len(s) != len(DateLayout) {
		return Date{}, ErrInvalidDate
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	if t.Format(DateLayout) != s {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// Today returns the current calendar date according to clock.
func (c Clock) Today() Date {
	if c == nil {
		return DateOf(time.Now())
	}
	return DateOf(c())
}

// Now returns the current instant according to clock.
func (c Clock) Now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// AddMonths returns the first day of the month n months after d's month.
func (d Date) AddMonths(n int) Date {
	return NewDate(d.Year(), int(d.Month())+n, 1)
}

func (d Date) Before(o Date) bool { return d.Time.Before(o.Time) }
func (d Date) After(o Date) bool  { return d.Time.After(o.Time) }
func (d Date) Equal(o Date) bool  { return d.Time.Equal(o.Time) }

// Between reports whether d lies in [start, end] inclusive.
func (d Date) Between(start, end Date) bool {
	return !d.Before(start) && !d.After(end)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date: %w", err)
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return fmt.Errorf("date %q: %w", s, err)
	}
	*d = parsed
	return nil
}

// SignedCents returns the amount as a signed contribution to a balance.
func (t Transaction) SignedCents() int64 {
	return t.Type.Sign() * t.Amount.Cents
}
