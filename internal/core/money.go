// Package core provides money parsing and handling utilities.
//
// This file contains the Money type and functions for converting between
// integer cents and decimal representations.
package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxAmountCents is the largest accepted amount, 999,999,999.99.
const MaxAmountCents int64 = 99_999_999_999

type Money struct {
	Cents int64
}

var (
	ErrInvalidAmount  = errors.New("amount must be a positive number")
	ErrAmountTooLarge = errors.New("amount must not exceed 999,999,999.99")
	ErrAmountScale    = errors.New("amount must have at most 2 decimal places")
)

// ParseAmount converts a decimal string to Money.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. Unlike a
// display formatter it does not round: more than two fractional digits is an
// error, so the stored value is exactly what the user typed.
//
// Examples:
//
//	ParseAmount("12.34") -> Money{1234}, nil
//	ParseAmount("12,3")  -> Money{1230}, nil
//	ParseAmount("12.345") -> error
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	if err := ValidateAmount(d); err != nil {
		return Money{}, err
	}
	return MoneyFromDecimal(d), nil
}

// MoneyFromDecimal converts d to cents. Callers validate scale first; any
// digits beyond the second decimal are truncated.
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money{Cents: d.Shift(2).Truncate(0).IntPart()}
}

// Decimal returns the amount as a decimal with two fractional digits.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// String formats the amount with exactly two fractional digits.
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// Float returns the amount as a float64 for display and percentages.
// Use cents for calculations.
func (m Money) Float() float64 {
	return float64(m.Cents) / 100.0
}

func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }
func (m Money) Sub(o Money) Money { return Money{Cents: m.Cents - o.Cents} }

// Abs returns the absolute value of m.
func (m Money) Abs() Money {
	if m.Cents < 0 {
		return Money{Cents: -m.Cents}
	}
	return m
}

// MarshalJSON encodes the amount as a JSON number with two decimals.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*m = Money{}
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return ErrInvalidAmount
	}
	*m = Money{Cents: d.Shift(2).Round(0).IntPart()}
	return nil
}
