package http

import (
	"strings"

	"fintrack/internal/core"
)

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// sanitizeTransactionInput strips control characters from free-text fields.
func sanitizeTransactionInput(in core.TransactionInput) core.TransactionInput {
	in.Description = sanitizeInput(in.Description)
	in.CategoryID = strings.TrimSpace(in.CategoryID)
	in.Date = strings.TrimSpace(in.Date)
	return in
}

func sanitizeTransactionPatch(p core.TransactionPatch) core.TransactionPatch {
	if p.Description != nil {
		d := sanitizeInput(*p.Description)
		p.Description = &d
	}
	if p.CategoryID != nil {
		c := strings.TrimSpace(*p.CategoryID)
		p.CategoryID = &c
	}
	if p.Date != nil {
		d := strings.TrimSpace(*p.Date)
		p.Date = &d
	}
	return p
}

// nonNil keeps empty collections encoded as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
