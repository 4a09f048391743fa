package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

var testToday = NewDate(2026, 10, 18)

func validInput() TransactionInput {
	return TransactionInput{
		Amount:      decimal.RequireFromString("12.50"),
		Date:        "2026-10-01",
		Type:        Expense,
		CategoryID:  "food",
		Description: "lunch",
	}
}

func TestTransactionInputValidate(t *testing.T) {
	reg := DefaultRegistry()
	if errs := validInput().Validate(reg, testToday); len(errs) != 0 {
		t.Fatalf("expected ok, got %v", errs)
	}

	cases := []struct {
		name  string
		mut   func(*TransactionInput)
		field string
	}{
		{"negative amount", func(in *TransactionInput) { in.Amount = decimal.NewFromInt(-5) }, FieldAmount},
		{"zero amount", func(in *TransactionInput) { in.Amount = decimal.Zero }, FieldAmount},
		{"three decimals", func(in *TransactionInput) { in.Amount = decimal.RequireFromString("1.234") }, FieldAmount},
		{"too large", func(in *TransactionInput) { in.Amount = decimal.RequireFromString("1000000000") }, FieldAmount},
		{"missing date", func(in *TransactionInput) { in.Date = "" }, FieldDate},
		{"bad date", func(in *TransactionInput) { in.Date = "01/10/2026" }, FieldDate},
		{"future date", func(in *TransactionInput) { in.Date = "2026-10-19" }, FieldDate},
		{"old date", func(in *TransactionInput) { in.Date = "1899-12-31" }, FieldDate},
		{"bad type", func(in *TransactionInput) { in.Type = "transfer" }, FieldType},
		{"missing category", func(in *TransactionInput) { in.CategoryID = " " }, FieldCategoryID},
		{"unknown category", func(in *TransactionInput) { in.CategoryID = "nope" }, FieldCategoryID},
		{"long description", func(in *TransactionInput) { in.Description = strings.Repeat("x", 201) }, FieldDescription},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mut(&in)
			errs := in.Validate(reg, testToday)
			if len(errs) != 1 || errs[0].Field != tc.field {
				t.Fatalf("expected single %s error, got %v", tc.field, errs)
			}
		})
	}
}

func TestTransactionInputReportsAllFailures(t *testing.T) {
	errs := TransactionInput{}.Validate(DefaultRegistry(), testToday)
	err := NewValidationError(errs)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, f := range []string{FieldAmount, FieldDate, FieldType, FieldCategoryID} {
		if !ve.Has(f) {
			t.Fatalf("missing %s in %v", f, ve.Errors)
		}
	}
	if ve.Has(FieldDescription) {
		t.Fatalf("empty description is allowed")
	}
}

func TestTransactionPatchValidatesPresentFieldsOnly(t *testing.T) {
	reg := DefaultRegistry()
	if errs := (TransactionPatch{}).Validate(reg, testToday); len(errs) != 0 {
		t.Fatalf("empty patch should be valid, got %v", errs)
	}

	bad := decimal.NewFromInt(-1)
	desc := "ok"
	errs := TransactionPatch{Amount: &bad, Description: &desc}.Validate(reg, testToday)
	if len(errs) != 1 || errs[0].Field != FieldAmount {
		t.Fatalf("expected amount error only, got %v", errs)
	}
}

func TestTransactionPatchApply(t *testing.T) {
	orig := Transaction{ID: "1", Amount: Money{Cents: 100}, Date: NewDate(2026, 1, 1), Type: Expense, CategoryID: "food"}
	amt := decimal.RequireFromString("2.5")
	date := "2026-02-03"
	got := TransactionPatch{Amount: &amt, Date: &date}.Apply(orig)
	if got.Amount.Cents != 250 || got.Date.String() != date || got.CategoryID != "food" || got.ID != "1" {
		t.Fatalf("unexpected merge: %+v", got)
	}
}

func TestNewValidationErrorNil(t *testing.T) {
	if NewValidationError(nil) != nil {
		t.Fatalf("expected nil error for no violations")
	}
}
