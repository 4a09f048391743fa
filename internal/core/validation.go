package core

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	MinYear              = 1900
	MaxYear              = 2100
	MaxDescriptionLength = 200
)

// Field names reported in FieldError.Field.
const (
	FieldAmount      = "amount"
	FieldDate        = "date"
	FieldType        = "type"
	FieldCategoryID  = "categoryId"
	FieldDescription = "description"
)

var (
	ErrDateRequired       = errors.New("date is required")
	ErrDateYearRange      = errors.New("date year must be between 1900 and 2100")
	ErrDateInFuture       = errors.New("date cannot be in the future")
	ErrInvalidType        = errors.New("type must be income or expense")
	ErrCategoryRequired   = errors.New("category is required")
	ErrUnknownCategory    = errors.New("category does not exist")
	ErrDescriptionTooLong = errors.New("description must be at most 200 characters")
	errAmountNotPositive  = errors.New("amount must be greater than 0")
)

type (
	// TransactionInput is the payload for creating a transaction.
	TransactionInput struct {
		Amount      decimal.Decimal `json:"amount"`
		Date        string          `json:"date"`
		Type        TransactionType `json:"type"`
		CategoryID  string          `json:"categoryId"`
		Description string          `json:"description"`
	}

	// TransactionPatch is a partial update. Nil fields are left unchanged and
	// are not validated.
	TransactionPatch struct {
		Amount      *decimal.Decimal `json:"amount,omitempty"`
		Date        *string          `json:"date,omitempty"`
		Type        *TransactionType `json:"type,omitempty"`
		CategoryID  *string          `json:"categoryId,omitempty"`
		Description *string          `json:"description,omitempty"`
	}
)

// ValidateAmount checks sign, upper bound and scale.
func ValidateAmount(d decimal.Decimal) error {
	if !d.IsPositive() {
		return errAmountNotPositive
	}
	if d.GreaterThan(decimal.New(MaxAmountCents, -2)) {
		return ErrAmountTooLarge
	}
	if !d.Equal(d.Truncate(2)) {
		return ErrAmountScale
	}
	return nil
}

// ValidateDate parses s and checks the year range and that it is not after today.
func ValidateDate(s string, today Date) (Date, error) {
	if strings.TrimSpace(s) == "" {
		return Date{}, ErrDateRequired
	}
	d, err := ParseDate(s)
	if err != nil {
		return Date{}, err
	}
	if d.Year() < MinYear || d.Year() > MaxYear {
		return Date{}, ErrDateYearRange
	}
	if d.After(today) {
		return Date{}, ErrDateInFuture
	}
	return d, nil
}

func ValidateType(t TransactionType) error {
	if !t.Valid() {
		return ErrInvalidType
	}
	return nil
}

// ValidateCategory checks that id exists. Type compatibility is left to
// callers offering the per-type category lists.
func ValidateCategory(id string, registry *CategoryRegistry) error {
	if strings.TrimSpace(id) == "" {
		return ErrCategoryRequired
	}
	if registry == nil {
		return nil
	}
	if _, ok := registry.Lookup(id); !ok {
		return ErrUnknownCategory
	}
	return nil
}

func ValidateDescription(s string) error {
	if utf8.RuneCountInString(s) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	return nil
}

// Validate runs every rule against the input and returns all violations.
func (in TransactionInput) Validate(registry *CategoryRegistry, today Date) []FieldError {
	var errs []FieldError
	add := func(field string, err error) {
		if err != nil {
			errs = append(errs, FieldError{Field: field, Message: err.Error()})
		}
	}
	add(FieldAmount, ValidateAmount(in.Amount))
	_, err := ValidateDate(in.Date, today)
	add(FieldDate, err)
	add(FieldType, ValidateType(in.Type))
	add(FieldCategoryID, ValidateCategory(in.CategoryID, registry))
	add(FieldDescription, ValidateDescription(in.Description))
	return errs
}

// Validate checks only the fields present in the patch.
func (p TransactionPatch) Validate(registry *CategoryRegistry, today Date) []FieldError {
	var errs []FieldError
	add := func(field string, err error) {
		if err != nil {
			errs = append(errs, FieldError{Field: field, Message: err.Error()})
		}
	}
	if p.Amount != nil {
		add(FieldAmount, ValidateAmount(*p.Amount))
	}
	if p.Date != nil {
		_, err := ValidateDate(*p.Date, today)
		add(FieldDate, err)
	}
	if p.Type != nil {
		add(FieldType, ValidateType(*p.Type))
	}
	if p.CategoryID != nil {
		add(FieldCategoryID, ValidateCategory(*p.CategoryID, registry))
	}
	if p.Description != nil {
		add(FieldDescription, ValidateDescription(*p.Description))
	}
	return errs
}

// Empty reports whether the patch changes nothing.
func (p TransactionPatch) Empty() bool {
	return p.Amount == nil && p.Date == nil && p.Type == nil && p.CategoryID == nil && p.Description == nil
}

// Apply merges the patch onto t. The patch must already be validated.
func (p TransactionPatch) Apply(t Transaction) Transaction {
	if p.Amount != nil {
		t.Amount = MoneyFromDecimal(*p.Amount)
	}
	if p.Date != nil {
		if d, err := ParseDate(*p.Date); err == nil {
			t.Date = d
		}
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.CategoryID != nil {
		t.CategoryID = strings.TrimSpace(*p.CategoryID)
	}
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}
	return t
}
