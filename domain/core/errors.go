package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Extraction errors
	ErrMissingColumn        = errors.New("missing column")
	ErrUnknownColumn        = errors.New("unknown column")
	ErrTypeMismatch         = errors.New("type mismatch")
	ErrInsufficientGroups   = errors.New("insufficient groups")
	ErrInvalidVariableCount = errors.New("invalid variable count")
	ErrEmptyDataset         = errors.New("empty dataset")

	// Numeric routine input errors
	ErrShapeMismatch    = errors.New("shape mismatch")
	ErrInvalidLabel     = errors.New("invalid label")
	ErrInvalidValue     = errors.New("invalid value")
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrSingularDesign   = errors.New("singular design matrix")

	// Dispatch errors
	ErrUnknownMethod  = errors.New("unknown method")
	ErrInvalidSetting = errors.New("invalid setting")
	ErrInvalidPayload = errors.New("invalid payload")
)

// FieldError ties an error kind to the mapping role or column that caused it.
type FieldError struct {
	Kind   error
	Field  string
	Detail string
}

func (e *FieldError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%v: %s", e.Kind, e.Field)
	}
	return fmt.Sprintf("%v: %s: %s", e.Kind, e.Field, e.Detail)
}

func (e *FieldError) Unwrap() error {
	return e.Kind
}

// Error constructors with context
func NewMissingColumnError(role string) error {
	return &FieldError{Kind: ErrMissingColumn, Field: role, Detail: "not set in variable mapping"}
}

func NewUnknownColumnError(column string) error {
	return &FieldError{Kind: ErrUnknownColumn, Field: column, Detail: "column not present in any row"}
}

func NewTypeMismatchError(column string, row int, value any) error {
	return &FieldError{
		Kind:   ErrTypeMismatch,
		Field:  column,
		Detail: fmt.Sprintf("row %d holds %T %v, numeric value required", row, value, value),
	}
}

func NewInsufficientGroupsError(groupVar string, found, required int) error {
	return &FieldError{
		Kind:   ErrInsufficientGroups,
		Field:  groupVar,
		Detail: fmt.Sprintf("found %d non-empty groups, need at least %d", found, required),
	}
}

func NewInvalidVariableCountError(field string, got, want int) error {
	return &FieldError{
		Kind:   ErrInvalidVariableCount,
		Field:  field,
		Detail: fmt.Sprintf("got %d variables, want %d", got, want),
	}
}

func NewShapeMismatchError(field string, left, right int) error {
	return &FieldError{
		Kind:   ErrShapeMismatch,
		Field:  field,
		Detail: fmt.Sprintf("lengths %d and %d differ", left, right),
	}
}

func NewInvalidLabelError(field string, index int, value float64) error {
	return &FieldError{
		Kind:   ErrInvalidLabel,
		Field:  field,
		Detail: fmt.Sprintf("value %v at index %d is not 0 or 1", value, index),
	}
}

func NewInsufficientDataError(field string, got, required int) error {
	return &FieldError{
		Kind:   ErrInsufficientData,
		Field:  field,
		Detail: fmt.Sprintf("%d usable observations, need at least %d", got, required),
	}
}

// FieldOf returns the field named by a FieldError anywhere in the chain.
func FieldOf(err error) string {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Field
	}
	return ""
}

// Error checking helpers
func IsExtractionError(err error) bool {
	return errors.Is(err, ErrMissingColumn) ||
		errors.Is(err, ErrUnknownColumn) ||
		errors.Is(err, ErrTypeMismatch) ||
		errors.Is(err, ErrInsufficientGroups) ||
		errors.Is(err, ErrInvalidVariableCount) ||
		errors.Is(err, ErrEmptyDataset)
}

func IsInputError(err error) bool {
	return IsExtractionError(err) ||
		errors.Is(err, ErrShapeMismatch) ||
		errors.Is(err, ErrInvalidLabel) ||
		errors.Is(err, ErrInvalidValue) ||
		errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrSingularDesign) ||
		errors.Is(err, ErrInvalidSetting)
}
