package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"gostat/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Field   string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context, keeping the code of an
// AppError or domain error found in the chain
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	base := FromDomain(err)
	return &AppError{
		Code:    base.Code,
		Message: message,
		Field:   base.Field,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// GetCode returns the error code of err, or CodeInternalError for errors
// outside the taxonomy
func GetCode(err error) string {
	return FromDomain(err).Code
}

// Error codes
const (
	CodeConfigInvalid        = "CONFIG_INVALID"
	CodeInternalError        = "INTERNAL_ERROR"
	CodeInvalidInput         = "INVALID_INPUT"
	CodeNotFound             = "NOT_FOUND"
	CodeMissingColumn        = "MISSING_COLUMN"
	CodeUnknownColumn        = "UNKNOWN_COLUMN"
	CodeTypeMismatch         = "TYPE_MISMATCH"
	CodeInsufficientGroups   = "INSUFFICIENT_GROUPS"
	CodeInvalidVariableCount = "INVALID_VARIABLE_COUNT"
	CodeEmptyDataset         = "EMPTY_DATASET"
	CodeShapeMismatch        = "SHAPE_MISMATCH"
	CodeInvalidLabel         = "INVALID_LABEL"
	CodeInvalidValue         = "INVALID_VALUE"
	CodeInsufficientData     = "INSUFFICIENT_DATA"
	CodeSingularDesign       = "SINGULAR_DESIGN"
	CodeUnknownMethod        = "UNKNOWN_METHOD"
	CodeInvalidSetting       = "INVALID_SETTING"
	CodeInvalidPayload       = "INVALID_PAYLOAD"
)

var domainCodes = []struct {
	kind error
	code string
}{
	{core.ErrMissingColumn, CodeMissingColumn},
	{core.ErrUnknownColumn, CodeUnknownColumn},
	{core.ErrTypeMismatch, CodeTypeMismatch},
	{core.ErrInsufficientGroups, CodeInsufficientGroups},
	{core.ErrInvalidVariableCount, CodeInvalidVariableCount},
	{core.ErrEmptyDataset, CodeEmptyDataset},
	{core.ErrShapeMismatch, CodeShapeMismatch},
	{core.ErrInvalidLabel, CodeInvalidLabel},
	{core.ErrInvalidValue, CodeInvalidValue},
	{core.ErrInsufficientData, CodeInsufficientData},
	{core.ErrSingularDesign, CodeSingularDesign},
	{core.ErrUnknownMethod, CodeUnknownMethod},
	{core.ErrInvalidSetting, CodeInvalidSetting},
	{core.ErrInvalidPayload, CodeInvalidPayload},
}

// FromDomain converts any error into an AppError. An AppError already in the
// chain is returned as is; domain kinds get their own code and field.
func FromDomain(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	for _, dc := range domainCodes {
		if stderrors.Is(err, dc.kind) {
			return &AppError{
				Code:    dc.code,
				Message: err.Error(),
				Field:   core.FieldOf(err),
				Cause:   err,
			}
		}
	}
	return &AppError{Code: CodeInternalError, Message: err.Error(), Cause: err}
}

// HTTPStatus maps an error code to the response status for transports
func HTTPStatus(code string) int {
	switch code {
	case CodeUnknownMethod, CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidPayload, CodeInvalidInput, CodeInvalidSetting:
		return http.StatusBadRequest
	case CodeInternalError, CodeConfigInvalid:
		return http.StatusInternalServerError
	default:
		return http.StatusUnprocessableEntity
	}
}

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}
