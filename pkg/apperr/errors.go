package apperr

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeConfig   Code = "CONFIG"
	CodeNoData   Code = "NO_DATA"
	CodeSource   Code = "SOURCE"
	CodeOutput   Code = "OUTPUT"
	CodeInternal Code = "INTERNAL"
)

// AppError carries a stable code next to the wrapped cause so the CLI can
// tell configuration mistakes apart from source and output failures.
type AppError struct {
	Code    Code
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func Wrap(err error, code Code, message string) *AppError {
	return &AppError{Code: code, Message: message, Cause: err}
}

func Config(message string) *AppError {
	return New(CodeConfig, message)
}

func ConfigWrap(err error, message string) *AppError {
	return Wrap(err, CodeConfig, message)
}

func NoData(message string) *AppError {
	return New(CodeNoData, message)
}

func SourceWrap(err error, message string) *AppError {
	return Wrap(err, CodeSource, message)
}

func OutputWrap(err error, message string) *AppError {
	return Wrap(err, CodeOutput, message)
}

// Is reports whether any AppError in err's chain has the given code.
func Is(err error, code Code) bool {
	for err != nil {
		var appErr *AppError
		if !errors.As(err, &appErr) {
			return false
		}
		if appErr.Code == code {
			return true
		}
		err = appErr.Cause
	}
	return false
}

// CodeOf returns the outermost code in err's chain, or CodeInternal.
func CodeOf(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}
