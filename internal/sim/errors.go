package sim

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes simulation errors.
type ErrorCode string

const (
	// ErrCodeConfig indicates invalid run parameters.
	ErrCodeConfig ErrorCode = "CONFIG"

	// ErrCodePriorityList indicates the profile's priority list was rejected.
	ErrCodePriorityList ErrorCode = "PRIORITY_LIST"

	// ErrCodeTrial indicates a trial stopped on a pipeline error.
	ErrCodeTrial ErrorCode = "TRIAL"

	// ErrCodeCanceled indicates the run's context ended before every trial ran.
	ErrCodeCanceled ErrorCode = "CANCELED"
)

// Error is a simulation failure. Trial is -1 when no trial was running.
type Error struct {
	Code    ErrorCode
	Message string
	Trial   int
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Trial >= 0 {
		msg += fmt.Sprintf(" (trial=%d)", e.Trial)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// IsCode reports whether err is a *Error with code.
func IsCode(err error, code ErrorCode) bool {
	var se *Error
	return errors.As(err, &se) && se.Code == code
}

func configError(format string, args ...any) *Error {
	return &Error{Code: ErrCodeConfig, Message: fmt.Sprintf(format, args...), Trial: -1}
}
