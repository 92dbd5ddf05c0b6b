package pipeline

import (
	"errors"
	"fmt"
)

// ErrUnknownAction is wrapped by every error about an action name that is
// not registered.
var ErrUnknownAction = errors.New("unknown action")

// RuntimeError is a configuration problem detected while executing.
// It aborts the trial.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Action is the action being executed.
	Action string

	// Trigger names the trigger that spawned the failing attempt, if any.
	Trigger string

	// Err is the underlying sentinel.
	Err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeUnknownAction indicates a name with no registered action.
	ErrCodeUnknownAction RuntimeErrorCode = "UNKNOWN_ACTION"

	// ErrCodeQuotaExceeded indicates an execution produced too many attempts.
	ErrCodeQuotaExceeded RuntimeErrorCode = "QUOTA_EXCEEDED"
)

func (e *RuntimeError) Error() string {
	if e.Action != "" && e.Trigger != "" {
		return fmt.Sprintf("%s: %s (action=%s, trigger=%s)", e.Code, e.Message, e.Action, e.Trigger)
	}
	if e.Action != "" {
		return fmt.Sprintf("%s: %s (action=%s)", e.Code, e.Message, e.Action)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *RuntimeError) Unwrap() error { return e.Err }

func unknownAction(name, trigger string) error {
	return &RuntimeError{
		Code:    ErrCodeUnknownAction,
		Message: fmt.Sprintf("no action named %q", name),
		Action:  name,
		Trigger: trigger,
		Err:     ErrUnknownAction,
	}
}

// IsQuotaError reports whether err is a quota violation, either as a
// RuntimeError or a StepsExceededError.
func IsQuotaError(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeQuotaExceeded
	}
	var se *StepsExceededError
	return errors.As(err, &se)
}
