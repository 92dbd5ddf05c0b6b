package pipeline

import (
	"errors"
	"fmt"
)

// DefaultMaxAttempts bounds the attempts one Execute may produce, the
// primary attempt included.
const DefaultMaxAttempts = 64

// Quota counts attempts within one execution.
//
// The spawn guard catches a trigger re-spawning the same action from the
// same parent. The quota catches long linear cascades the guard cannot see.
type Quota struct {
	max     int
	current int
}

// NewQuota creates a quota allowing max attempts.
func NewQuota(max int) *Quota {
	return &Quota{max: max}
}

// Check counts one attempt and fails once the limit is passed.
func (q *Quota) Check(action string) error {
	q.current++
	if q.current > q.max {
		return &StepsExceededError{Action: action, Steps: q.current, Limit: q.max}
	}
	return nil
}

// Reset zeroes the counter.
func (q *Quota) Reset() { q.current = 0 }

// Current returns the attempts counted so far.
func (q *Quota) Current() int { return q.current }

// Max returns the limit.
func (q *Quota) Max() int { return q.max }

// StepsExceededError is returned when one execution cascades past its
// attempt quota. It ends the trial.
type StepsExceededError struct {
	Action string // primary action of the execution
	Steps  int
	Limit  int
}

func (e *StepsExceededError) Error() string {
	return fmt.Sprintf("execution of %s exceeded attempt quota: %d attempts > %d limit",
		e.Action, e.Steps, e.Limit)
}

// RuntimeError returns the error type name used in reports.
func (e *StepsExceededError) RuntimeError() string {
	return "StepsExceededError"
}

// IsStepsExceededError reports whether err wraps a StepsExceededError.
func IsStepsExceededError(err error) bool {
	var se *StepsExceededError
	return errors.As(err, &se)
}
