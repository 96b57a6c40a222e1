package simp

import (
	"errors"
	"fmt"
)

var (
	// ErrStepLimitExceeded is matched by every StepLimitError.
	ErrStepLimitExceeded = errors.New("dsimplify failed, maximum number of steps exceeded")

	// ErrCancelled is returned when the context of a simplification is done.
	// The context's own error is wrapped alongside it.
	ErrCancelled = errors.New("dsimplify cancelled")
)

// StepLimitError reports that a simplification ran past its step ceiling.
// It usually means the rule set does not terminate.
type StepLimitError struct {
	MaxSteps int
}

func (e *StepLimitError) Error() string {
	return fmt.Sprintf("%s (max_steps = %d)", ErrStepLimitExceeded, e.MaxSteps)
}

func (e *StepLimitError) Is(target error) bool {
	return target == ErrStepLimitExceeded
}

func NewStepLimitError(maxSteps int) *StepLimitError {
	return &StepLimitError{MaxSteps: maxSteps}
}

// InvariantError is the panic value used when the simplifier meets input it
// can never legitimately see, such as a loose bound variable.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return "dsimplify invariant violated: " + e.Msg
}

func cancelled(cause error) error {
	return fmt.Errorf("%w: %w", ErrCancelled, cause)
}
