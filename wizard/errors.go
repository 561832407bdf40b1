package wizard

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNoOwnLand blocks step 2 for visitors without land.
	ErrNoOwnLand          = errors.New("wizard: cultivation requires your own land")
	ErrHardStop           = errors.New("wizard: flat land with standing water is not suitable")
	ErrFinalized          = errors.New("wizard: results already reached")
	ErrSubmissionInFlight = errors.New("wizard: submission in progress")
	ErrInvalidStep        = errors.New("wizard: invalid step")
	ErrUnknownField       = errors.New("wizard: unknown field")

	// ErrFieldNotOnStep rejects edits to fields the current step does not collect.
	ErrFieldNotOnStep = errors.New("wizard: field is not on the current step")
)

// ValidationError carries the per-field messages that blocked a step.
type ValidationError struct {
	Step   Step
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		keys = append(keys, string(f))
	}
	sort.Strings(keys)
	return fmt.Sprintf("wizard: step %s incomplete: %s", e.Step, strings.Join(keys, ", "))
}

// SubmitError wraps a failed save so callers can offer a retry.
type SubmitError struct {
	Err error
}

func (e *SubmitError) Error() string { return "wizard: submission failed: " + e.Err.Error() }

func (e *SubmitError) Unwrap() error { return e.Err }
