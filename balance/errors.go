package balance

import (
	"fmt"
	"strings"
)

// ValidationError reports every rule an input balance sheet or scenario
// violates, not just the first. It always means bad user input; a run
// never starts while one is outstanding.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// Add appends a formatted violation.
func (e *ValidationError) Add(format string, args ...any) {
	e.Violations = append(e.Violations, fmt.Sprintf(format, args...))
}

// OrNil returns the error if any violation was recorded, else nil.
func (e *ValidationError) OrNil() error {
	if len(e.Violations) == 0 {
		return nil
	}
	return e
}

// InternalError signals an engine defect: a working balance sheet reached
// a state the simulation rules should make impossible (negative category
// balance, identity broken mid-period). It is never caused by user input
// and must abort the run.
type InternalError struct {
	Op     string
	Detail string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal invariant violated in %s: %s", e.Op, e.Detail)
}
