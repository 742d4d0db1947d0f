// Package grader defines the pluggable grading capability: given submitted
// code and a question's test fixture, produce a boolean verdict. Strategies
// range from a substring heuristic to a remote execution sandbox; the
// submission ledger only ever sees this interface.
package grader

import (
	"context"
	"errors"
)

// ErrUnavailable means the grading backend could not produce a verdict.
// A submission failing with this error must not be recorded; the caller
// surfaces a transient error and the client retries.
var ErrUnavailable = errors.New("grader unavailable")

// Grader produces a correctness verdict for submitted code.
type Grader interface {
	Grade(ctx context.Context, code, testInput, expectedOutput string) (bool, error)
}
