package grader

import (
	"context"
	"strings"
)

// SubstringGrader is the trivial in-process strategy: the submission passes
// when the code contains the question's expected output verbatim. Good
// enough for demos and as the default when no sandbox is configured.
type SubstringGrader struct{}

// NewSubstringGrader creates a SubstringGrader.
func NewSubstringGrader() *SubstringGrader {
	return &SubstringGrader{}
}

// Grade never fails; a missing answer key simply grades as incorrect.
func (g *SubstringGrader) Grade(_ context.Context, code, _, expectedOutput string) (bool, error) {
	expected := strings.TrimSpace(expectedOutput)
	if expected == "" {
		return false, nil
	}
	return strings.Contains(code, expected), nil
}
