package check

import (
	"testing"

	"github.com/sunholo/neuronc/internal/types"
)

func TestDiffTypesReportsNoDiffForEqualTypes(t *testing.T) {
	if diff := DiffTypes(types.I32, types.I32); diff != "" {
		t.Fatalf("expected no diff, got %q", diff)
	}
}

func TestDiffTypesReportsResolvedVar(t *testing.T) {
	v := &types.Var{ID: 1}
	diff := DiffTypes(v, types.I32)
	if diff == "" {
		t.Fatal("expected a non-empty diff between a var and its resolved type")
	}
}
