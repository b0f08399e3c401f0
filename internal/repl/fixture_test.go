package repl

import (
	"os"
	"testing"

	"github.com/sunholo/neuronc/internal/intern"
	"github.com/sunholo/neuronc/internal/types"
)

// TestFixturesReproduceSpecScenarios drives two of the end-to-end
// scenarios of spec §8 (identity with default numeric typing, and branch
// unifying arms) through the YAML fixture path (the only input shape this
// module exposes, since the parser itself is out of scope) instead of
// building ast nodes by hand, exercising DecodeExpr and module.Module
// together.
func TestFixturesReproduceSpecScenarios(t *testing.T) {
	cases := []struct {
		file string
		want types.Mono
	}{
		{"testdata/identity_default_numeric.yaml", types.I32},
		{"testdata/branch_unifies_arms.yaml", types.I32},
	}

	for _, tc := range cases {
		t.Run(tc.file, func(t *testing.T) {
			data, err := os.ReadFile(tc.file)
			if err != nil {
				t.Fatalf("read fixture: %v", err)
			}
			in := intern.New()
			res, mod, err := CheckFixture(data, in)
			if err != nil {
				t.Fatalf("check fixture: %v", err)
			}
			if len(res.Errors) != 0 {
				t.Fatalf("unexpected errors: %v", res.Errors)
			}
			start := in.Store("start")
			node, ok := mod.Typechecked()[start]
			if !ok {
				t.Fatal("expected start to be typed")
			}
			got := res.Substitution.Apply(node.MonoType())
			fn, ok := got.(*types.Function)
			if !ok {
				t.Fatalf("expected a function type, got %s", got)
			}
			if !types.Equal(fn.Return, tc.want) {
				t.Fatalf("expected return type %s, got %s", tc.want, fn.Return)
			}
		})
	}
}

func TestFixtureMutableAccumulation(t *testing.T) {
	data, err := os.ReadFile("testdata/mutable_accumulation.yaml")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	in := intern.New()
	res, mod, err := CheckFixture(data, in)
	if err != nil {
		t.Fatalf("check fixture: %v", err)
	}
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	start := in.Store("start")
	node := mod.Typechecked()[start]
	got := res.Substitution.Apply(node.MonoType())
	fn, ok := got.(*types.Function)
	if !ok || !types.Equal(fn.Return, types.I32) {
		t.Fatalf("expected fn() i32, got %s", got)
	}
}
