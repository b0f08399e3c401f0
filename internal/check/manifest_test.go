package check

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sunholo/neuronc/internal/intern"
	"github.com/sunholo/neuronc/internal/types"
)

func TestLoadBuiltinsWithoutManifestReturnsDefaults(t *testing.T) {
	in := intern.New()
	table, err := LoadBuiltins("", in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := table.Ground("i32"); !ok {
		t.Fatal("expected default ground types to still be present")
	}
}

func TestLoadBuiltinsMissingFileReturnsDefaults(t *testing.T) {
	in := intern.New()
	table, err := LoadBuiltins(filepath.Join(t.TempDir(), "does-not-exist.yaml"), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := table.Ground("i32"); !ok {
		t.Fatal("expected default ground types to still be present")
	}
}

func TestLoadBuiltinsLayersManifestIntrinsicAndAlias(t *testing.T) {
	const manifestYAML = `
ground_aliases:
  - alias: int
    target: i32
intrinsics:
  - name: double_i32
    params: [i32]
    return: i32
`
	path := filepath.Join(t.TempDir(), "builtins.yaml")
	if err := os.WriteFile(path, []byte(manifestYAML), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	in := intern.New()
	table, err := LoadBuiltins(path, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	aliased, ok := table.Ground("int")
	if !ok || !types.Equal(aliased, types.I32) {
		t.Fatalf("expected alias int -> i32, got %v ok=%v", aliased, ok)
	}

	sig, ok := table.Intrinsic(in.Store("double_i32"))
	if !ok {
		t.Fatal("expected double_i32 intrinsic to be registered")
	}
	if len(sig.Params) != 1 || !types.Equal(sig.Params[0], types.I32) || !types.Equal(sig.Return, types.I32) {
		t.Fatalf("unexpected intrinsic signature: %+v", sig)
	}
}

func TestLoadBuiltinsRejectsUnknownGroundType(t *testing.T) {
	const manifestYAML = `
intrinsics:
  - name: bogus
    params: [nope]
    return: i32
`
	path := filepath.Join(t.TempDir(), "builtins.yaml")
	if err := os.WriteFile(path, []byte(manifestYAML), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	in := intern.New()
	if _, err := LoadBuiltins(path, in); err == nil {
		t.Fatal("expected an error for an unknown param ground type")
	}
}
