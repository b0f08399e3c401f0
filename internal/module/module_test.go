package module

import (
	"fmt"
	"testing"

	"github.com/sunholo/neuronc/internal/ast"
	"github.com/sunholo/neuronc/internal/compileerrs"
	"github.com/sunholo/neuronc/internal/intern"
	"github.com/sunholo/neuronc/internal/typedast"
	"github.com/sunholo/neuronc/internal/types"
)

// TestRunImplicitStartExport covers spec §4.7: "if no exports are
// declared externally, the driver treats a name start as the implicit
// export."
func TestRunImplicitStartExport(t *testing.T) {
	in := intern.New()
	m := New(in)
	start := in.Store("start")
	m.Define(start, &ast.Function{ReturnType: "i32", Body: &ast.Int{Text: in.Store("7")}})

	res := m.Run(start)
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}

	fn, ok := m.Typechecked()[start]
	if !ok {
		t.Fatal("expected start to be typed")
	}
	if !types.Equal(fn.MonoType(), &types.Function{Params: nil, Return: types.I32}) {
		t.Fatalf("got %s", fn.MonoType())
	}
}

// TestRunHonorsDeclaredExports confirms only declared exports (and their
// transitive dependencies) are driven, not every defined name.
func TestRunHonorsDeclaredExports(t *testing.T) {
	in := intern.New()
	m := New(in)
	main := in.Store("main")
	unused := in.Store("unused")
	m.Define(main, &ast.Function{ReturnType: "bool", Body: &ast.Bool{Value: true}})
	m.Define(unused, &ast.Function{ReturnType: "i32", Body: &ast.Int{Text: in.Store("1")}})
	m.Export(main)

	res := m.Run(main)
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if _, ok := m.Typechecked()[unused]; ok {
		t.Fatal("expected undeclared export to be left untyped")
	}
}

// TestRunReportsRecursiveValueAndContinues confirms the driver keeps
// going past a failed export and still types the rest (spec §7: "the
// driver continues with the next export").
func TestRunReportsRecursiveValueAndContinues(t *testing.T) {
	in := intern.New()
	m := New(in)
	a := in.Store("a")
	b := in.Store("b")
	ok := in.Store("ok")
	m.Define(a, &ast.Symbol{Name: b})
	m.Define(b, &ast.Symbol{Name: a})
	m.Define(ok, &ast.Function{ReturnType: "i32", Body: &ast.Int{Text: in.Store("3")}})
	m.Export(a)
	m.Export(ok)

	res := m.Run(ok)
	foundRecursive := false
	for _, err := range res.Errors {
		if _, is := err.(*compileerrs.RecursiveValue); is {
			foundRecursive = true
		}
	}
	if !foundRecursive {
		t.Fatalf("expected a RecursiveValue error, got %v", res.Errors)
	}
	if _, typed := m.Typechecked()[ok]; !typed {
		t.Fatal("expected the later export to still be typed despite the earlier failure")
	}

	for _, enc := range m.EncodeErrors() {
		if enc.SID != m.JobID.String() {
			t.Fatalf("expected every encoded error to carry this job's SID, got %q", enc.SID)
		}
	}
}

// TestRunAppliesSubstitutionLeavingNoFreeVars confirms spec §6: "the same
// typed map with every node carrying a concrete MonoType (no free
// type_var survives)".
func TestRunAppliesSubstitutionLeavingNoFreeVars(t *testing.T) {
	in := intern.New()
	m := New(in)
	start := in.Store("start")
	m.Define(start, &ast.Function{ReturnType: "i32", Body: &ast.Int{Text: in.Store("9")}})

	res := m.Run(start)
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	node := m.Typechecked()[start]
	if !types.Equal(node.MonoType(), &types.Function{Params: nil, Return: types.I32}) {
		t.Fatalf("expected the function's type to resolve to fn() i32, got %s", node.MonoType())
	}
	lit := node.(*typedast.Function).Body
	if _, stillVar := lit.MonoType().(*types.Var); stillVar {
		t.Fatalf("expected substitution to resolve the literal's type variable, got %s", lit.MonoType())
	}
}

// TestRunFlagsUnusedForeignImportButNotACalledOne covers spec §9's
// supplemented UnusedForeignImport diagnostic end to end: a declared
// import that is never called is flagged, one that is called is not.
func TestRunFlagsUnusedForeignImportButNotACalledOne(t *testing.T) {
	in := intern.New()
	m := New(in)
	mod := in.Store("math")
	unusedFn := in.Store("unused_fn")
	usedFn := in.Store("used_fn")
	unused := in.Store("unused")
	used := in.Store("used")
	main := in.Store("main")

	m.Define(unused, &ast.ForeignImport{Module: mod, Name: unusedFn})
	m.Define(used, &ast.ForeignImport{Module: mod, Name: usedFn})
	m.Define(main, &ast.Call{Func: &ast.Symbol{Name: used}, Args: nil})
	m.Export(unused)
	m.Export(main)

	res := m.Run(main)

	var unusedWarnings []*compileerrs.UnusedForeignImport
	for _, err := range res.Errors {
		if uf, ok := err.(*compileerrs.UnusedForeignImport); ok {
			unusedWarnings = append(unusedWarnings, uf)
		}
	}
	if len(unusedWarnings) != 1 {
		t.Fatalf("expected exactly one UnusedForeignImport, got %v", res.Errors)
	}
	wantName := in.Lookup(mod) + "." + in.Lookup(unusedFn)
	if unusedWarnings[0].Name != wantName {
		t.Fatalf("got unused import %q, want %q", unusedWarnings[0].Name, wantName)
	}
}

// TestRunUsesCacheToSkipReinference proves a cache hit actually changes
// Run's behavior rather than merely being logged: the definition
// references an undefined symbol, which would fail if checker.Infer ran
// for real, but a seeded cache entry short-circuits inference entirely.
func TestRunUsesCacheToSkipReinference(t *testing.T) {
	in := intern.New()
	cache, err := OpenCache(":memory:")
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	defer cache.Close()

	m := New(in)
	m.Cache = cache
	start := in.Store("start")
	m.Define(start, &ast.Symbol{Name: in.Store("nowhere_to_be_found")})

	hash := treeHash(m.untyped[start])
	if err := cache.Store(fmt.Sprint(start), hash, "i32"); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	res := m.Run(start)
	if len(res.Errors) != 0 {
		t.Fatalf("expected cache hit to skip inference entirely, got errors: %v", res.Errors)
	}
	node, ok := m.Typechecked()[start]
	if !ok {
		t.Fatal("expected start to be typed from the cache")
	}
	if !types.Equal(node.MonoType(), types.I32) {
		t.Fatalf("got %s, want i32", node.MonoType())
	}
}

func TestCacheRoundTrip(t *testing.T) {
	cache, err := OpenCache(":memory:")
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	defer cache.Close()

	if err := cache.Store("start", "deadbeef", "i32"); err != nil {
		t.Fatalf("store: %v", err)
	}
	mono, hit := cache.Lookup("start", "deadbeef")
	if !hit || mono != "i32" {
		t.Fatalf("expected cache hit of i32, got %q hit=%v", mono, hit)
	}
	if _, hit := cache.Lookup("start", "other"); hit {
		t.Fatal("expected miss on a different tree hash")
	}
}
