package builtins

import (
	"testing"

	"github.com/sunholo/neuronc/internal/intern"
)

func TestKeywordClassification(t *testing.T) {
	in := intern.New()
	table := New(in)

	fnAgain := in.Store("fn")
	if text, ok := table.IsKeyword(fnAgain); !ok || text != "fn" {
		t.Fatalf("expected fn to classify as a keyword, got %q, %t", text, ok)
	}

	notKeyword := in.Store("foobar")
	if _, ok := table.IsKeyword(notKeyword); ok {
		t.Fatal("expected foobar to not classify as a keyword")
	}
}

func TestIntrinsicLookup(t *testing.T) {
	in := intern.New()
	table := New(in)

	name := in.Store("convert_i32_to_f64")
	sig, ok := table.Intrinsic(name)
	if !ok {
		t.Fatal("expected convert_i32_to_f64 to be registered")
	}
	if len(sig.Params) != 1 || sig.Return.String() != "f64" {
		t.Fatalf("unexpected signature: %+v", sig)
	}
}

func TestGroundTypeLookup(t *testing.T) {
	in := intern.New()
	table := New(in)

	if g, ok := table.Ground("i32"); !ok || g.String() != "i32" {
		t.Fatalf("expected i32 ground type, got %v, %t", g, ok)
	}
	if _, ok := table.Ground("nope"); ok {
		t.Fatal("expected lookup of unknown ground type name to fail")
	}
}
