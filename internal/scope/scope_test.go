package scope

import (
	"testing"

	"github.com/sunholo/neuronc/internal/intern"
	"github.com/sunholo/neuronc/internal/types"
)

func TestLookupShadowing(t *testing.T) {
	in := intern.New()
	x := in.Store("x")

	s := New()
	s.Insert(x, Binding{Type: types.I32, Global: true, Mutable: false})

	s.Push()
	s.Insert(x, Binding{Type: types.Bool, Global: false, Mutable: true})

	inner, ok := s.Lookup(x)
	if !ok || inner.Type != types.Bool {
		t.Fatalf("expected inner binding to shadow outer, got %+v", inner)
	}

	s.Pop()
	outer, ok := s.Lookup(x)
	if !ok || outer.Type != types.I32 {
		t.Fatalf("expected outer binding restored after pop, got %+v", outer)
	}
}

func TestLookupMissing(t *testing.T) {
	in := intern.New()
	missing := in.Store("nope")

	s := New()
	if _, ok := s.Lookup(missing); ok {
		t.Fatal("expected lookup of an unbound name to fail")
	}
}

func TestGlobalFrameSurvivesPops(t *testing.T) {
	in := intern.New()
	g := in.Store("g")

	s := New()
	s.Insert(g, Binding{Type: types.String, Global: true})

	s.Push()
	s.Push()
	if s.Depth() != 3 {
		t.Fatalf("expected depth 3, got %d", s.Depth())
	}
	s.Pop()
	s.Pop()
	if s.Depth() != 1 {
		t.Fatalf("expected depth 1 after popping back to global, got %d", s.Depth())
	}

	b, ok := s.Lookup(g)
	if !ok || b.Type != types.String {
		t.Fatalf("expected global binding to survive, got %+v", b)
	}
}
