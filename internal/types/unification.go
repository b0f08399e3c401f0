package types

import (
	"fmt"

	"github.com/sunholo/neuronc/internal/source"
)

// Substitution maps TypeVar to Mono. It is monotonic (spec §3): once a
// variable is bound it never changes. The final substitution a consumer
// sees must be idempotent - Apply already follows chains to a fixed
// point, so applying it twice is a no-op by construction.
type Substitution map[TypeVar]Mono

// Apply resolves t through the substitution, recursively, until no
// type_var in the result is a key of sub.
func (sub Substitution) Apply(t Mono) Mono {
	switch v := t.(type) {
	case *Var:
		if bound, ok := sub[v.ID]; ok {
			return sub.Apply(bound)
		}
		return v
	case *Function:
		params := make([]Mono, len(v.Params))
		for i, p := range v.Params {
			params[i] = sub.Apply(p)
		}
		return &Function{Params: params, Return: sub.Apply(v.Return)}
	default:
		// Ground and Imported carry no variables to resolve.
		return t
	}
}

// TypeMismatch is raised when unification meets two disagreeing ground
// types, or a ground or module type vs. a function. Two functions with
// different parameter counts raise ArityMismatch instead.
type TypeMismatch struct {
	Expected, Found Mono
	Sp              source.Span
}

func (e *TypeMismatch) Error() string {
	return fmt.Sprintf("%s: type mismatch: expected %s, found %s", e.Sp, e.Expected, e.Found)
}
func (e *TypeMismatch) Code() string           { return "TC003" }
func (e *TypeMismatch) ErrSpan() source.Span   { return e.Sp }

// ArityMismatch is raised when two function types disagree on parameter
// count.
type ArityMismatch struct {
	Expected, Found int
	Sp              source.Span
}

func (e *ArityMismatch) Error() string {
	return fmt.Sprintf("%s: arity mismatch: expected %d argument(s), found %d", e.Sp, e.Expected, e.Found)
}
func (e *ArityMismatch) Code() string         { return "TC004" }
func (e *ArityMismatch) ErrSpan() source.Span { return e.Sp }

// InfiniteType is the occurs-check failure: binding Var to Type would
// create a cyclic type.
type InfiniteType struct {
	Var  TypeVar
	Type Mono
	Sp   source.Span
}

func (e *InfiniteType) Error() string {
	return fmt.Sprintf("%s: infinite type: t%d occurs in %s", e.Sp, e.Var, e.Type)
}
func (e *InfiniteType) Code() string         { return "TC005" }
func (e *InfiniteType) ErrSpan() source.Span { return e.Sp }

// Solver resolves a Constraints sequence into a Substitution (spec §4.6).
// It is used once per module, after every requested export has been
// inferred.
type Solver struct {
	sub Substitution
}

// NewSolver returns a Solver with an empty substitution.
func NewSolver() *Solver {
	return &Solver{sub: Substitution{}}
}

// Solve processes every equality in insertion order. Per spec §7 the
// solver never aborts: each failure is appended to errs and the solver
// proceeds to the next constraint with whatever bindings it already
// made. The returned Substitution is not yet defaulted; call Default
// separately.
func (s *Solver) Solve(cs *Constraints, errs *[]error) Substitution {
	for _, eq := range cs.Equalities() {
		if err := s.unify(eq.Left, eq.Right, eq.Span); err != nil {
			*errs = append(*errs, err)
		}
	}
	return s.sub
}

func (s *Solver) unify(a, b Mono, span source.Span) error {
	a = s.sub.Apply(a)
	b = s.sub.Apply(b)

	if av, ok := a.(*Var); ok {
		if bv, ok := b.(*Var); ok && av.ID == bv.ID {
			return nil
		}
		if s.occurs(av.ID, b) {
			return &InfiniteType{Var: av.ID, Type: b, Sp: span}
		}
		s.sub[av.ID] = b
		return nil
	}
	if bv, ok := b.(*Var); ok {
		if s.occurs(bv.ID, a) {
			return &InfiniteType{Var: bv.ID, Type: a, Sp: span}
		}
		s.sub[bv.ID] = a
		return nil
	}

	switch at := a.(type) {
	case *Ground:
		if bt, ok := b.(*Ground); ok && at.Name == bt.Name {
			return nil
		}
		return &TypeMismatch{Expected: a, Found: b, Sp: span}
	case *Imported:
		if _, ok := b.(*Imported); ok {
			return nil
		}
		return &TypeMismatch{Expected: a, Found: b, Sp: span}
	case *Function:
		bt, ok := b.(*Function)
		if !ok {
			return &TypeMismatch{Expected: a, Found: b, Sp: span}
		}
		if len(at.Params) != len(bt.Params) {
			return &ArityMismatch{Expected: len(at.Params), Found: len(bt.Params), Sp: span}
		}
		for i := range at.Params {
			if err := s.unify(at.Params[i], bt.Params[i], span); err != nil {
				return err
			}
		}
		return s.unify(at.Return, bt.Return, span)
	default:
		return &TypeMismatch{Expected: a, Found: b, Sp: span}
	}
}

// occurs follows the current substitution while checking containment, so
// it catches cycles hidden behind an already-bound variable.
func (s *Solver) occurs(v TypeVar, t Mono) bool {
	t = s.sub.Apply(t)
	switch tt := t.(type) {
	case *Var:
		return tt.ID == v
	case *Function:
		for _, p := range tt.Params {
			if s.occurs(v, p) {
				return true
			}
		}
		return s.occurs(v, tt.Return)
	default:
		return false
	}
}

// Default implements the numeric-literal defaulting pass (spec §4.6): any
// TypeVar minted with OriginInt or OriginFloat that is still free after
// solving is bound to i32 or f64, respectively, processed in the order
// the variables were minted. A variable whose representative (after
// following the substitution) is already bound is left untouched, so the
// earliest literal in program order wins when two origins are unified
// together.
func (s *Solver) Default(cs *Constraints) Substitution {
	for _, v := range cs.originOrder {
		resolved := s.sub.Apply(&Var{ID: v})
		rv, stillFree := resolved.(*Var)
		if !stillFree {
			continue
		}
		switch cs.origin[v] {
		case OriginInt:
			s.sub[rv.ID] = I32
		case OriginFloat:
			s.sub[rv.ID] = F64
		}
	}
	return s.sub
}
