// Package types implements the monotype algebra, the constraint store, and
// the unification-based solver that backs the compiler's Hindley-Milner
// style inference (spec §3, §4.3, §4.6). There is no generalization to
// polytypes in this language: every MonoType is concrete or a single
// unresolved inference variable.
package types

import (
	"fmt"
	"strings"
)

// Mono is a monotype: a ground type, an unresolved TypeVar, a function
// type, or the opaque "module" handle type. It mirrors the teacher's Type
// interface but carries no Substitute method of its own - substitution is
// the solver's job (see Substitution.Apply), not the type's.
type Mono interface {
	fmt.Stringer
	isMono()
}

// Ground is a concrete, substitution-invariant type.
type Ground struct {
	Name string
}

func (*Ground) isMono()          {}
func (g *Ground) String() string { return g.Name }

// The seven ground types named in spec §3. Void is only valid as a
// function return type (spec invariant); nothing enforces that here, it
// is the inference engine's job never to produce a parameter of type Void.
var (
	Void   = &Ground{Name: "void"}
	Bool   = &Ground{Name: "bool"}
	I32    = &Ground{Name: "i32"}
	I64    = &Ground{Name: "i64"}
	F32    = &Ground{Name: "f32"}
	F64    = &Ground{Name: "f64"}
	String = &Ground{Name: "string"}
)

// TypeVar is an unresolved inference variable's identity, minted
// monotonically by a Constraints store (spec §3, §4.3).
type TypeVar uint64

// Var wraps a TypeVar so it satisfies Mono.
type Var struct {
	ID TypeVar
}

func (*Var) isMono()          {}
func (v *Var) String() string { return fmt.Sprintf("t%d", v.ID) }

// Function is a function type; zero parameters is permitted and parameter
// order is significant (spec §3 invariants).
type Function struct {
	Params []Mono
	Return Mono
}

func (*Function) isMono() {}
func (f *Function) String() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.String()
	}
	return fmt.Sprintf("fn(%s) %s", strings.Join(params, ", "), f.Return)
}

// Imported is the type of a foreign-imported module handle (spec §3,
// "module"). Go's zero-sized struct is the natural match for a type tag
// with no payload.
type Imported struct{}

func (*Imported) isMono()          {}
func (*Imported) String() string   { return "module" }

// ModuleType is the single shared instance of Imported; the type carries
// no data so there is never a reason to allocate more than one.
var ModuleType Mono = &Imported{}

// ParseMono parses the textual form produced by Mono.String back into a
// concrete Mono value. Only ground-type names, "module", and fully
// resolved function types round-trip; a TypeVar's "tN" form is rejected,
// since the only caller (the on-disk inference cache) ever stores types
// after the solver's substitution has already been applied.
func ParseMono(s string) (Mono, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "module":
		return ModuleType, nil
	case "void":
		return Void, nil
	case "bool":
		return Bool, nil
	case "i32":
		return I32, nil
	case "i64":
		return I64, nil
	case "f32":
		return F32, nil
	case "f64":
		return F64, nil
	case "string":
		return String, nil
	}
	if strings.HasPrefix(s, "fn(") {
		return parseFunction(s)
	}
	return nil, fmt.Errorf("parse mono: unrecognized type %q", s)
}

// parseFunction parses the "fn(p1, p2) ret" form Function.String produces,
// tracking paren depth so a nested function parameter's own parens and
// commas don't get mistaken for the outer parameter list's.
func parseFunction(s string) (Mono, error) {
	rest := s[len("fn("):]
	depth := 1
	i := 0
	for ; i < len(rest); i++ {
		switch rest[i] {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth == 0 {
			break
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("parse mono %q: unbalanced parens", s)
	}
	paramsPart := rest[:i]
	retPart := strings.TrimSpace(rest[i+1:])

	paramStrs, err := splitTopLevel(paramsPart)
	if err != nil {
		return nil, fmt.Errorf("parse mono %q: %w", s, err)
	}
	params := make([]Mono, len(paramStrs))
	for idx, p := range paramStrs {
		pt, err := ParseMono(p)
		if err != nil {
			return nil, err
		}
		params[idx] = pt
	}
	ret, err := ParseMono(retPart)
	if err != nil {
		return nil, err
	}
	return &Function{Params: params, Return: ret}, nil
}

// splitTopLevel splits a comma-joined parameter list at paren depth 0, so
// a nested function type's own internal commas stay with it.
func splitTopLevel(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced parens in %q", s)
			}
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	parts = append(parts, strings.TrimSpace(s[start:]))
	return parts, nil
}

// Equal reports structural equality without following a substitution.
// Unify is the only place that needs substitution-aware comparison; this
// is used by callers (tests, the defaulting pass) that already hold
// fully-resolved types.
func Equal(a, b Mono) bool {
	switch at := a.(type) {
	case *Ground:
		bt, ok := b.(*Ground)
		return ok && at.Name == bt.Name
	case *Var:
		bt, ok := b.(*Var)
		return ok && at.ID == bt.ID
	case *Function:
		bt, ok := b.(*Function)
		if !ok || len(at.Params) != len(bt.Params) {
			return false
		}
		for i := range at.Params {
			if !Equal(at.Params[i], bt.Params[i]) {
				return false
			}
		}
		return Equal(at.Return, bt.Return)
	case *Imported:
		_, ok := b.(*Imported)
		return ok
	default:
		return false
	}
}
