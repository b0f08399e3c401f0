// Package builtins is the shared table the lexer and the checker both
// depend on (spec §6): keyword handles for classifying symbols during
// tokenization, and intrinsic signatures plus ground-type names for the
// inference engine. A single package avoids a lexer-to-checker import
// cycle and guarantees both sides agree on handle identity.
package builtins

import (
	"github.com/sunholo/neuronc/internal/intern"
	"github.com/sunholo/neuronc/internal/types"
)

// Keywords are the reserved words the tokenizer classifies a symbol scan
// against (spec §4.2).
type Keywords struct {
	Fn    intern.Handle
	If    intern.Handle
	Else  intern.Handle
	True  intern.Handle
	False intern.Handle
	Or    intern.Handle
}

// Intrinsic is a compiler-known primitive's signature, looked up by name
// during inference (spec §4.5).
type Intrinsic struct {
	Name    string
	Params  []types.Mono
	Return  types.Mono
}

// Table bundles the keyword handles with the intrinsic and ground-type
// lookups, all minted from one shared interner (spec §6).
type Table struct {
	Interner   *intern.Interner
	Keywords   Keywords
	intrinsics map[intern.Handle]Intrinsic
	ground     map[string]types.Mono
}

// New builds a Table backed by in, interning every keyword and intrinsic
// name up front so the lexer and checker see identical handles.
func New(in *intern.Interner) *Table {
	t := &Table{
		Interner: in,
		Keywords: Keywords{
			Fn:    in.Store("fn"),
			If:    in.Store("if"),
			Else:  in.Store("else"),
			True:  in.Store("true"),
			False: in.Store("false"),
			Or:    in.Store("or"),
		},
		intrinsics: make(map[intern.Handle]Intrinsic),
		ground: map[string]types.Mono{
			"i32":    types.I32,
			"i64":    types.I64,
			"f32":    types.F32,
			"f64":    types.F64,
			"bool":   types.Bool,
			"string": types.String,
			"void":   types.Void,
		},
	}
	t.registerIntrinsics(in)
	return t
}

// registerIntrinsics installs the primitives the WebAssembly backend
// needs exposed as callable names: numeric conversions between the four
// numeric ground types, plus open_module, the one use site of the
// `module` monotype (spec §3).
func (t *Table) registerIntrinsics(in *intern.Interner) {
	numeric := []types.Mono{types.I32, types.I64, types.F32, types.F64}
	for _, from := range numeric {
		for _, to := range numeric {
			if from == to {
				continue
			}
			name := "convert_" + from.String() + "_to_" + to.String()
			t.intrinsics[in.Store(name)] = Intrinsic{
				Name:   name,
				Params: []types.Mono{from},
				Return: to,
			}
		}
	}
	t.intrinsics[in.Store("open_module")] = Intrinsic{
		Name:   "open_module",
		Params: []types.Mono{types.String},
		Return: types.ModuleType,
	}
}

// Intrinsic looks up a handle's registered signature.
func (t *Table) Intrinsic(name intern.Handle) (Intrinsic, bool) {
	sig, ok := t.intrinsics[name]
	return sig, ok
}

// Ground resolves a syntactic ground-type name (as written in a function
// return-type annotation) to its monotype.
func (t *Table) Ground(name string) (types.Mono, bool) {
	g, ok := t.ground[name]
	return g, ok
}

// AddGroundAlias registers an additional name for an existing ground
// monotype (e.g. a manifest-driven rename), without disturbing the
// built-in names.
func (t *Table) AddGroundAlias(alias string, target types.Mono) {
	t.ground[alias] = target
}

// AddIntrinsic registers (or overrides) an intrinsic's signature under
// name, interning it against in so the handle a manifest-loaded table
// produces matches what the lexer/checker would see for the same text.
func (t *Table) AddIntrinsic(in *intern.Interner, name string, sig Intrinsic) {
	t.intrinsics[in.Store(name)] = sig
}

// IsKeyword classifies a handle against the fixed keyword set, returning
// the keyword text when it matches one (spec §4.2's symbol-scan
// classification step).
func (t *Table) IsKeyword(h intern.Handle) (string, bool) {
	switch h {
	case t.Keywords.Fn:
		return "fn", true
	case t.Keywords.If:
		return "if", true
	case t.Keywords.Else:
		return "else", true
	case t.Keywords.True:
		return "true", true
	case t.Keywords.False:
		return "false", true
	case t.Keywords.Or:
		return "or", true
	default:
		return "", false
	}
}
