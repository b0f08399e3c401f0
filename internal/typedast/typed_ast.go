// Package typedast mirrors internal/ast one-to-one but adds the MonoType
// every node carries once inference has run, plus the resolved `global`
// marker on bound names (spec §3, "Typed expression tree"). Every typed
// node embeds TypedExpr so the checker can set Type in one place.
package typedast

import (
	"fmt"
	"strings"

	"github.com/sunholo/neuronc/internal/ast"
	"github.com/sunholo/neuronc/internal/intern"
	"github.com/sunholo/neuronc/internal/source"
	"github.com/sunholo/neuronc/internal/types"
)

// TypedExpr is embedded by every variant below; it carries the fields
// common to all of them.
type TypedExpr struct {
	Sp   source.Span
	Type types.Mono
}

func (e TypedExpr) Span() source.Span { return e.Sp }

// TypedNode is satisfied by every typed variant.
type TypedNode interface {
	fmt.Stringer
	Span() source.Span
	MonoType() types.Mono
}

type Int struct {
	TypedExpr
	Text intern.Handle
}

func (n *Int) MonoType() types.Mono { return n.Type }
func (n *Int) String() string       { return fmt.Sprintf("int(%d): %s", n.Text, n.Type) }

type Float struct {
	TypedExpr
	Text intern.Handle
}

func (n *Float) MonoType() types.Mono { return n.Type }
func (n *Float) String() string       { return fmt.Sprintf("float(%d): %s", n.Text, n.Type) }

type Bool struct {
	TypedExpr
	Value bool
}

func (n *Bool) MonoType() types.Mono { return n.Type }
func (n *Bool) String() string       { return fmt.Sprintf("%t: %s", n.Value, n.Type) }

type String struct {
	TypedExpr
	Text intern.Handle
}

func (n *String) MonoType() types.Mono { return n.Type }
func (n *String) String() string       { return fmt.Sprintf("string(%d): %s", n.Text, n.Type) }

// Symbol resolves a name reference; Global reports whether the binding
// lives in the module's global scope (spec §3).
type Symbol struct {
	TypedExpr
	Name   intern.Handle
	Global bool
}

func (n *Symbol) MonoType() types.Mono { return n.Type }
func (n *Symbol) String() string {
	return fmt.Sprintf("symbol(%d, global=%t): %s", n.Name, n.Global, n.Type)
}

type Define struct {
	TypedExpr
	Name    intern.Handle
	Value   TypedNode
	Mutable bool
}

func (n *Define) MonoType() types.Mono { return n.Type }
func (n *Define) String() string {
	return fmt.Sprintf("define(%d = %s): %s", n.Name, n.Value, n.Type)
}

type Drop struct {
	TypedExpr
	Value TypedNode
}

func (n *Drop) MonoType() types.Mono { return n.Type }
func (n *Drop) String() string       { return fmt.Sprintf("drop(%s): %s", n.Value, n.Type) }

type PlusEqual struct {
	TypedExpr
	Name  intern.Handle
	Value TypedNode
}

func (n *PlusEqual) MonoType() types.Mono { return n.Type }
func (n *PlusEqual) String() string {
	return fmt.Sprintf("plus_equal(%d, %s): %s", n.Name, n.Value, n.Type)
}

type TimesEqual struct {
	TypedExpr
	Name  intern.Handle
	Value TypedNode
}

func (n *TimesEqual) MonoType() types.Mono { return n.Type }
func (n *TimesEqual) String() string {
	return fmt.Sprintf("times_equal(%d, %s): %s", n.Name, n.Value, n.Type)
}

type Function struct {
	TypedExpr
	Params []ast.Param
	Body   TypedNode
}

func (n *Function) MonoType() types.Mono { return n.Type }
func (n *Function) String() string {
	names := make([]string, len(n.Params))
	for i, p := range n.Params {
		names[i] = fmt.Sprintf("%d", p.Name)
	}
	return fmt.Sprintf("fn(%s) { %s }: %s", strings.Join(names, ", "), n.Body, n.Type)
}

type BinaryOp struct {
	TypedExpr
	Kind  ast.BinaryOpKind
	Left  TypedNode
	Right TypedNode
}

func (n *BinaryOp) MonoType() types.Mono { return n.Type }
func (n *BinaryOp) String() string {
	return fmt.Sprintf("(%s %s %s): %s", n.Left, n.Kind, n.Right, n.Type)
}

type Group struct {
	TypedExpr
	Exprs []TypedNode
}

func (n *Group) MonoType() types.Mono { return n.Type }
func (n *Group) String() string {
	parts := make([]string, len(n.Exprs))
	for i, e := range n.Exprs {
		parts[i] = e.String()
	}
	return fmt.Sprintf("(%s): %s", strings.Join(parts, ", "), n.Type)
}

type Block struct {
	TypedExpr
	Exprs []TypedNode
}

func (n *Block) MonoType() types.Mono { return n.Type }
func (n *Block) String() string {
	parts := make([]string, len(n.Exprs))
	for i, e := range n.Exprs {
		parts[i] = e.String()
	}
	return fmt.Sprintf("{ %s }: %s", strings.Join(parts, "; "), n.Type)
}

type Arm struct {
	Condition TypedNode
	Body      TypedNode
}

type Branch struct {
	TypedExpr
	Arms []Arm
	Else TypedNode
}

func (n *Branch) MonoType() types.Mono { return n.Type }
func (n *Branch) String() string {
	parts := make([]string, len(n.Arms))
	for i, a := range n.Arms {
		parts[i] = fmt.Sprintf("if %s { %s }", a.Condition, a.Body)
	}
	return fmt.Sprintf("%s else { %s }: %s", strings.Join(parts, " or "), n.Else, n.Type)
}

type Call struct {
	TypedExpr
	Func TypedNode
	Args []TypedNode
}

func (n *Call) MonoType() types.Mono { return n.Type }
func (n *Call) String() string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s): %s", n.Func, strings.Join(args, ", "), n.Type)
}

type Intrinsic struct {
	TypedExpr
	Name intern.Handle
	Args []TypedNode
}

func (n *Intrinsic) MonoType() types.Mono { return n.Type }
func (n *Intrinsic) String() string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("intrinsic(%d)(%s): %s", n.Name, strings.Join(args, ", "), n.Type)
}

type ForeignImport struct {
	TypedExpr
	Module intern.Handle
	Name   intern.Handle
}

func (n *ForeignImport) MonoType() types.Mono { return n.Type }
func (n *ForeignImport) String() string {
	return fmt.Sprintf("foreign_import(%d, %d): %s", n.Module, n.Name, n.Type)
}

type ForeignExport struct {
	TypedExpr
	Name  intern.Handle
	Value TypedNode
}

func (n *ForeignExport) MonoType() types.Mono { return n.Type }
func (n *ForeignExport) String() string {
	return fmt.Sprintf("foreign_export(%d, %s): %s", n.Name, n.Value, n.Type)
}

type Convert struct {
	TypedExpr
	Value TypedNode
}

func (n *Convert) MonoType() types.Mono { return n.Type }
func (n *Convert) String() string       { return fmt.Sprintf("convert(%s): %s", n.Value, n.Type) }

type Undefined struct {
	TypedExpr
}

func (n *Undefined) MonoType() types.Mono { return n.Type }
func (n *Undefined) String() string       { return fmt.Sprintf("undefined: %s", n.Type) }

// ApplySubstitution rewrites every MonoType field in the tree rooted at
// n, in place, replacing resolved type variables via sub (spec §4.6,
// "Apply"). It is a pure tree rewrite: each node's own Type field is
// rewritten and then its children are visited.
func ApplySubstitution(n TypedNode, apply func(types.Mono) types.Mono) {
	switch t := n.(type) {
	case *Int:
		t.Type = apply(t.Type)
	case *Float:
		t.Type = apply(t.Type)
	case *Bool:
		t.Type = apply(t.Type)
	case *String:
		t.Type = apply(t.Type)
	case *Symbol:
		t.Type = apply(t.Type)
	case *Define:
		t.Type = apply(t.Type)
		ApplySubstitution(t.Value, apply)
	case *Drop:
		t.Type = apply(t.Type)
		ApplySubstitution(t.Value, apply)
	case *PlusEqual:
		t.Type = apply(t.Type)
		ApplySubstitution(t.Value, apply)
	case *TimesEqual:
		t.Type = apply(t.Type)
		ApplySubstitution(t.Value, apply)
	case *Function:
		t.Type = apply(t.Type)
		ApplySubstitution(t.Body, apply)
	case *BinaryOp:
		t.Type = apply(t.Type)
		ApplySubstitution(t.Left, apply)
		ApplySubstitution(t.Right, apply)
	case *Group:
		t.Type = apply(t.Type)
		for _, e := range t.Exprs {
			ApplySubstitution(e, apply)
		}
	case *Block:
		t.Type = apply(t.Type)
		for _, e := range t.Exprs {
			ApplySubstitution(e, apply)
		}
	case *Branch:
		t.Type = apply(t.Type)
		for _, a := range t.Arms {
			ApplySubstitution(a.Condition, apply)
			ApplySubstitution(a.Body, apply)
		}
		ApplySubstitution(t.Else, apply)
	case *Call:
		t.Type = apply(t.Type)
		ApplySubstitution(t.Func, apply)
		for _, a := range t.Args {
			ApplySubstitution(a, apply)
		}
	case *Intrinsic:
		t.Type = apply(t.Type)
		for _, a := range t.Args {
			ApplySubstitution(a, apply)
		}
	case *ForeignImport:
		t.Type = apply(t.Type)
	case *ForeignExport:
		t.Type = apply(t.Type)
		ApplySubstitution(t.Value, apply)
	case *Convert:
		t.Type = apply(t.Type)
		ApplySubstitution(t.Value, apply)
	case *Undefined:
		t.Type = apply(t.Type)
	}
}
