// Package ast defines the untyped expression tree the parser (external to
// this module, spec §1) produces and the inference engine consumes
// (spec §3, "Typed expression tree" minus the type field). Every variant
// is a pointer-receiver struct implementing the Expr marker interface,
// mirroring the parser's tree shape one-to-one with internal/typedast.
package ast

import (
	"fmt"
	"strings"

	"github.com/sunholo/neuronc/internal/intern"
	"github.com/sunholo/neuronc/internal/source"
)

// Node is satisfied by every tree variant.
type Node interface {
	fmt.Stringer
	Span() source.Span
}

// Expr is the marker for expression-position nodes. Every variant in
// spec §3's "Typed expression tree" list is an Expr here; the typed
// counterpart in internal/typedast adds a MonoType field per node.
type Expr interface {
	Node
	exprNode()
}

// Int is an integer literal; its text is interned so equal literals
// share a handle.
type Int struct {
	Text intern.Handle
	Sp   source.Span
}

func (n *Int) exprNode()        {}
func (n *Int) Span() source.Span { return n.Sp }
func (n *Int) String() string   { return fmt.Sprintf("int(%d)", n.Text) }

// Float is a floating-point literal.
type Float struct {
	Text intern.Handle
	Sp   source.Span
}

func (n *Float) exprNode()        {}
func (n *Float) Span() source.Span { return n.Sp }
func (n *Float) String() string   { return fmt.Sprintf("float(%d)", n.Text) }

// Bool is a boolean literal.
type Bool struct {
	Value bool
	Sp    source.Span
}

func (n *Bool) exprNode()        {}
func (n *Bool) Span() source.Span { return n.Sp }
func (n *Bool) String() string   { return fmt.Sprintf("%t", n.Value) }

// String is a string literal; Text includes the surrounding quotes, per
// the tokenizer's interning policy (spec §4.2).
type String struct {
	Text intern.Handle
	Sp   source.Span
}

func (n *String) exprNode()        {}
func (n *String) Span() source.Span { return n.Sp }
func (n *String) String() string   { return fmt.Sprintf("string(%d)", n.Text) }

// Symbol is a name reference, resolved by the checker against the scope.
type Symbol struct {
	Name intern.Handle
	Sp   source.Span
}

func (n *Symbol) exprNode()        {}
func (n *Symbol) Span() source.Span { return n.Sp }
func (n *Symbol) String() string   { return fmt.Sprintf("symbol(%d)", n.Name) }

// Define introduces a new local binding for Name, optionally mutable.
type Define struct {
	Name    intern.Handle
	Value   Expr
	Mutable bool
	Sp      source.Span
}

func (n *Define) exprNode()        {}
func (n *Define) Span() source.Span { return n.Sp }
func (n *Define) String() string {
	return fmt.Sprintf("define(%d = %s)", n.Name, n.Value)
}

// Drop evaluates Value for effect and discards its result.
type Drop struct {
	Value Expr
	Sp    source.Span
}

func (n *Drop) exprNode()        {}
func (n *Drop) Span() source.Span { return n.Sp }
func (n *Drop) String() string   { return fmt.Sprintf("drop(%s)", n.Value) }

// PlusEqual is the `+=` assignment operator; the target must resolve to
// a mutable binding (spec §4.4, §4.5, §7 AssignToImmutable).
type PlusEqual struct {
	Name  intern.Handle
	Value Expr
	Sp    source.Span
}

func (n *PlusEqual) exprNode()        {}
func (n *PlusEqual) Span() source.Span { return n.Sp }
func (n *PlusEqual) String() string {
	return fmt.Sprintf("plus_equal(%d, %s)", n.Name, n.Value)
}

// TimesEqual is the `*=` assignment operator.
type TimesEqual struct {
	Name  intern.Handle
	Value Expr
	Sp    source.Span
}

func (n *TimesEqual) exprNode()        {}
func (n *TimesEqual) Span() source.Span { return n.Sp }
func (n *TimesEqual) String() string {
	return fmt.Sprintf("times_equal(%d, %s)", n.Name, n.Value)
}

// Param is a function parameter: a name plus an optional syntactic type
// annotation. The checker does not read the annotation; every parameter
// gets a fresh type variable (spec §4.5).
type Param struct {
	Name intern.Handle
	Type string // ground type name from source syntax, or "" if absent
}

// Function is a function literal: `fn(params) [returnType] { body }`.
type Function struct {
	Params     []Param
	ReturnType string // "" if the syntax declared no return type
	Body       Expr
	Sp         source.Span
}

func (n *Function) exprNode()        {}
func (n *Function) Span() source.Span { return n.Sp }
func (n *Function) String() string {
	names := make([]string, len(n.Params))
	for i, p := range n.Params {
		names[i] = fmt.Sprintf("%d", p.Name)
	}
	return fmt.Sprintf("fn(%s) { %s }", strings.Join(names, ", "), n.Body)
}

// BinaryOpKind enumerates the operators spec §4.5 distinguishes:
// arithmetic shares the operand type, comparisons produce bool.
type BinaryOpKind int

const (
	OpPlus BinaryOpKind = iota
	OpMinus
	OpTimes
	OpSlash
	OpCaret
	OpPercent
	OpEqualEqual
	OpGreater
	OpLess
)

func (k BinaryOpKind) String() string {
	switch k {
	case OpPlus:
		return "+"
	case OpMinus:
		return "-"
	case OpTimes:
		return "*"
	case OpSlash:
		return "/"
	case OpCaret:
		return "^"
	case OpPercent:
		return "%"
	case OpEqualEqual:
		return "=="
	case OpGreater:
		return ">"
	case OpLess:
		return "<"
	default:
		return "?"
	}
}

// IsComparison reports whether this operator's result type is bool
// regardless of operand type (spec §4.5).
func (k BinaryOpKind) IsComparison() bool {
	return k == OpEqualEqual || k == OpGreater || k == OpLess
}

// BinaryOp applies Kind to Left and Right.
type BinaryOp struct {
	Kind  BinaryOpKind
	Left  Expr
	Right Expr
	Sp    source.Span
}

func (n *BinaryOp) exprNode()        {}
func (n *BinaryOp) Span() source.Span { return n.Sp }
func (n *BinaryOp) String() string {
	return fmt.Sprintf("(%s %s %s)", n.Left, n.Kind, n.Right)
}

// Group is a parenthesized sequence of expressions with no scope push,
// unlike Block (spec §4.5).
type Group struct {
	Exprs []Expr
	Sp    source.Span
}

func (n *Group) exprNode()        {}
func (n *Group) Span() source.Span { return n.Sp }
func (n *Group) String() string {
	parts := make([]string, len(n.Exprs))
	for i, e := range n.Exprs {
		parts[i] = e.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
}

// Block is a brace-delimited sequence of expressions with its own scope.
type Block struct {
	Exprs []Expr
	Sp    source.Span
}

func (n *Block) exprNode()        {}
func (n *Block) Span() source.Span { return n.Sp }
func (n *Block) String() string {
	parts := make([]string, len(n.Exprs))
	for i, e := range n.Exprs {
		parts[i] = e.String()
	}
	return fmt.Sprintf("{ %s }", strings.Join(parts, "; "))
}

// Arm is one condition/body pair of a Branch.
type Arm struct {
	Condition Expr
	Body      Expr
}

// Branch is the `if cond { } or cond { } else { }` construct (spec §4.5).
// Every arm's condition must be bool; every arm body and the else body
// unify to one type.
type Branch struct {
	Arms []Arm
	Else Expr
	Sp   source.Span
}

func (n *Branch) exprNode()        {}
func (n *Branch) Span() source.Span { return n.Sp }
func (n *Branch) String() string {
	parts := make([]string, len(n.Arms))
	for i, a := range n.Arms {
		parts[i] = fmt.Sprintf("if %s { %s }", a.Condition, a.Body)
	}
	return fmt.Sprintf("%s else { %s }", strings.Join(parts, " or "), n.Else)
}

// Call applies Func to Args.
type Call struct {
	Func Expr
	Args []Expr
	Sp   source.Span
}

func (n *Call) exprNode()        {}
func (n *Call) Span() source.Span { return n.Sp }
func (n *Call) String() string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", n.Func, strings.Join(args, ", "))
}

// Intrinsic invokes a compiler-known primitive by its interned name
// (spec §4.5, §6 builtins table).
type Intrinsic struct {
	Name intern.Handle
	Args []Expr
	Sp   source.Span
}

func (n *Intrinsic) exprNode()        {}
func (n *Intrinsic) Span() source.Span { return n.Sp }
func (n *Intrinsic) String() string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("intrinsic(%d)(%s)", n.Name, strings.Join(args, ", "))
}

// ForeignImport binds Name to a value imported from an external Module;
// its type is left free until a use-site constraint pins it (spec §9).
type ForeignImport struct {
	Module intern.Handle
	Name   intern.Handle
	Sp     source.Span
}

func (n *ForeignImport) exprNode()        {}
func (n *ForeignImport) Span() source.Span { return n.Sp }
func (n *ForeignImport) String() string {
	return fmt.Sprintf("foreign_import(%d, %d)", n.Module, n.Name)
}

// ForeignExport marks Name's Value as surviving into the compiled output.
type ForeignExport struct {
	Name  intern.Handle
	Value Expr
	Sp    source.Span
}

func (n *ForeignExport) exprNode()        {}
func (n *ForeignExport) Span() source.Span { return n.Sp }
func (n *ForeignExport) String() string {
	return fmt.Sprintf("foreign_export(%d, %s)", n.Name, n.Value)
}

// Convert asks the checker to coerce Value to a type pinned by context
// or a surrounding intrinsic (spec §4.5).
type Convert struct {
	Value Expr
	Sp    source.Span
}

func (n *Convert) exprNode()        {}
func (n *Convert) Span() source.Span { return n.Sp }
func (n *Convert) String() string   { return fmt.Sprintf("convert(%s)", n.Value) }

// Undefined is a placeholder expression with no constraints of its own
// beyond a fresh type variable.
type Undefined struct {
	Sp source.Span
}

func (n *Undefined) exprNode()        {}
func (n *Undefined) Span() source.Span { return n.Sp }
func (n *Undefined) String() string   { return "undefined" }
