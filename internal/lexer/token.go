package lexer

import (
	"fmt"

	"github.com/sunholo/neuronc/internal/intern"
	"github.com/sunholo/neuronc/internal/source"
)

// Kind enumerates the flat token variants of spec §3. Every token carries
// a Span regardless of kind; literal and symbol kinds additionally carry
// an interned Text handle.
type Kind int

const (
	Int Kind = iota
	Float
	StringLit
	Symbol
	BoolLit
	Fn
	If
	Else
	Or
	Dot
	Colon
	Comma
	LeftParen
	RightParen
	LeftBrace
	RightBrace
	NewLine
	Equal
	EqualEqual
	Plus
	Minus
	Times
	Slash
	Caret
	Percent
	Greater
	Less
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "int"
	case Float:
		return "float"
	case StringLit:
		return "string"
	case Symbol:
		return "symbol"
	case BoolLit:
		return "bool"
	case Fn:
		return "fn"
	case If:
		return "if"
	case Else:
		return "else"
	case Or:
		return "or"
	case Dot:
		return "dot"
	case Colon:
		return "colon"
	case Comma:
		return "comma"
	case LeftParen:
		return "left_paren"
	case RightParen:
		return "right_paren"
	case LeftBrace:
		return "left_brace"
	case RightBrace:
		return "right_brace"
	case NewLine:
		return "new_line"
	case Equal:
		return "equal"
	case EqualEqual:
		return "equal_equal"
	case Plus:
		return "plus"
	case Minus:
		return "minus"
	case Times:
		return "times"
	case Slash:
		return "slash"
	case Caret:
		return "caret"
	case Percent:
		return "percent"
	case Greater:
		return "greater"
	case Less:
		return "less"
	default:
		return "unknown"
	}
}

// Token is the tagged variant described in spec §3. Text is only
// meaningful for Int, Float, StringLit, and Symbol; BoolValue is only
// meaningful for BoolLit.
type Token struct {
	Kind      Kind
	Text      intern.Handle
	BoolValue bool
	Span      source.Span
}

func (t Token) String() string {
	return fmt.Sprintf("%s@%s", t.Kind, t.Span)
}
