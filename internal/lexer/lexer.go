// Package lexer implements the tokenizer of spec §4.2: a byte-level
// cursor that never fails, emitting a flat token sequence from any UTF-8
// source buffer. Scanning is byte-oriented rather than rune-oriented
// because every reserved byte the spec names is ASCII, and UTF-8
// continuation bytes can never collide with an ASCII byte value - so
// multi-byte sequences simply ride through as symbol-scan content.
package lexer

import (
	"github.com/sunholo/neuronc/internal/builtins"
	"github.com/sunholo/neuronc/internal/intern"
	"github.com/sunholo/neuronc/internal/source"
)

// cursor walks the source buffer one byte at a time, tracking the
// 1-based line/column position spec §3 requires every span to carry.
type cursor struct {
	src  []byte
	pos  int
	line uint32
	col  uint32
}

func newCursor(src []byte) *cursor {
	return &cursor{src: src, pos: 0, line: 1, col: 1}
}

func (c *cursor) here() source.Position {
	return source.Position{Line: c.line, Column: c.col}
}

func (c *cursor) atEOF() bool { return c.pos >= len(c.src) }

func (c *cursor) peek() byte {
	if c.atEOF() {
		return 0
	}
	return c.src[c.pos]
}

// advance consumes the current byte and returns it, updating line/column.
func (c *cursor) advance() byte {
	b := c.src[c.pos]
	c.pos++
	if b == '\n' {
		c.line++
		c.col = 1
	} else {
		c.col++
	}
	return b
}

// unreadOne backs the cursor up by one byte. Only ever called to return a
// trailing '.' to the stream (spec §4.2), which is never '\n', so a plain
// column decrement is sound.
func (c *cursor) unreadOne() {
	c.pos--
	c.col--
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// isReservedTerminator reports whether b ends a symbol scan (spec §6).
// Tab is included alongside space so a symbol never silently spans
// skipped whitespace.
func isReservedTerminator(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '(', ')', '.', ':', ',':
		return true
	default:
		return false
	}
}

var singlePunct = map[byte]Kind{
	'(': LeftParen,
	')': RightParen,
	'{': LeftBrace,
	'}': RightBrace,
	':': Colon,
	',': Comma,
	'+': Plus,
	'*': Times,
	'/': Slash,
	'^': Caret,
	'%': Percent,
	'>': Greater,
	'<': Less,
}

// Tokenize converts src into a flat token sequence. in interns literal
// and symbol text; table classifies symbol scans against the keyword set.
// Tokenization never fails (spec §4.2): every byte other than skipped
// spaces and tabs is consumed into some token.
func Tokenize(src []byte, in *intern.Interner, table *builtins.Table) []Token {
	c := newCursor(src)
	var toks []Token

	for !c.atEOF() {
		for !c.atEOF() && (c.peek() == ' ' || c.peek() == '\t') {
			c.advance()
		}
		if c.atEOF() {
			break
		}

		b := c.peek()
		switch {
		case b == '\n':
			toks = append(toks, scanNewline(c))
		case isDigit(b) || b == '-' || b == '.':
			toks = append(toks, scanNumber(c, in))
		case b == '"':
			toks = append(toks, scanString(c, in))
		case b == '=':
			toks = append(toks, scanEqual(c))
		default:
			if kind, ok := singlePunct[b]; ok {
				begin := c.here()
				c.advance()
				toks = append(toks, Token{Kind: kind, Span: source.Span{Begin: begin, End: c.here()}})
				continue
			}
			toks = append(toks, scanSymbol(c, in, table))
		}
	}
	return toks
}

func scanNewline(c *cursor) Token {
	begin := c.here()
	for !c.atEOF() && c.peek() == '\n' {
		c.advance()
	}
	return Token{Kind: NewLine, Span: source.Span{Begin: begin, End: c.here()}}
}

// scanNumber implements spec §4.2's number-scan policy verbatim,
// including the deliberately unfixed multi-dot ambiguity (spec §9).
func scanNumber(c *cursor, in *intern.Interner) Token {
	begin := c.here()
	start := c.pos

	if c.peek() == '-' {
		c.advance()
	}
	dots := 0
	digits := 0
	for !c.atEOF() {
		b := c.peek()
		if isDigit(b) {
			digits++
			c.advance()
		} else if b == '.' {
			dots++
			c.advance()
		} else {
			break
		}
	}

	run := c.src[start:c.pos]

	if len(run) == 1 && run[0] == '-' {
		return Token{Kind: Minus, Span: source.Span{Begin: begin, End: c.here()}}
	}
	if len(run) == 1 && run[0] == '.' {
		return Token{Kind: Dot, Span: source.Span{Begin: begin, End: c.here()}}
	}

	if digits > 0 && run[len(run)-1] == '.' {
		c.unreadOne()
		run = run[:len(run)-1]
		dots--
	}

	kind := Int
	if dots > 0 {
		kind = Float
	}
	handle := in.Store(string(run))
	return Token{Kind: kind, Text: handle, Span: source.Span{Begin: begin, End: c.here()}}
}

// scanString consumes an opening quote through the next quote (or EOF),
// interning the content with both quotes included (spec §4.2).
func scanString(c *cursor, in *intern.Interner) Token {
	begin := c.here()
	start := c.pos
	c.advance() // opening quote
	for !c.atEOF() && c.peek() != '"' {
		c.advance()
	}
	if !c.atEOF() {
		c.advance() // closing quote
	}
	handle := in.Store(string(c.src[start:c.pos]))
	return Token{Kind: StringLit, Text: handle, Span: source.Span{Begin: begin, End: c.here()}}
}

func scanEqual(c *cursor) Token {
	begin := c.here()
	c.advance() // consume '='
	if c.peek() == '=' {
		c.advance()
		return Token{Kind: EqualEqual, Span: source.Span{Begin: begin, End: c.here()}}
	}
	return Token{Kind: Equal, Span: source.Span{Begin: begin, End: c.here()}}
}

// scanSymbol consumes until a reserved byte, then classifies the result
// against the builtins keyword table (spec §4.2).
func scanSymbol(c *cursor, in *intern.Interner, table *builtins.Table) Token {
	begin := c.here()
	start := c.pos
	for !c.atEOF() && !isReservedTerminator(c.peek()) {
		c.advance()
	}
	text := c.src[start:c.pos]
	handle := in.Store(string(text))
	span := source.Span{Begin: begin, End: c.here()}

	if keyword, ok := table.IsKeyword(handle); ok {
		switch keyword {
		case "fn":
			return Token{Kind: Fn, Span: span}
		case "if":
			return Token{Kind: If, Span: span}
		case "else":
			return Token{Kind: Else, Span: span}
		case "or":
			return Token{Kind: Or, Span: span}
		case "true":
			return Token{Kind: BoolLit, BoolValue: true, Span: span}
		case "false":
			return Token{Kind: BoolLit, BoolValue: false, Span: span}
		}
	}
	return Token{Kind: Symbol, Text: handle, Span: span}
}
