package lexer

import (
	"testing"

	"github.com/sunholo/neuronc/internal/builtins"
	"github.com/sunholo/neuronc/internal/intern"
	"github.com/sunholo/neuronc/internal/source"
)

func newTable() (*intern.Interner, *builtins.Table) {
	in := intern.New()
	return in, builtins.New(in)
}

func TestTokenizeIdentityFunction(t *testing.T) {
	in, table := newTable()
	toks := Tokenize([]byte("start = fn() i32 { 42 }"), in, table)

	var kinds []Kind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	want := []Kind{Symbol, Equal, Fn, LeftParen, RightParen, Symbol, LeftBrace, Int, RightBrace}
	if len(kinds) != len(want) {
		t.Fatalf("kind count mismatch: got %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("token %d: got %s, want %s (full: %v)", i, kinds[i], want[i], kinds)
		}
	}
}

func TestTokenizeMultiDotNumberAmbiguityPreservedAsIs(t *testing.T) {
	// spec §9: the number scan permits multiple dots in one run and the
	// implementation must not "fix" this - 1.2.3 lexes as a single float
	// token whose interned text is the literal run "1.2.3".
	in, table := newTable()
	toks := Tokenize([]byte("1.2.3"), in, table)
	if len(toks) != 1 {
		t.Fatalf("expected exactly one token, got %d: %v", len(toks), toks)
	}
	tok := toks[0]
	if tok.Kind != Float {
		t.Fatalf("expected Float, got %s", tok.Kind)
	}
	if got := in.Lookup(tok.Text); got != "1.2.3" {
		t.Fatalf("expected literal text %q, got %q", "1.2.3", got)
	}
}

func TestTokenizeTrailingDotReturnedToStream(t *testing.T) {
	in, table := newTable()
	toks := Tokenize([]byte("1.foo"), in, table)
	if len(toks) != 3 {
		t.Fatalf("expected 3 tokens (int, dot, symbol), got %d: %v", len(toks), toks)
	}
	if toks[0].Kind != Int || in.Lookup(toks[0].Text) != "1" {
		t.Fatalf("expected int(1), got %v", toks[0])
	}
	if toks[1].Kind != Dot {
		t.Fatalf("expected dot, got %s", toks[1].Kind)
	}
	if toks[2].Kind != Symbol || in.Lookup(toks[2].Text) != "foo" {
		t.Fatalf("expected symbol(foo), got %v", toks[2])
	}
}

func TestTokenizeNegativeNumber(t *testing.T) {
	in, table := newTable()
	toks := Tokenize([]byte("-42"), in, table)
	if len(toks) != 1 || toks[0].Kind != Int || in.Lookup(toks[0].Text) != "-42" {
		t.Fatalf("expected a single int(-42), got %v", toks)
	}
}

func TestTokenizeLoneMinus(t *testing.T) {
	in, table := newTable()
	toks := Tokenize([]byte("a - b"), in, table)
	if len(toks) != 3 || toks[1].Kind != Minus {
		t.Fatalf("expected symbol, minus, symbol; got %v", toks)
	}
}

func TestTokenizeEqualVsEqualEqual(t *testing.T) {
	in, table := newTable()
	toks := Tokenize([]byte("a = b == c"), in, table)
	var kinds []Kind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	want := []Kind{Symbol, Equal, Symbol, EqualEqual, Symbol}
	if len(kinds) != len(want) {
		t.Fatalf("got %v want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("token %d: got %s want %s", i, kinds[i], want[i])
		}
	}
}

func TestTokenizeStringLiteralIncludesQuotes(t *testing.T) {
	in, table := newTable()
	toks := Tokenize([]byte(`"hi"`), in, table)
	if len(toks) != 1 || toks[0].Kind != StringLit {
		t.Fatalf("expected one string token, got %v", toks)
	}
	if got := in.Lookup(toks[0].Text); got != `"hi"` {
		t.Fatalf("expected quotes included in interned text, got %q", got)
	}
}

func TestTokenizeBooleans(t *testing.T) {
	in, table := newTable()
	toks := Tokenize([]byte("true false"), in, table)
	if len(toks) != 2 || toks[0].Kind != BoolLit || !toks[0].BoolValue {
		t.Fatalf("expected true bool token, got %v", toks)
	}
	if toks[1].Kind != BoolLit || toks[1].BoolValue {
		t.Fatalf("expected false bool token, got %v", toks[1])
	}
}

func TestTokenizeNewlineRun(t *testing.T) {
	in, table := newTable()
	toks := Tokenize([]byte("a\n\n\nb"), in, table)
	if len(toks) != 3 {
		t.Fatalf("expected symbol, new_line, symbol - got %v", toks)
	}
	if toks[1].Kind != NewLine {
		t.Fatalf("expected a single new_line token for the run, got %s", toks[1].Kind)
	}
}

// spanCoversSource checks the testable property of spec §8: concatenating
// the source text underlying each token's span, in order, reproduces the
// original source minus skipped whitespace (space and tab; newlines are
// themselves tokens).
func spanCoversSource(t *testing.T, src string, toks []Token) {
	t.Helper()
	lineStarts := []int{0}
	for i, b := range []byte(src) {
		if b == '\n' {
			lineStarts = append(lineStarts, i+1)
		}
	}
	offsetOf := func(pos source.Position) int {
		return lineStarts[pos.Line-1] + int(pos.Column-1)
	}
	var rebuilt []byte
	for _, tok := range toks {
		begin := offsetOf(tok.Span.Begin)
		end := offsetOf(tok.Span.End)
		rebuilt = append(rebuilt, src[begin:end]...)
	}
	stripped := make([]byte, 0, len(src))
	for i := 0; i < len(src); i++ {
		if src[i] == ' ' || src[i] == '\t' {
			continue
		}
		stripped = append(stripped, src[i])
	}
	if string(rebuilt) != string(stripped) {
		t.Fatalf("span coverage mismatch:\n got: %q\nwant: %q", rebuilt, stripped)
	}
}

func TestTokenSpanCoversSource(t *testing.T) {
	cases := []string{
		"start = fn() i32 { 42 }",
		"x = 0\nx += 1\nx",
		"1.2.3",
		"1.foo",
		`f(1, 2) "hi" true false`,
	}
	in, table := newTable()
	for _, src := range cases {
		toks := Tokenize([]byte(src), in, table)
		spanCoversSource(t, src, toks)
	}
}
