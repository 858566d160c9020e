package lexer

import "testing"

func kinds(tokens []Token) []Kind {
	out := make([]Kind, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind
	}
	return out
}

func assertKinds(t *testing.T, source string, want ...Kind) {
	t.Helper()
	got := kinds(Tokenize(source))
	if len(got) != len(want) {
		t.Fatalf("Tokenize(%q) = %v, want %v", source, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Tokenize(%q)[%d] = %s, want %s", source, i, got[i], want[i])
		}
	}
}

func TestTokenize_Integer(t *testing.T) {
	assertKinds(t, "42", INTEGER, END_OF_FILE)
}

func TestTokenize_Float(t *testing.T) {
	assertKinds(t, "3.14", FLOAT, END_OF_FILE)
}

func TestTokenize_FloatWithExponent(t *testing.T) {
	assertKinds(t, "1e10", FLOAT, END_OF_FILE)
	assertKinds(t, "1.5e-3", FLOAT, END_OF_FILE)
}

func TestTokenize_IllegalLeadingZero(t *testing.T) {
	toks := Tokenize("007")
	if toks[0].Kind != ERROR {
		t.Fatalf("expected ERROR token, got %s", toks[0].Kind)
	}
	if toks[0].Lexeme != "illegal trailing zero in number literal" {
		t.Errorf("unexpected message: %s", toks[0].Lexeme)
	}
}

func TestTokenize_Keywords(t *testing.T) {
	assertKinds(t, "true false nil self if else end while return",
		TRUE, FALSE, NIL, SELF, IF, ELSE, END, WHILE, RETURN, END_OF_FILE)
}

func TestTokenize_Identifier(t *testing.T) {
	toks := Tokenize("foo_bar1")
	if toks[0].Kind != IDENTIFIER || toks[0].Lexeme != "foo_bar1" {
		t.Errorf("got %v, want IDENTIFIER(foo_bar1)", toks[0])
	}
}

func TestTokenize_TwoCharOperators(t *testing.T) {
	assertKinds(t, "== != >= <=", EQUAL_EQUAL, NOT_EQUAL, GREATER_EQUAL, LESS_EQUAL, END_OF_FILE)
}

func TestTokenize_SingleCharOperators(t *testing.T) {
	assertKinds(t, "= ! > < + - * /", EQUAL, BANG, GREATER, LESS, PLUS, MINUS, STAR, SLASH, END_OF_FILE)
}

func TestTokenize_StringWithEscapes(t *testing.T) {
	toks := Tokenize(`"a\nb\t\"c"`)
	if toks[0].Kind != STRING {
		t.Fatalf("expected STRING, got %s", toks[0].Kind)
	}
	want := "a\nb\t\"c"
	if toks[0].Lexeme != want {
		t.Errorf("Lexeme = %q, want %q", toks[0].Lexeme, want)
	}
}

func TestTokenize_StringWithUnicodeEscape(t *testing.T) {
	toks := Tokenize("\"\\u00e9\"")
	if toks[0].Kind != STRING || toks[0].Lexeme != "é" {
		t.Fatalf("got %v, want STRING(\\u00e9)", toks[0])
	}
}

func TestTokenize_UnterminatedString(t *testing.T) {
	toks := Tokenize(`"abc`)
	if toks[0].Kind != ERROR || toks[0].Lexeme != "unterminated string literal" {
		t.Fatalf("got %v", toks[0])
	}
}

func TestTokenize_InvalidEscape(t *testing.T) {
	toks := Tokenize(`"\q"`)
	if toks[0].Kind != ERROR {
		t.Fatalf("expected ERROR, got %s", toks[0].Kind)
	}
	if toks[0].Lexeme != "invalid escape `\\q`" {
		t.Errorf("unexpected message: %s", toks[0].Lexeme)
	}
}

func TestTokenize_InvalidEscapeResumesAfterError(t *testing.T) {
	// the lexer must advance past the bad escape byte rather than
	// getting stuck scanning it forever
	toks := Tokenize(`"\q"`)
	if len(toks) < 2 {
		t.Fatalf("expected at least an ERROR token and an EOF, got %v", toks)
	}
	if toks[0].Span.End != toks[0].Span.Start+2 {
		t.Errorf("expected the error span to cover `\\q`, got %v", toks[0].Span)
	}
	if toks[len(toks)-1].Kind != END_OF_FILE {
		t.Errorf("expected tokenization to terminate with EOF, got %v", toks[len(toks)-1])
	}
}

func TestTokenize_UnexpectedChar(t *testing.T) {
	toks := Tokenize("@")
	if toks[0].Kind != ERROR || toks[0].Lexeme != "unexpected char `@`" {
		t.Fatalf("got %v", toks[0])
	}
}

func TestTokenize_Newline(t *testing.T) {
	assertKinds(t, "1\n2", INTEGER, NEWLINE, INTEGER, END_OF_FILE)
}

func TestTokenize_InsignificantWhitespaceSkipped(t *testing.T) {
	assertKinds(t, "  1 \t +\t2  ", INTEGER, PLUS, INTEGER, END_OF_FILE)
}

func TestTokenize_EmptySourceIsJustEOF(t *testing.T) {
	assertKinds(t, "", END_OF_FILE)
}

func TestTokenize_TrailingEOFRepeats(t *testing.T) {
	l := New("1")
	l.Next()
	first := l.Next()
	second := l.Next()
	if first.Kind != END_OF_FILE || second.Kind != END_OF_FILE {
		t.Fatalf("expected repeated EOF tokens, got %v, %v", first, second)
	}
}
