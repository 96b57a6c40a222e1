package lexer

import (
	"testing"

	"github.com/funvibe/dsimp/internal/token"
)

func TestNextToken(t *testing.T) {
	input := `(fun {A Type} [i (Add A)] {{x A}} ; comment
  (add ?x Nat.succ _ λ))`

	tests := []struct {
		expectedType    token.TokenType
		expectedLiteral string
	}{
		{token.LPAREN, "("},
		{token.FUN, "fun"},
		{token.LBRACE, "{"},
		{token.IDENT, "A"},
		{token.TYPE, "Type"},
		{token.RBRACE, "}"},
		{token.LBRACKET, "["},
		{token.IDENT, "i"},
		{token.LPAREN, "("},
		{token.IDENT, "Add"},
		{token.IDENT, "A"},
		{token.RPAREN, ")"},
		{token.RBRACKET, "]"},
		{token.LBRACE2, "{{"},
		{token.IDENT, "x"},
		{token.IDENT, "A"},
		{token.RBRACE2, "}}"},
		{token.LPAREN, "("},
		{token.IDENT, "add"},
		{token.META, "x"},
		{token.IDENT, "Nat.succ"},
		{token.HOLE, "_"},
		{token.FUN, "λ"},
		{token.RPAREN, ")"},
		{token.RPAREN, ")"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (%q)",
				i, tt.expectedType, tok.Type, tok.Lexeme)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestPositions(t *testing.T) {
	toks := Tokenize("(f\n  ?x)")
	want := []struct{ line, col int }{
		{1, 1}, // (
		{1, 2}, // f
		{2, 3}, // ?x
		{2, 5}, // )
	}
	for i, w := range want {
		if toks[i].Line != w.line || toks[i].Column != w.col {
			t.Errorf("token %d (%q) at %d:%d, want %d:%d",
				i, toks[i].Lexeme, toks[i].Line, toks[i].Column, w.line, w.col)
		}
	}
}

func TestIllegal(t *testing.T) {
	toks := Tokenize("? x")
	if toks[0].Type != token.ILLEGAL {
		t.Errorf("lone ? should be ILLEGAL, got %s", toks[0].Type)
	}
}
