package lexer

import (
	"github.com/funvibe/dsimp/internal/token"
	"unicode"
	"unicode/utf8"
)

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
		l.ch = r
		l.position = l.readPosition
		l.readPosition += w
		l.column++
		return
	}

	l.position = l.readPosition
	l.readPosition++
	l.column++
}

func (l *Lexer) NextToken() token.Token {
	var tok token.Token

	l.skipWhitespace()

	line, col := l.line, l.column
	switch l.ch {
	case 0:
		return token.Token{Type: token.EOF, Line: line, Column: col}
	case '(':
		tok = newToken(token.LPAREN, l.ch, line, col)
	case ')':
		tok = newToken(token.RPAREN, l.ch, line, col)
	case '[':
		tok = newToken(token.LBRACKET, l.ch, line, col)
	case ']':
		tok = newToken(token.RBRACKET, l.ch, line, col)
	case '{':
		if l.peekChar() == '{' {
			l.readChar()
			tok = token.Token{Type: token.LBRACE2, Lexeme: "{{", Literal: "{{", Line: line, Column: col}
		} else {
			tok = newToken(token.LBRACE, l.ch, line, col)
		}
	case '}':
		if l.peekChar() == '}' {
			l.readChar()
			tok = token.Token{Type: token.RBRACE2, Lexeme: "}}", Literal: "}}", Line: line, Column: col}
		} else {
			tok = newToken(token.RBRACE, l.ch, line, col)
		}
	case '?':
		l.readChar() // consume ?
		name := l.readIdentifier()
		if name == "" {
			return token.Token{Type: token.ILLEGAL, Lexeme: "?", Literal: "?", Line: line, Column: col}
		}
		return token.Token{Type: token.META, Lexeme: "?" + name, Literal: name, Line: line, Column: col}
	default:
		if isIdentChar(l.ch) {
			ident := l.readIdentifier()
			return token.Token{Type: token.LookupIdent(ident), Lexeme: ident, Literal: ident, Line: line, Column: col}
		}
		tok = newToken(token.ILLEGAL, l.ch, line, col)
	}

	l.readChar()
	return tok
}

// readIdentifier reads a run of identifier characters. Identifiers are
// permissive: anything that is not whitespace, a bracket or a comment marker.
func (l *Lexer) readIdentifier() string {
	position := l.position
	for isIdentChar(l.ch) {
		l.readChar()
	}
	if l.ch == 0 {
		return l.input[position:]
	}
	return l.input[position:l.position]
}

func isIdentChar(ch rune) bool {
	switch ch {
	case 0, '(', ')', '[', ']', '{', '}', ';', '?':
		return false
	}
	return !unicode.IsSpace(ch) && unicode.IsPrint(ch)
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func newToken(tokenType token.TokenType, ch rune, line, col int) token.Token {
	literal := string(ch)
	return token.Token{Type: tokenType, Lexeme: literal, Literal: literal, Line: line, Column: col}
}

func (l *Lexer) skipWhitespace() {
	for {
		for unicode.IsSpace(l.ch) {
			l.readChar()
		}
		// ; comments run to the end of the line
		if l.ch == ';' {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}
		break
	}
}

// Tokenize returns every token of input, ending with EOF.
func Tokenize(input string) []token.Token {
	l := New(input)
	var out []token.Token
	for {
		tok := l.NextToken()
		out = append(out, tok)
		if tok.Type == token.EOF {
			return out
		}
	}
}
