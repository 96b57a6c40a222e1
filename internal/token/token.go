package token

type TokenType string

type Token struct {
	Type    TokenType
	Lexeme  string
	Literal string
	Line    int
	Column  int
}

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	IDENT = "IDENT" // add, Nat.succ, x'
	META  = "META"  // ?x

	LPAREN   = "("
	RPAREN   = ")"
	LBRACE   = "{"
	RBRACE   = "}"
	LBRACE2  = "{{"
	RBRACE2  = "}}"
	LBRACKET = "["
	RBRACKET = "]"

	// Keywords
	FUN   = "FUN"
	PI    = "PI"
	LET   = "LET"
	MACRO = "MACRO"
	SORT  = "SORT"
	PROP  = "PROP"
	TYPE  = "TYPE"
	HOLE  = "_"
)

var keywords = map[string]TokenType{
	"fun":    FUN,
	"λ":      FUN,
	"lambda": FUN,
	"pi":     PI,
	"Π":      PI,
	"forall": PI,
	"∀":      PI,
	"let":    LET,
	"macro":  MACRO,
	"Sort":   SORT,
	"Prop":   PROP,
	"Type":   TYPE,
	"_":      HOLE,
}

// LookupIdent classifies an identifier as a keyword or a plain IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
