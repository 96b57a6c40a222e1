// Package parser reads expressions written in the s-expression syntax
// produced by expr.Print:
//
//	x  add  Nat.succ       identifiers: bound variables, locals, constants
//	?x                     metavariable
//	_                      placeholder
//	Prop  Type  (Sort 2)   sorts
//	(f a b)                application
//	(fun (x A) {y B} body) lambda; (..) default, {..} implicit,
//	                       {{..}} strict implicit, [..] instance implicit
//	(pi (x y A) B)         pi; several names may share a domain
//	(let (x T v) body)     let
//	(macro op a b)         macro
//
// Identifiers bound by an enclosing binder become de Bruijn variables,
// identifiers naming a supplied local become that local, and everything
// else is a constant.
package parser

import (
	"fmt"
	"strconv"

	"github.com/funvibe/dsimp/internal/expr"
	"github.com/funvibe/dsimp/internal/lexer"
	"github.com/funvibe/dsimp/internal/token"
)

// ParseError is a syntax error with the 1-based position of the offending token.
type ParseError struct {
	Line   int
	Column int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Column, e.Msg)
}

type Parser struct {
	tokens []token.Token
	pos    int
	scope  []string
	locals map[string]*expr.Local
}

// New creates a parser over input. Identifiers equal to the pretty name of
// one of locals resolve to that local.
func New(input string, locals ...*expr.Local) *Parser {
	return NewFromTokens(lexer.Tokenize(input), locals...)
}

// NewFromTokens creates a parser over an already tokenized input.
func NewFromTokens(tokens []token.Token, locals ...*expr.Local) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != token.EOF {
		tokens = append(tokens, token.Token{Type: token.EOF})
	}
	p := &Parser{tokens: tokens}
	if len(locals) > 0 {
		p.locals = make(map[string]*expr.Local, len(locals))
		for _, l := range locals {
			p.locals[l.PrettyName] = l
		}
	}
	return p
}

// ParseExpr parses input as exactly one expression.
func ParseExpr(input string, locals ...*expr.Local) (expr.Expr, error) {
	return New(input, locals...).ParseExpr()
}

// MustParse is ParseExpr for inputs known to be well formed, such as test
// fixtures. It panics on a syntax error.
func MustParse(input string, locals ...*expr.Local) expr.Expr {
	e, err := ParseExpr(input, locals...)
	if err != nil {
		panic(err)
	}
	return e
}

// ParseExpr parses one expression and requires the input to end after it.
func (p *Parser) ParseExpr() (expr.Expr, error) {
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if tok := p.cur(); tok.Type != token.EOF {
		return nil, p.errorf(tok, "unexpected %q after expression", tok.Lexeme)
	}
	return e, nil
}

func (p *Parser) cur() token.Token {
	return p.tokens[p.pos]
}

func (p *Parser) peek() token.Token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) advance() token.Token {
	tok := p.tokens[p.pos]
	if tok.Type != token.EOF {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(tt token.TokenType) (token.Token, error) {
	tok := p.cur()
	if tok.Type != tt {
		if tok.Type == token.EOF {
			return tok, p.errorf(tok, "expected %s, got end of input", tt)
		}
		return tok, p.errorf(tok, "expected %s, got %q", tt, tok.Lexeme)
	}
	return p.advance(), nil
}

func (p *Parser) errorf(tok token.Token, format string, args ...any) error {
	return &ParseError{Line: tok.Line, Column: tok.Column, Msg: fmt.Sprintf(format, args...)}
}

func (p *Parser) parseExpr() (expr.Expr, error) {
	tok := p.cur()
	switch tok.Type {
	case token.IDENT:
		p.advance()
		return p.resolve(tok.Literal), nil
	case token.META:
		p.advance()
		return expr.MkMeta(tok.Literal, nil), nil
	case token.HOLE:
		p.advance()
		return expr.MkConst(expr.PlaceholderName), nil
	case token.PROP:
		p.advance()
		return expr.MkProp(), nil
	case token.TYPE:
		p.advance()
		return expr.MkType(), nil
	case token.LPAREN:
		p.advance()
		return p.parseForm()
	case token.EOF:
		return nil, p.errorf(tok, "unexpected end of input")
	default:
		return nil, p.errorf(tok, "unexpected %q", tok.Lexeme)
	}
}

func (p *Parser) resolve(name string) expr.Expr {
	for i := len(p.scope) - 1; i >= 0; i-- {
		if p.scope[i] == name {
			return expr.MkVar(uint32(len(p.scope) - 1 - i))
		}
	}
	if l, ok := p.locals[name]; ok {
		return l
	}
	return expr.MkConst(name)
}

// parseForm parses what follows an opening parenthesis, up to and including
// the closing one.
func (p *Parser) parseForm() (expr.Expr, error) {
	tok := p.cur()
	var (
		e   expr.Expr
		err error
	)
	switch tok.Type {
	case token.FUN:
		p.advance()
		e, err = p.parseBinding(expr.KindLambda)
	case token.PI:
		p.advance()
		e, err = p.parseBinding(expr.KindPi)
	case token.LET:
		p.advance()
		e, err = p.parseLet()
	case token.MACRO:
		p.advance()
		e, err = p.parseMacro()
	case token.SORT:
		p.advance()
		e, err = p.parseSort()
	default:
		e, err = p.parseApp()
	}
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return e, nil
}

func (p *Parser) parseApp() (expr.Expr, error) {
	fn, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	var args []expr.Expr
	for p.cur().Type != token.RPAREN && p.cur().Type != token.EOF {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return expr.MkApp(fn, args...), nil
}

func (p *Parser) parseSort() (expr.Expr, error) {
	tok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	level, perr := strconv.ParseUint(tok.Literal, 10, 32)
	if perr != nil {
		return nil, p.errorf(tok, "invalid universe level %q", tok.Literal)
	}
	return expr.MkSort(uint32(level)), nil
}

func (p *Parser) parseMacro() (expr.Expr, error) {
	op, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	var args []expr.Expr
	for p.cur().Type != token.RPAREN && p.cur().Type != token.EOF {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return expr.MkMacro(op.Literal, args...), nil
}

type binder struct {
	name   string
	domain expr.Expr
	info   expr.BinderInfo
}

var binderClose = map[token.TokenType]token.TokenType{
	token.LPAREN:   token.RPAREN,
	token.LBRACE:   token.RBRACE,
	token.LBRACE2:  token.RBRACE2,
	token.LBRACKET: token.RBRACKET,
}

var binderInfos = map[token.TokenType]expr.BinderInfo{
	token.LPAREN:   expr.BinderDefault,
	token.LBRACE:   expr.BinderImplicit,
	token.LBRACE2:  expr.BinderStrictImplicit,
	token.LBRACKET: expr.BinderInstImplicit,
}

func isClose(tt token.TokenType) bool {
	switch tt {
	case token.RPAREN, token.RBRACE, token.RBRACE2, token.RBRACKET:
		return true
	}
	return false
}

func (p *Parser) parseBinding(kind expr.Kind) (expr.Expr, error) {
	depth := len(p.scope)
	defer func() { p.scope = p.scope[:depth] }()

	var binders []binder
	for {
		tok := p.cur()
		if _, ok := binderClose[tok.Type]; !ok {
			break
		}
		// A parenthesised group that is the last item is the body, not a binder.
		save, saveScope := p.pos, len(p.scope)
		group, err := p.parseBinderGroup()
		if err != nil || (tok.Type == token.LPAREN && p.cur().Type == token.RPAREN) {
			if tok.Type != token.LPAREN {
				return nil, err
			}
			p.pos = save
			p.scope = p.scope[:saveScope]
			break
		}
		binders = append(binders, group...)
	}
	if len(binders) == 0 {
		return nil, p.errorf(p.cur(), "expected at least one binder")
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	for i := len(binders) - 1; i >= 0; i-- {
		b := binders[i]
		body = expr.MkBinding(kind, b.name, b.domain, body, b.info)
	}
	return body, nil
}

// parseBinderGroup parses "(x y A)" style groups, pushing each name on the
// scope once its domain has been read. Every name gets its own parse of the
// domain so that later names see earlier ones.
func (p *Parser) parseBinderGroup() ([]binder, error) {
	open := p.advance()
	closeType := binderClose[open.Type]
	info := binderInfos[open.Type]

	var names []string
	for p.cur().Type == token.IDENT && !isClose(p.peek().Type) {
		names = append(names, p.advance().Literal)
	}
	if len(names) == 0 {
		return nil, p.errorf(p.cur(), "expected binder name")
	}
	domainStart := p.pos
	group := make([]binder, 0, len(names))
	for _, name := range names {
		p.pos = domainStart
		domain, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		group = append(group, binder{name: name, domain: domain, info: info})
		p.scope = append(p.scope, name)
	}
	if _, err := p.expect(closeType); err != nil {
		return nil, err
	}
	return group, nil
}

type letBinder struct {
	name  string
	typ   expr.Expr
	value expr.Expr
}

func (p *Parser) parseLet() (expr.Expr, error) {
	depth := len(p.scope)
	defer func() { p.scope = p.scope[:depth] }()

	var binders []letBinder
	for p.cur().Type == token.LPAREN && p.peek().Type == token.IDENT {
		save, saveScope := p.pos, len(p.scope)
		b, err := p.parseLetBinder()
		if err != nil || p.cur().Type == token.RPAREN {
			p.pos = save
			p.scope = p.scope[:saveScope]
			break
		}
		binders = append(binders, b)
	}
	if len(binders) == 0 {
		return nil, p.errorf(p.cur(), "expected at least one let binding")
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	for i := len(binders) - 1; i >= 0; i-- {
		b := binders[i]
		body = expr.MkLet(b.name, b.typ, b.value, body)
	}
	return body, nil
}

func (p *Parser) parseLetBinder() (letBinder, error) {
	p.advance() // (
	name := p.advance().Literal
	typ, err := p.parseExpr()
	if err != nil {
		return letBinder{}, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return letBinder{}, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return letBinder{}, err
	}
	p.scope = append(p.scope, name)
	return letBinder{name: name, typ: typ, value: value}, nil
}
