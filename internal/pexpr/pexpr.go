// Package pexpr exposes pre-expressions to hosts: terms that have not gone
// through elaboration yet. A PExpr shares its representation with expr.Expr,
// the conversions between the two are free.
package pexpr

import "github.com/funvibe/dsimp/internal/expr"

type PExpr struct {
	e expr.Expr
}

// OfRawExpr reinterprets e as a pre-expression without marking it.
func OfRawExpr(e expr.Expr) PExpr { return PExpr{e: e} }

// ToRawExpr returns the underlying expression.
func ToRawExpr(p PExpr) expr.Expr { return p.e }

// OfExpr wraps an elaborated expression so it is taken as is later on.
func OfExpr(e expr.Expr) PExpr {
	return PExpr{e: expr.MkMacro(expr.AsIsOp, e)}
}

// MkPlaceholder returns the "_" hole.
func MkPlaceholder() PExpr {
	return PExpr{e: expr.MkConst(expr.PlaceholderName)}
}

// Subst instantiates the bound variable of a lambda with v. Anything that is
// not a lambda is returned unchanged.
func Subst(p, v PExpr) PExpr {
	b, ok := p.e.(*expr.Binding)
	if !ok || b.Kind() != expr.KindLambda {
		return p
	}
	return PExpr{e: expr.Instantiate(b.Body, v.e)}
}

func ToString(p PExpr) string { return p.String() }

func (p PExpr) String() string {
	if p.e == nil {
		return "<nil>"
	}
	return p.e.String()
}

func IsAsIs(p PExpr) bool {
	m, ok := p.e.(*expr.Macro)
	return ok && m.Op == expr.AsIsOp && len(m.Args) == 1
}

// GetAsIsArg unwraps an as-is pre-expression.
func GetAsIsArg(p PExpr) (expr.Expr, bool) {
	if !IsAsIs(p) {
		return nil, false
	}
	return p.e.(*expr.Macro).Args[0], true
}

func IsPlaceholder(p PExpr) bool {
	c, ok := p.e.(*expr.Const)
	return ok && c.Name == expr.PlaceholderName
}
