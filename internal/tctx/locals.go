package tctx

import "github.com/funvibe/dsimp/internal/expr"

// TmpLocals is a telescope of placeholders opened while descending into a
// run of binders. It lives exactly as long as the processing of that run:
// MkPi/MkLambda close the placeholders again so none escapes.
type TmpLocals struct {
	ctx    *Context
	locals []*expr.Local
}

// TmpLocals starts an empty telescope.
func (c *Context) TmpLocals() *TmpLocals {
	return &TmpLocals{ctx: c}
}

func (t *TmpLocals) PushLocal(name string, typ expr.Expr, bi expr.BinderInfo) *expr.Local {
	l := t.ctx.MkLocal(name, typ, bi)
	t.locals = append(t.locals, l)
	return l
}

func (t *TmpLocals) PushLet(name string, typ, value expr.Expr) *expr.Local {
	l := t.ctx.MkLetLocal(name, typ, value)
	t.locals = append(t.locals, l)
	return l
}

func (t *TmpLocals) Len() int { return len(t.locals) }

func (t *TmpLocals) Locals() []*expr.Local { return t.locals }

// InstantiateRev replaces the loose bound variables of e that refer to the
// binders opened so far with their placeholders.
func (t *TmpLocals) InstantiateRev(e expr.Expr) expr.Expr {
	if len(t.locals) == 0 {
		return e
	}
	subst := make([]expr.Expr, len(t.locals))
	for i, l := range t.locals {
		subst[i] = l
	}
	return expr.InstantiateRev(e, subst...)
}

// MkPi closes the telescope around body with Pi binders.
func (t *TmpLocals) MkPi(body expr.Expr) expr.Expr {
	return t.mkBinding(expr.KindPi, body)
}

// MkLambda closes the telescope around body with Lambda binders. Let-bound
// placeholders become Let nodes.
func (t *TmpLocals) MkLambda(body expr.Expr) expr.Expr {
	return t.mkBinding(expr.KindLambda, body)
}

func (t *TmpLocals) mkBinding(kind expr.Kind, body expr.Expr) expr.Expr {
	r := expr.Abstract(body, t.locals...)
	for i := len(t.locals) - 1; i >= 0; i-- {
		l := t.locals[i]
		domain := expr.Abstract(l.Type, t.locals[:i]...)
		if l.Value != nil {
			value := expr.Abstract(l.Value, t.locals[:i]...)
			r = expr.MkLet(l.PrettyName, domain, value, r)
		} else {
			r = expr.MkBinding(kind, l.PrettyName, domain, r, l.Info)
		}
	}
	return r
}
