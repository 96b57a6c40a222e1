package tctx

import "github.com/funvibe/dsimp/internal/expr"

// reducer carries the unfolding budget of one reduction request.
type reducer struct {
	c    *Context
	fuel int
}

func (c *Context) newReducer() *reducer {
	return &reducer{c: c, fuel: c.maxUnfold}
}

func (r *reducer) spend() bool {
	if r.fuel <= 0 {
		return false
	}
	r.fuel--
	return true
}

// WHNF puts e in weak head normal form: beta, zeta (let), delta (unfolding
// definitions and let-bound locals) and as-is markers are reduced at the
// head until none applies or the unfolding budget is exhausted.
func (c *Context) WHNF(e expr.Expr) expr.Expr {
	r := c.newReducer()
	res, _ := r.whnf(e)
	return res
}

func (r *reducer) whnf(e expr.Expr) (expr.Expr, bool) {
	for {
		switch x := e.(type) {
		case *expr.Let:
			if !r.spend() {
				return e, false
			}
			e = expr.Instantiate(x.Body, x.Value)
		case *expr.Const:
			d, ok := r.c.env.Find(x.Name)
			if !ok || !d.IsDefinition() {
				return e, true
			}
			if !r.spend() {
				return e, false
			}
			e = d.Value
		case *expr.Local:
			if x.Value == nil {
				return e, true
			}
			if !r.spend() {
				return e, false
			}
			e = x.Value
		case *expr.Macro:
			if x.Op != expr.AsIsOp || len(x.Args) != 1 {
				return e, true
			}
			e = x.Args[0]
		case *expr.App:
			fn, ok := r.whnf(x.Fn)
			if !ok {
				return e, false
			}
			lam, isLam := fn.(*expr.Binding)
			if !isLam || lam.Kind() != expr.KindLambda {
				if fn == x.Fn {
					return e, true
				}
				return expr.MkApp(fn, x.Args...), true
			}
			if !r.spend() {
				return e, false
			}
			e = betaRev(lam, x.Args)
		default:
			return e, true
		}
	}
}

// betaRev consumes as many arguments as fn has leading lambdas and applies
// the result to the rest.
func betaRev(fn expr.Expr, args []expr.Expr) expr.Expr {
	n := 0
	body := fn
	for n < len(args) {
		lam, ok := body.(*expr.Binding)
		if !ok || lam.Kind() != expr.KindLambda {
			break
		}
		body = lam.Body
		n++
	}
	// The innermost consumed binder is Var(0), so the consumed arguments
	// are substituted in reverse.
	res := expr.InstantiateRev(body, args[:n]...)
	return expr.MkApp(res, args[n:]...)
}

// Normalize fully reduces e. The boolean is false when the unfolding budget
// ran out before reaching a normal form.
func (c *Context) Normalize(e expr.Expr) (expr.Expr, bool) {
	if nf, ok := c.normal.Get(e); ok {
		return nf, true
	}
	r := c.newReducer()
	nf, ok := r.normalize(e)
	if ok {
		c.normal.Put(e, nf)
	}
	return nf, ok
}

func (r *reducer) normalize(e expr.Expr) (expr.Expr, bool) {
	w, ok := r.whnf(e)
	if !ok {
		return e, false
	}
	switch x := w.(type) {
	case *expr.App:
		fn, ok := r.normalize(x.Fn)
		if !ok {
			return e, false
		}
		args := make([]expr.Expr, len(x.Args))
		for i, a := range x.Args {
			if args[i], ok = r.normalize(a); !ok {
				return e, false
			}
		}
		return expr.UpdateApp(x, fn, args), true
	case *expr.Binding:
		d, ok := r.normalize(x.Domain)
		if !ok {
			return e, false
		}
		b, ok := r.normalize(x.Body)
		if !ok {
			return e, false
		}
		return expr.UpdateBinding(x, d, b), true
	case *expr.Macro:
		args := make([]expr.Expr, len(x.Args))
		for i, a := range x.Args {
			if args[i], ok = r.normalize(a); !ok {
				return e, false
			}
		}
		return expr.UpdateMacro(x, args), true
	default:
		return w, true
	}
}

// IsDefEq decides definitional equality by comparing normal forms up to
// binder names. Terms whose normalization exceeds the budget are only equal
// to themselves.
func (c *Context) IsDefEq(a, b expr.Expr) bool {
	if expr.Alpha(a, b) {
		return true
	}
	na, ok := c.Normalize(a)
	if !ok {
		return false
	}
	nb, ok := c.Normalize(b)
	if !ok {
		return false
	}
	return expr.Alpha(na, nb)
}
