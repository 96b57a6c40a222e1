package tctx

import "github.com/funvibe/dsimp/internal/expr"

// ParamInfo describes one parameter position of a function.
type ParamInfo struct {
	Info expr.BinderInfo
}

func (p ParamInfo) IsImplicit() bool       { return p.Info == expr.BinderImplicit }
func (p ParamInfo) IsStrictImplicit() bool { return p.Info == expr.BinderStrictImplicit }
func (p ParamInfo) IsInstImplicit() bool   { return p.Info == expr.BinderInstImplicit }

// FunInfo returns parameter information for fn applied to nargs arguments.
// The result is aligned with the arguments and may be shorter than nargs
// when the type of fn does not expose that many Pi binders (or is unknown).
func (c *Context) FunInfo(fn expr.Expr, nargs int) []ParamInfo {
	if nargs == 0 {
		return nil
	}
	cnst, isConst := fn.(*expr.Const)
	if isConst {
		if cached, ok := c.funInfo[funInfoKey{cnst.Name, nargs}]; ok {
			return cached
		}
	}

	var infos []ParamInfo
	if lam, ok := fn.(*expr.Binding); ok && lam.Kind() == expr.KindLambda {
		// The type of a lambda is a Pi with the same binders.
		var cur expr.Expr = lam
		for len(infos) < nargs {
			b, ok := cur.(*expr.Binding)
			if !ok || b.Kind() != expr.KindLambda {
				break
			}
			infos = append(infos, ParamInfo{Info: b.Info})
			cur = b.Body
		}
	} else if typ := c.headType(fn); typ != nil {
		infos = c.piInfos(typ, nargs)
	}

	if isConst {
		c.funInfo[funInfoKey{cnst.Name, nargs}] = infos
	}
	return infos
}

func (c *Context) headType(fn expr.Expr) expr.Expr {
	switch x := fn.(type) {
	case *expr.Const:
		if d, ok := c.env.Find(x.Name); ok {
			return d.Type
		}
	case *expr.Local:
		return x.Type
	case *expr.Meta:
		return x.Type
	}
	return nil
}

// piInfos walks at most n Pi binders of typ, reducing to expose more of them
// when the type is a definition that unfolds to a Pi.
func (c *Context) piInfos(typ expr.Expr, n int) []ParamInfo {
	var infos []ParamInfo
	cur := typ
	for len(infos) < n {
		b, ok := cur.(*expr.Binding)
		if !ok || b.Kind() != expr.KindPi {
			w := c.WHNF(cur)
			if b, ok = w.(*expr.Binding); !ok || b.Kind() != expr.KindPi {
				break
			}
		}
		infos = append(infos, ParamInfo{Info: b.Info})
		cur = b.Body
	}
	return infos
}
