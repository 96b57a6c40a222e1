package simp

import (
	"context"
	"log/slog"

	"github.com/funvibe/dsimp/internal/canon"
	"github.com/funvibe/dsimp/internal/expr"
	"github.com/funvibe/dsimp/internal/tctx"
)

// Session is the state of one Simplify call: the cache, the step counter
// and the restart flag. It is handed to hooks and never outlives the call.
type Session struct {
	ctx         context.Context
	s           *Simplifier
	canon       canon.Canonizer
	cache       *expr.Map[expr.Expr]
	steps       int
	needRestart bool
	depth       int
	debug       bool
	stats       Stats
}

// Context returns the binder-instantiation context of the simplifier.
func (ss *Session) Context() *tctx.Context { return ss.s.tc }

// Steps returns the number of steps taken so far, across restarts.
func (ss *Session) Steps() int { return ss.steps }

// RequestRestart asks for another pass once the current one completes.
func (ss *Session) RequestRestart() { ss.needRestart = true }

// Tick polls for cancellation and counts one step against the ceiling.
func (ss *Session) Tick() error {
	if err := ss.ctx.Err(); err != nil {
		return cancelled(err)
	}
	ss.steps++
	if ss.steps > ss.s.opts.MaxSteps {
		return NewStepLimitError(ss.s.opts.MaxSteps)
	}
	return nil
}

// Visit simplifies e. The result is e itself when nothing changed in it.
func (ss *Session) Visit(e expr.Expr) (expr.Expr, error) {
	if err := ss.Tick(); err != nil {
		return nil, err
	}
	ss.stats.Visits++
	ss.depth++
	defer func() { ss.depth-- }()
	if ss.debug {
		ss.s.logger.Debug("dsimplify visit",
			slog.Int("depth", ss.depth),
			slog.String("expr", e.String()),
		)
	}

	if res, ok := ss.cache.Get(e); ok {
		ss.stats.CacheHits++
		return res, nil
	}

	curr := e
	if pre := ss.s.hooks.Pre; pre != nil {
		step, err := pre(ss, e)
		if err != nil {
			return nil, err
		}
		if step != nil {
			if !step.Continue {
				ss.cache.Put(e, step.Expr)
				return step.Expr, nil
			}
			curr = step.Expr
		}
	}

	for {
		next, err := ss.descend(curr)
		if err != nil {
			return nil, err
		}
		curr = next
		post := ss.s.hooks.Post
		if post == nil {
			break
		}
		step, err := post(ss, curr)
		if err != nil {
			return nil, err
		}
		if step == nil {
			break
		}
		curr = step.Expr
		if !step.Continue {
			break
		}
		if err := ss.Tick(); err != nil {
			return nil, err
		}
	}
	// Keyed on the input, not on what the hooks turned it into.
	ss.cache.Put(e, curr)
	return curr, nil
}

func (ss *Session) descend(e expr.Expr) (expr.Expr, error) {
	switch x := e.(type) {
	case *expr.Local, *expr.Meta, *expr.Sort, *expr.Const:
		return e, nil
	case *expr.Var:
		panic(&InvariantError{Msg: "loose bound variable " + x.String() + " reached the visitor"})
	case *expr.Macro:
		return ss.visitMacro(x)
	case *expr.Binding:
		return ss.visitBinding(x)
	case *expr.Let:
		return ss.visitLet(x)
	case *expr.App:
		return ss.visitApp(x)
	}
	panic(&InvariantError{Msg: "unknown expression kind " + e.Kind().String()})
}

func (ss *Session) visitMacro(m *expr.Macro) (expr.Expr, error) {
	args := make([]expr.Expr, len(m.Args))
	for i, a := range m.Args {
		na, err := ss.Visit(a)
		if err != nil {
			return nil, err
		}
		args[i] = na
	}
	return expr.UpdateMacro(m, args), nil
}

// visitBinding opens the maximal run of binders of the same kind as b,
// simplifying each domain under the placeholders opened before it, then the
// body under all of them.
func (ss *Session) visitBinding(b *expr.Binding) (expr.Expr, error) {
	kind := b.Kind()
	locals := ss.s.tc.TmpLocals()
	modified := false
	var cur expr.Expr = b
	for {
		x, ok := cur.(*expr.Binding)
		if !ok || x.Kind() != kind {
			break
		}
		d := locals.InstantiateRev(x.Domain)
		newD, err := ss.Visit(d)
		if err != nil {
			return nil, err
		}
		if newD != d {
			modified = true
		}
		locals.PushLocal(x.Name, newD, x.Info)
		cur = x.Body
	}
	body := locals.InstantiateRev(cur)
	newBody, err := ss.Visit(body)
	if err != nil {
		return nil, err
	}
	if newBody != body {
		modified = true
	}
	if !modified {
		return b, nil
	}
	if kind == expr.KindPi {
		return locals.MkPi(newBody), nil
	}
	return locals.MkLambda(newBody), nil
}

func (ss *Session) visitLet(l *expr.Let) (expr.Expr, error) {
	locals := ss.s.tc.TmpLocals()
	modified := false
	var cur expr.Expr = l
	for {
		x, ok := cur.(*expr.Let)
		if !ok {
			break
		}
		t := locals.InstantiateRev(x.Type)
		v := locals.InstantiateRev(x.Value)
		newT, err := ss.Visit(t)
		if err != nil {
			return nil, err
		}
		newV, err := ss.Visit(v)
		if err != nil {
			return nil, err
		}
		if newT != t || newV != v {
			modified = true
		}
		locals.PushLet(x.Name, newT, newV)
		cur = x.Body
	}
	body := locals.InstantiateRev(cur)
	newBody, err := ss.Visit(body)
	if err != nil {
		return nil, err
	}
	if newBody != body {
		modified = true
	}
	if !modified {
		return l, nil
	}
	return locals.MkLambda(newBody), nil
}

func (ss *Session) visitApp(a *expr.App) (expr.Expr, error) {
	fn, args := expr.GetAppArgs(a)
	newArgs := make([]expr.Expr, len(args))
	modified := false
	i := 0
	if !ss.s.opts.VisitInstances {
		infos := ss.s.tc.FunInfo(fn, len(args))
		for ; i < len(infos) && i < len(args); i++ {
			var na expr.Expr
			if infos[i].IsInstImplicit() {
				c, restart := ss.canon.Canonize(args[i])
				if restart {
					ss.RequestRestart()
				}
				na = c
			} else {
				var err error
				if na, err = ss.Visit(args[i]); err != nil {
					return nil, err
				}
			}
			if na != args[i] {
				modified = true
			}
			newArgs[i] = na
		}
	}
	for ; i < len(args); i++ {
		na, err := ss.Visit(args[i])
		if err != nil {
			return nil, err
		}
		if na != args[i] {
			modified = true
		}
		newArgs[i] = na
	}
	if !modified {
		return a, nil
	}
	return expr.MkApp(fn, newArgs...), nil
}
