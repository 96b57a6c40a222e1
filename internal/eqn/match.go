package eqn

import "github.com/funvibe/dsimp/internal/expr"

// Match matches pattern against term, extending assignment with bindings
// for the pattern's metavariables. Matching is first-order and syntactic up
// to binder names; a metavariable that occurs twice must be bound to
// alpha-equivalent terms. Terms mentioning variables bound inside the
// pattern cannot be assigned to a metavariable.
func Match(pattern, term expr.Expr, assignment map[string]expr.Expr) bool {
	return match(pattern, term, assignment)
}

func match(p, t expr.Expr, asg map[string]expr.Expr) bool {
	if m, ok := p.(*expr.Meta); ok {
		if t.LooseBVarRange() > 0 {
			return false
		}
		if prev, bound := asg[m.Name]; bound {
			return expr.Alpha(prev, t)
		}
		asg[m.Name] = t
		return true
	}
	if !p.HasMeta() {
		return expr.Alpha(p, t)
	}
	if p.Kind() != t.Kind() {
		return false
	}
	switch x := p.(type) {
	case *expr.App:
		y := t.(*expr.App)
		if len(x.Args) != len(y.Args) || !match(x.Fn, y.Fn, asg) {
			return false
		}
		for i := range x.Args {
			if !match(x.Args[i], y.Args[i], asg) {
				return false
			}
		}
		return true
	case *expr.Macro:
		y := t.(*expr.Macro)
		if x.Op != y.Op || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !match(x.Args[i], y.Args[i], asg) {
				return false
			}
		}
		return true
	case *expr.Binding:
		y := t.(*expr.Binding)
		return x.Info == y.Info &&
			match(x.Domain, y.Domain, asg) &&
			match(x.Body, y.Body, asg)
	case *expr.Let:
		y := t.(*expr.Let)
		return match(x.Type, y.Type, asg) &&
			match(x.Value, y.Value, asg) &&
			match(x.Body, y.Body, asg)
	}
	return false
}

// Rewrite applies eq to e at the root. It returns the instantiated
// right-hand side, or false when the left-hand side does not match.
func Rewrite(e expr.Expr, eq *Equation) (expr.Expr, bool) {
	asg := make(map[string]expr.Expr)
	if !Match(eq.LHS, e, asg) {
		return nil, false
	}
	return expr.InstantiateMetas(eq.RHS, asg), true
}
