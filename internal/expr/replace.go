package expr

import set "github.com/hashicorp/go-set/v2"

// ReplaceFunc is consulted on every subterm visited by Replace. offset is
// the number of binders between the root and sub. Returning (r, true) puts r
// in place of sub without descending into it.
type ReplaceFunc func(sub Expr, offset uint32) (Expr, bool)

type replaceKey struct {
	e      Expr
	offset uint32
}

type replacer struct {
	f     ReplaceFunc
	cache map[replaceKey]Expr
}

// Replace rebuilds e bottom-up with f. Subtrees where nothing changed are
// returned as-is, so Replace(e, f) == e when f never fires.
func Replace(e Expr, f ReplaceFunc) Expr {
	r := &replacer{f: f}
	return r.visit(e, 0)
}

func (r *replacer) visit(e Expr, offset uint32) Expr {
	if res, ok := r.f(e, offset); ok {
		return res
	}
	shared := e.Weight() > 1
	if shared && r.cache != nil {
		if res, ok := r.cache[replaceKey{e, offset}]; ok {
			return res
		}
	}
	var res Expr
	switch x := e.(type) {
	case *Macro:
		res = UpdateMacro(x, r.visitAll(x.Args, offset))
	case *Binding:
		res = UpdateBinding(x, r.visit(x.Domain, offset), r.visit(x.Body, offset+1))
	case *Let:
		res = UpdateLet(x, r.visit(x.Type, offset), r.visit(x.Value, offset), r.visit(x.Body, offset+1))
	case *App:
		res = UpdateApp(x, r.visit(x.Fn, offset), r.visitAll(x.Args, offset))
	default:
		res = e
	}
	if shared {
		if r.cache == nil {
			r.cache = make(map[replaceKey]Expr)
		}
		r.cache[replaceKey{e, offset}] = res
	}
	return res
}

func (r *replacer) visitAll(args []Expr, offset uint32) []Expr {
	var out []Expr
	for i, a := range args {
		n := r.visit(a, offset)
		if n != a && out == nil {
			out = make([]Expr, len(args))
			copy(out, args[:i])
		}
		if out != nil {
			out[i] = n
		}
	}
	if out == nil {
		return args
	}
	return out
}

// Instantiate replaces the loose bound variables 0..len(subst)-1 of e with
// subst[0..]: Var(i) becomes subst[i]. Higher loose variables are lowered.
func Instantiate(e Expr, subst ...Expr) Expr {
	n := uint32(len(subst))
	if n == 0 || e.LooseBVarRange() == 0 {
		return e
	}
	return Replace(e, func(sub Expr, offset uint32) (Expr, bool) {
		if sub.LooseBVarRange() <= offset {
			return sub, true
		}
		if v, ok := sub.(*Var); ok {
			if v.Idx < offset+n {
				return LiftLooseBVars(subst[v.Idx-offset], 0, offset), true
			}
			return MkVar(v.Idx - n), true
		}
		return nil, false
	})
}

// InstantiateRev is Instantiate with subst reversed: Var(0) becomes the last
// element. This is the natural order for a telescope of opened binders.
func InstantiateRev(e Expr, subst ...Expr) Expr {
	n := uint32(len(subst))
	if n == 0 || e.LooseBVarRange() == 0 {
		return e
	}
	return Replace(e, func(sub Expr, offset uint32) (Expr, bool) {
		if sub.LooseBVarRange() <= offset {
			return sub, true
		}
		if v, ok := sub.(*Var); ok {
			if v.Idx < offset+n {
				return LiftLooseBVars(subst[n-(v.Idx-offset)-1], 0, offset), true
			}
			return MkVar(v.Idx - n), true
		}
		return nil, false
	})
}

// LiftLooseBVars adds d to every loose bound variable of e whose index is at
// least s.
func LiftLooseBVars(e Expr, s, d uint32) Expr {
	if d == 0 || e.LooseBVarRange() <= s {
		return e
	}
	return Replace(e, func(sub Expr, offset uint32) (Expr, bool) {
		if sub.LooseBVarRange() <= s+offset {
			return sub, true
		}
		if v, ok := sub.(*Var); ok {
			return MkVar(v.Idx + d), true
		}
		return nil, false
	})
}

// LowerLooseBVars subtracts d from every loose bound variable of e whose
// index is at least s. The caller guarantees no index in [s-d, s) is loose.
func LowerLooseBVars(e Expr, s, d uint32) Expr {
	if d == 0 || e.LooseBVarRange() <= s {
		return e
	}
	return Replace(e, func(sub Expr, offset uint32) (Expr, bool) {
		if sub.LooseBVarRange() <= s+offset {
			return sub, true
		}
		if v, ok := sub.(*Var); ok {
			return MkVar(v.Idx - d), true
		}
		return nil, false
	})
}

// HasLooseBVar reports whether Var(i) occurs loose in e.
func HasLooseBVar(e Expr, i uint32) bool {
	found := false
	Replace(e, func(sub Expr, offset uint32) (Expr, bool) {
		if found || sub.LooseBVarRange() <= i+offset {
			return sub, true
		}
		if v, ok := sub.(*Var); ok {
			found = v.Idx == i+offset
			return sub, true
		}
		return nil, false
	})
	return found
}

// Abstract replaces every occurrence of the given locals in e by bound
// variables. The last local becomes Var(0), matching InstantiateRev.
func Abstract(e Expr, locals ...*Local) Expr {
	n := len(locals)
	if n == 0 || !e.HasLocal() {
		return e
	}
	return Replace(e, func(sub Expr, offset uint32) (Expr, bool) {
		if !sub.HasLocal() {
			return sub, true
		}
		if l, ok := sub.(*Local); ok {
			for i := n - 1; i >= 0; i-- {
				if locals[i].Name == l.Name {
					return MkVar(offset + uint32(n-1-i)), true
				}
			}
			return sub, true
		}
		return nil, false
	})
}

// InstantiateMetas replaces assigned metavariables. Unassigned ones are kept.
func InstantiateMetas(e Expr, assignment map[string]Expr) Expr {
	if len(assignment) == 0 || !e.HasMeta() {
		return e
	}
	return Replace(e, func(sub Expr, offset uint32) (Expr, bool) {
		if !sub.HasMeta() {
			return sub, true
		}
		if m, ok := sub.(*Meta); ok {
			if v, ok := assignment[m.Name]; ok {
				return LiftLooseBVars(v, 0, offset), true
			}
			return sub, true
		}
		return nil, false
	})
}

// CollectMetas returns the names of the metavariables occurring in e.
func CollectMetas(e Expr) *set.Set[string] {
	out := set.New[string](0)
	Replace(e, func(sub Expr, _ uint32) (Expr, bool) {
		if !sub.HasMeta() {
			return sub, true
		}
		if m, ok := sub.(*Meta); ok {
			out.Insert(m.Name)
			return sub, true
		}
		return nil, false
	})
	return out
}

// CollectLocals returns the names of the locals occurring in e.
func CollectLocals(e Expr) *set.Set[string] {
	out := set.New[string](0)
	Replace(e, func(sub Expr, _ uint32) (Expr, bool) {
		if !sub.HasLocal() {
			return sub, true
		}
		if l, ok := sub.(*Local); ok {
			out.Insert(l.Name)
			return sub, true
		}
		return nil, false
	})
	return out
}
