package expr

import "math"

const (
	seedVar uint64 = 0x9e3779b97f4a7c15 + iota
	seedLocal
	seedMeta
	seedSort
	seedConst
	seedMacro
	seedLambda
	seedPi
	seedLet
	seedApp
)

func mix(h, v uint64) uint64 {
	h ^= v + 0x9e3779b97f4a7c15 + (h << 6) + (h >> 2)
	return h
}

// hashString is FNV-1a, inlined to avoid allocating a hash.Hash per node.
func hashString(s string) uint64 {
	h := uint64(14695981039346656037)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= 1099511628211
	}
	return h
}

func addWeight(a, b uint32) uint32 {
	if a > math.MaxUint32-b {
		return math.MaxUint32
	}
	return a + b
}

// under returns the loose range of a body once the enclosing binder is removed.
func under(r uint32) uint32 {
	if r == 0 {
		return 0
	}
	return r - 1
}

func combine(n *nodeInfo, child Expr) {
	ci := child.info()
	n.hash = mix(n.hash, ci.hash)
	n.weight = addWeight(n.weight, ci.weight)
	if ci.bvRange > n.bvRange {
		n.bvRange = ci.bvRange
	}
	n.hasLocal = n.hasLocal || ci.hasLocal
	n.hasMeta = n.hasMeta || ci.hasMeta
}

func MkVar(idx uint32) *Var {
	return &Var{
		nodeInfo: nodeInfo{hash: mix(seedVar, uint64(idx)), weight: 1, bvRange: idx + 1},
		Idx:      idx,
	}
}

// MkLocal creates a placeholder for an opened binder. Name must be unique.
func MkLocal(name, prettyName string, typ Expr, bi BinderInfo) *Local {
	return &Local{
		nodeInfo:   nodeInfo{hash: mix(seedLocal, hashString(name)), weight: 1, hasLocal: true},
		Name:       name,
		PrettyName: prettyName,
		Type:       typ,
		Info:       bi,
	}
}

// MkLetLocal creates a placeholder for an opened let-binding.
func MkLetLocal(name, prettyName string, typ, value Expr) *Local {
	l := MkLocal(name, prettyName, typ, BinderDefault)
	l.Value = value
	return l
}

func MkMeta(name string, typ Expr) *Meta {
	return &Meta{
		nodeInfo: nodeInfo{hash: mix(seedMeta, hashString(name)), weight: 1, hasMeta: true},
		Name:     name,
		Type:     typ,
	}
}

func MkSort(level uint32) *Sort {
	return &Sort{
		nodeInfo: nodeInfo{hash: mix(seedSort, uint64(level)), weight: 1},
		Level:    level,
	}
}

// MkProp returns Sort 0.
func MkProp() *Sort { return MkSort(0) }

// MkType returns Sort 1.
func MkType() *Sort { return MkSort(1) }

func MkConst(name string) *Const {
	return &Const{
		nodeInfo: nodeInfo{hash: mix(seedConst, hashString(name)), weight: 1},
		Name:     name,
	}
}

func MkMacro(op string, args ...Expr) *Macro {
	m := &Macro{
		nodeInfo: nodeInfo{hash: mix(seedMacro, hashString(op)), weight: 1},
		Op:       op,
		Args:     append([]Expr(nil), args...),
	}
	for _, a := range m.Args {
		combine(&m.nodeInfo, a)
	}
	return m
}

// MkBinding creates a Lambda or Pi node depending on kind.
func MkBinding(kind Kind, name string, domain, body Expr, bi BinderInfo) *Binding {
	if kind != KindLambda && kind != KindPi {
		panic("expr.MkBinding: kind must be lambda or pi, got " + kind.String())
	}
	seed := seedLambda
	if kind == KindPi {
		seed = seedPi
	}
	b := &Binding{
		nodeInfo: nodeInfo{hash: mix(seed, uint64(bi)), weight: 1},
		kind:     kind,
		Name:     name,
		Domain:   domain,
		Body:     body,
		Info:     bi,
	}
	combine(&b.nodeInfo, domain)
	bodyRange := body.LooseBVarRange()
	combine(&b.nodeInfo, body)
	b.bvRange = max(domain.LooseBVarRange(), under(bodyRange))
	return b
}

func MkLambda(name string, domain, body Expr, bi BinderInfo) *Binding {
	return MkBinding(KindLambda, name, domain, body, bi)
}

func MkPi(name string, domain, body Expr, bi BinderInfo) *Binding {
	return MkBinding(KindPi, name, domain, body, bi)
}

// MkArrow creates a non-dependent Pi.
func MkArrow(domain, codomain Expr) *Binding {
	return MkPi("a", domain, LiftLooseBVars(codomain, 0, 1), BinderDefault)
}

func MkLet(name string, typ, value, body Expr) *Let {
	l := &Let{
		nodeInfo: nodeInfo{hash: seedLet, weight: 1},
		Name:     name,
		Type:     typ,
		Value:    value,
		Body:     body,
	}
	combine(&l.nodeInfo, typ)
	combine(&l.nodeInfo, value)
	combine(&l.nodeInfo, body)
	l.bvRange = max(typ.LooseBVarRange(), value.LooseBVarRange(), under(body.LooseBVarRange()))
	return l
}

// MkApp applies fn to args. Nested applications are flattened so that the
// function of an App is never an App. With no arguments fn is returned.
func MkApp(fn Expr, args ...Expr) Expr {
	if len(args) == 0 {
		return fn
	}
	var all []Expr
	if inner, ok := fn.(*App); ok {
		fn = inner.Fn
		all = make([]Expr, 0, len(inner.Args)+len(args))
		all = append(all, inner.Args...)
	} else {
		all = make([]Expr, 0, len(args))
	}
	all = append(all, args...)
	a := &App{
		nodeInfo: nodeInfo{hash: seedApp, weight: 1},
		Fn:       fn,
		Args:     all,
	}
	combine(&a.nodeInfo, fn)
	for _, arg := range all {
		combine(&a.nodeInfo, arg)
	}
	return a
}

// GetAppArgs returns the head function and the arguments of e. For anything
// but an App the head is e itself and there are no arguments.
func GetAppArgs(e Expr) (Expr, []Expr) {
	if a, ok := e.(*App); ok {
		return a.Fn, a.Args
	}
	return e, nil
}

// GetAppFn returns the head of an application, or e itself.
func GetAppFn(e Expr) Expr {
	if a, ok := e.(*App); ok {
		return a.Fn
	}
	return e
}

// UpdateMacro returns m when args are identical to its arguments.
func UpdateMacro(m *Macro, args []Expr) Expr {
	if sameExprs(m.Args, args) {
		return m
	}
	return MkMacro(m.Op, args...)
}

// UpdateBinding returns b when domain and body are both unchanged.
func UpdateBinding(b *Binding, domain, body Expr) Expr {
	if b.Domain == domain && b.Body == body {
		return b
	}
	return MkBinding(b.kind, b.Name, domain, body, b.Info)
}

// UpdateLet returns l when no component changed.
func UpdateLet(l *Let, typ, value, body Expr) Expr {
	if l.Type == typ && l.Value == value && l.Body == body {
		return l
	}
	return MkLet(l.Name, typ, value, body)
}

// UpdateApp returns a when fn and args are identical to its components.
func UpdateApp(a *App, fn Expr, args []Expr) Expr {
	if a.Fn == fn && sameExprs(a.Args, args) {
		return a
	}
	return MkApp(fn, args...)
}

func sameExprs(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
