package expr

// Equal reports whether a and b are structurally identical, including binder
// names and binder info. Locals and metavariables compare by name.
func Equal(a, b Expr) bool {
	return equal(a, b, true)
}

// Alpha reports whether a and b are equal up to the names of their binders.
func Alpha(a, b Expr) bool {
	return equal(a, b, false)
}

func equal(a, b Expr, names bool) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Kind() != b.Kind() || a.Hash() != b.Hash() || a.Weight() != b.Weight() {
		return false
	}
	switch x := a.(type) {
	case *Var:
		return x.Idx == b.(*Var).Idx
	case *Local:
		return x.Name == b.(*Local).Name
	case *Meta:
		return x.Name == b.(*Meta).Name
	case *Sort:
		return x.Level == b.(*Sort).Level
	case *Const:
		return x.Name == b.(*Const).Name
	case *Macro:
		y := b.(*Macro)
		return x.Op == y.Op && equalAll(x.Args, y.Args, names)
	case *Binding:
		y := b.(*Binding)
		if x.Info != y.Info || (names && x.Name != y.Name) {
			return false
		}
		return equal(x.Domain, y.Domain, names) && equal(x.Body, y.Body, names)
	case *Let:
		y := b.(*Let)
		if names && x.Name != y.Name {
			return false
		}
		return equal(x.Type, y.Type, names) &&
			equal(x.Value, y.Value, names) &&
			equal(x.Body, y.Body, names)
	case *App:
		y := b.(*App)
		return equal(x.Fn, y.Fn, names) && equalAll(x.Args, y.Args, names)
	}
	return false
}

func equalAll(a, b []Expr, names bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equal(a[i], b[i], names) {
			return false
		}
	}
	return true
}
