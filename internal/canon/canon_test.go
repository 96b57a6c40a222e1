package canon

import (
	"testing"

	"github.com/funvibe/dsimp/internal/expr"
	"github.com/funvibe/dsimp/internal/tctx"
)

var (
	nat       = expr.MkConst("Nat")
	zero      = expr.MkConst("zero")
	instAdd   = expr.MkConst("instAddNat")
	instAdd2  = expr.MkConst("instAddNat2")
	wrapConst = expr.MkConst("wrap")
	constFn   = expr.MkConst("const")
)

func newTestContext(t *testing.T) *tctx.Context {
	t.Helper()
	addNat := expr.MkApp(expr.MkConst("Add"), nat)
	env := tctx.NewEnvironment()
	decls := []*tctx.Declaration{
		{Name: "instAddNat", Type: addNat},
		{Name: "instAddNat2", Type: addNat, Value: instAdd},
		{Name: "wrap", Type: expr.MkArrow(addNat, addNat), Value: expr.MkLambda("i", addNat, expr.MkVar(0), expr.BinderDefault)},
		{Name: "const", Type: expr.MkArrow(nat, expr.MkArrow(nat, nat)),
			Value: expr.MkLambda("a", nat, expr.MkLambda("b", nat, expr.MkVar(1), expr.BinderDefault), expr.BinderDefault)},
	}
	for _, d := range decls {
		if err := env.Add(d); err != nil {
			t.Fatal(err)
		}
	}
	return tctx.New(env)
}

func TestFirstSeenIsRepresentative(t *testing.T) {
	c := NewDefEq(newTestContext(t))

	got, restart := c.Canonize(instAdd2)
	if got != expr.Expr(instAdd2) || restart {
		t.Fatalf("Canonize(instAddNat2) = %s, %v; want itself, false", got, restart)
	}
	// Same weight: the existing representative wins.
	got, restart = c.Canonize(instAdd)
	if got != expr.Expr(instAdd2) || restart {
		t.Errorf("Canonize(instAddNat) = %s, %v; want instAddNat2, false", got, restart)
	}
	if n := c.Representatives(); n != 1 {
		t.Errorf("Representatives() = %d, want 1", n)
	}
}

func TestLighterTermReplacesRepresentative(t *testing.T) {
	c := NewDefEq(newTestContext(t))
	heavy := expr.MkApp(wrapConst, instAdd)

	if got, restart := c.Canonize(heavy); got != heavy || restart {
		t.Fatalf("Canonize(heavy) = %s, %v; want itself, false", got, restart)
	}
	got, restart := c.Canonize(instAdd)
	if got != expr.Expr(instAdd) || !restart {
		t.Fatalf("Canonize(instAddNat) = %s, %v; want itself, true", got, restart)
	}
	// Earlier answers are invalidated.
	if got, restart := c.Canonize(heavy); got != expr.Expr(instAdd) || restart {
		t.Errorf("Canonize(heavy) after replacement = %s, %v; want instAddNat, false", got, restart)
	}
}

func TestLocalsScoping(t *testing.T) {
	ctx := newTestContext(t)

	t.Run("lighter term with the same locals", func(t *testing.T) {
		c := NewDefEq(ctx)
		l := ctx.MkLocal("l", nat, expr.BinderDefault)
		rep := expr.MkApp(constFn, l, zero)
		c.Canonize(rep)
		if got, restart := c.Canonize(l); got != expr.Expr(l) || !restart {
			t.Errorf("Canonize(l) = %s, %v; want l, true", got, restart)
		}
	})

	t.Run("lighter term with a new local", func(t *testing.T) {
		c := NewDefEq(ctx)
		rep := expr.MkApp(constFn, zero, zero)
		c.Canonize(rep)
		l := ctx.MkLetLocal("l", nat, zero)
		if got, restart := c.Canonize(l); got != rep || restart {
			t.Errorf("Canonize(l) = %s, %v; want %s, false", got, restart, rep)
		}
	})

	t.Run("representative out of scope", func(t *testing.T) {
		c := NewDefEq(ctx)
		l := ctx.MkLocal("l", nat, expr.BinderDefault)
		rep := expr.MkApp(constFn, zero, l)
		c.Canonize(rep)
		if got, restart := c.Canonize(zero); got != expr.Expr(zero) || restart {
			t.Errorf("Canonize(zero) = %s, %v; want zero, false", got, restart)
		}
		if n := c.Representatives(); n != 2 {
			t.Errorf("Representatives() = %d, want 2", n)
		}
		// The earlier representative is still used where its local is in scope.
		e := expr.MkApp(constFn, zero, expr.MkApp(constFn, l, l))
		if got, _ := c.Canonize(e); got != rep {
			t.Errorf("Canonize(%s) = %s, want %s", e, got, rep)
		}
	})
}

func TestDistinctClasses(t *testing.T) {
	c := NewDefEq(newTestContext(t))
	c.Canonize(instAdd)
	if got, _ := c.Canonize(zero); got != expr.Expr(zero) {
		t.Errorf("unrelated term mapped to %s", got)
	}
	if n := c.Representatives(); n != 2 {
		t.Errorf("Representatives() = %d, want 2", n)
	}
}
