package pexpr

import (
	"testing"

	"github.com/funvibe/dsimp/internal/expr"
)

func TestRawRoundTrip(t *testing.T) {
	e := expr.MkApp(expr.MkConst("succ"), expr.MkConst("zero"))
	if got := ToRawExpr(OfRawExpr(e)); got != e {
		t.Errorf("ToRawExpr(OfRawExpr(e)) = %s, want e itself", got)
	}
	if IsAsIs(OfRawExpr(e)) {
		t.Errorf("a raw expression is not marked as is")
	}
}

func TestAsIs(t *testing.T) {
	e := expr.MkConst("zero")
	p := OfExpr(e)
	if !IsAsIs(p) {
		t.Fatalf("OfExpr should mark the expression as is")
	}
	if got, ok := GetAsIsArg(p); !ok || got != expr.Expr(e) {
		t.Errorf("GetAsIsArg = %v, %v; want zero, true", got, ok)
	}
	if _, ok := GetAsIsArg(OfRawExpr(e)); ok {
		t.Errorf("GetAsIsArg on an unmarked expression should fail")
	}
	if got := ToString(p); got != "(macro as_is zero)" {
		t.Errorf("ToString = %q", got)
	}
}

func TestPlaceholder(t *testing.T) {
	if !IsPlaceholder(MkPlaceholder()) {
		t.Errorf("MkPlaceholder is not a placeholder")
	}
	if IsPlaceholder(OfRawExpr(expr.MkConst("zero"))) {
		t.Errorf("zero is not a placeholder")
	}
}

func TestSubst(t *testing.T) {
	nat := expr.MkConst("Nat")
	lam := expr.MkLambda("x", nat, expr.MkApp(expr.MkConst("succ"), expr.MkVar(0)), expr.BinderDefault)
	got := Subst(OfRawExpr(lam), OfRawExpr(expr.MkConst("zero")))
	if got.String() != "(succ zero)" {
		t.Errorf("Subst = %s, want (succ zero)", got)
	}

	notLam := OfRawExpr(expr.MkPi("x", nat, nat, expr.BinderDefault))
	if got := Subst(notLam, MkPlaceholder()); ToRawExpr(got) != ToRawExpr(notLam) {
		t.Errorf("Subst on a pi should return it unchanged")
	}
}

func TestZeroValueString(t *testing.T) {
	var p PExpr
	if p.String() != "<nil>" {
		t.Errorf("zero PExpr prints %q", p.String())
	}
}
