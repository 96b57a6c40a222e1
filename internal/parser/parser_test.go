package parser_test

import (
	"errors"
	"testing"

	"github.com/funvibe/dsimp/internal/expr"
	"github.com/funvibe/dsimp/internal/lexer"
	"github.com/funvibe/dsimp/internal/parser"
	"github.com/funvibe/dsimp/internal/pipeline"
)

var nat = expr.MkConst("Nat")

func TestParseExpr(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  expr.Expr
	}{
		{"constant", "zero", expr.MkConst("zero")},
		{"application", "(add zero (succ zero))",
			expr.MkApp(expr.MkConst("add"), expr.MkConst("zero"), expr.MkApp(expr.MkConst("succ"), expr.MkConst("zero")))},
		{"metavariable", "(f ?x)", expr.MkApp(expr.MkConst("f"), expr.MkMeta("x", nil))},
		{"placeholder", "_", expr.MkConst(expr.PlaceholderName)},
		{"sorts", "(f Prop Type (Sort 2))",
			expr.MkApp(expr.MkConst("f"), expr.MkProp(), expr.MkType(), expr.MkSort(2))},
		{"lambda", "(fun (x Nat) x)", expr.MkLambda("x", nat, expr.MkVar(0), expr.BinderDefault)},
		{"lambda body is a group", "(fun (x Nat) (f x))",
			expr.MkLambda("x", nat, expr.MkApp(expr.MkConst("f"), expr.MkVar(0)), expr.BinderDefault)},
		{"shared domain", "(pi (x y Nat) Nat)",
			expr.MkPi("x", nat, expr.MkPi("y", nat, nat, expr.BinderDefault), expr.BinderDefault)},
		{"binder infos", "(pi {A Type} {{B Type}} [i (C A B)] A)",
			expr.MkPi("A", expr.MkType(),
				expr.MkPi("B", expr.MkType(),
					expr.MkPi("i", expr.MkApp(expr.MkConst("C"), expr.MkVar(1), expr.MkVar(0)),
						expr.MkVar(2), expr.BinderInstImplicit),
					expr.BinderStrictImplicit),
				expr.BinderImplicit)},
		{"let", "(let (x Nat zero) (y Nat (succ x)) (add x y))",
			expr.MkLet("x", nat, expr.MkConst("zero"),
				expr.MkLet("y", nat, expr.MkApp(expr.MkConst("succ"), expr.MkVar(0)),
					expr.MkApp(expr.MkConst("add"), expr.MkVar(1), expr.MkVar(0))))},
		{"macro", "(macro as_is zero)", expr.MkMacro(expr.AsIsOp, expr.MkConst("zero"))},
		{"comment", "; leading comment\n(succ zero) ; trailing",
			expr.MkApp(expr.MkConst("succ"), expr.MkConst("zero"))},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parser.ParseExpr(tc.input)
			if err != nil {
				t.Fatalf("ParseExpr(%q) error: %v", tc.input, err)
			}
			if !expr.Equal(got, tc.want) {
				t.Errorf("ParseExpr(%q) = %s, want %s", tc.input, got, tc.want)
			}
		})
	}
}

func TestParseLocals(t *testing.T) {
	x := expr.MkLocal("_local.1", "x", nat, expr.BinderDefault)
	got, err := parser.ParseExpr("(succ x)", x)
	if err != nil {
		t.Fatalf("ParseExpr error: %v", err)
	}
	app := got.(*expr.App)
	if app.Args[0] != expr.Expr(x) {
		t.Errorf("identifier x should resolve to the supplied local, got %s", app.Args[0])
	}

	// A bound name shadows a local of the same name.
	got = parser.MustParse("(fun (x Nat) x)", x)
	if !expr.Equal(got, expr.MkLambda("x", nat, expr.MkVar(0), expr.BinderDefault)) {
		t.Errorf("bound x should shadow the local, got %s", got)
	}
}

func TestPrintRoundTrip(t *testing.T) {
	inputs := []string{
		"(fun (x Nat) {y Nat} (add x y))",
		"(pi {A Type} [inst (Add A)] (x A) (y A) A)",
		"(let (x Nat zero) (succ x))",
		"(fun (zero_1 Nat) (add zero_1 zero))",
		"(f (macro as_is ?m) Prop (Sort 3))",
		"(fun (x Nat) ((fun (x_1 Nat) (add x x_1)) x))",
	}
	for _, in := range inputs {
		e := parser.MustParse(in)
		back, err := parser.ParseExpr(e.String())
		if err != nil {
			t.Fatalf("re-parsing %q: %v", e.String(), err)
		}
		if !expr.Alpha(e, back) {
			t.Errorf("round trip of %q gave %s", in, back)
		}
	}
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		input  string
		line   int
		column int
	}{
		{"(add zero", 1, 10},
		{"(fun x)", 1, 6},
		{"zero zero", 1, 6},
		{"(Sort x)", 1, 7},
		{")", 1, 1},
		{"(f\n  ]", 2, 3},
	}
	for _, tc := range testCases {
		_, err := parser.ParseExpr(tc.input)
		var pe *parser.ParseError
		if !errors.As(err, &pe) {
			t.Errorf("ParseExpr(%q) error = %v, want *ParseError", tc.input, err)
			continue
		}
		if pe.Line != tc.line || pe.Column != tc.column {
			t.Errorf("ParseExpr(%q) error at %d:%d, want %d:%d (%s)",
				tc.input, pe.Line, pe.Column, tc.line, tc.column, pe.Msg)
		}
	}
}

func TestParserProcessor(t *testing.T) {
	ctx := pipeline.NewPipelineContext("(succ zero)")
	ctx = (&lexer.LexerProcessor{}).Process(ctx)
	ctx = (&parser.ParserProcessor{}).Process(ctx)
	if ctx.Failed() {
		t.Fatalf("unexpected errors: %v", ctx.Errors)
	}
	if ctx.Expr == nil || ctx.Expr.String() != "(succ zero)" {
		t.Errorf("Expr = %v, want (succ zero)", ctx.Expr)
	}

	ctx = pipeline.NewPipelineContext("(succ")
	ctx = (&lexer.LexerProcessor{}).Process(ctx)
	ctx = (&parser.ParserProcessor{}).Process(ctx)
	if !ctx.Failed() {
		t.Errorf("expected a parse error")
	}
}
