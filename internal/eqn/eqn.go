// Package eqn holds rewrite equations and the head-symbol index used to
// find the ones that may apply to a term.
package eqn

import (
	"errors"
	"fmt"

	"github.com/funvibe/dsimp/internal/expr"
)

// ErrNoHead is returned when an equation's left-hand side has no head that
// can be indexed (for instance a bare metavariable).
var ErrNoHead = errors.New("left-hand side has no indexable head")

// Equation rewrites LHS to RHS. Metavariables in LHS are pattern variables;
// every metavariable of RHS must occur in LHS. An equation with hypotheses
// is conditional and is never applied by the unconditional rewriter.
type Equation struct {
	Name       string
	LHS        expr.Expr
	RHS        expr.Expr
	Hypotheses []expr.Expr
}

// IsUnconditional reports whether the equation holds without side
// conditions, so it can be used for direct left-to-right substitution.
func (eq *Equation) IsUnconditional() bool {
	return len(eq.Hypotheses) == 0
}

func (eq *Equation) String() string {
	return fmt.Sprintf("%s : %s = %s", eq.Name, eq.LHS, eq.RHS)
}

// Validate checks that the equation can be indexed and that its right-hand
// side introduces no pattern variable the left-hand side does not bind.
func (eq *Equation) Validate() error {
	if _, ok := HeadOf(eq.LHS); !ok {
		return fmt.Errorf("equation %s: %w", eq.Name, ErrNoHead)
	}
	lhsVars := expr.CollectMetas(eq.LHS)
	for _, v := range expr.CollectMetas(eq.RHS).Slice() {
		if !lhsVars.Contains(v) {
			return fmt.Errorf("equation %s: right-hand side variable ?%s is not bound by the left-hand side", eq.Name, v)
		}
	}
	return nil
}

// Key identifies the head symbol of a term.
type Key struct {
	Kind expr.Kind
	Name string
}

func (k Key) String() string {
	if k.Name == "" {
		return k.Kind.String()
	}
	return k.Kind.String() + ":" + k.Name
}

// HeadOf returns the index key of e: the name of the constant or local at
// the head of an application, the operator of a macro, or the node kind for
// binders and sorts. Metavariable and bound-variable heads are not indexable.
func HeadOf(e expr.Expr) (Key, bool) {
	fn := expr.GetAppFn(e)
	switch x := fn.(type) {
	case *expr.Const:
		return Key{Kind: expr.KindConst, Name: x.Name}, true
	case *expr.Local:
		return Key{Kind: expr.KindLocal, Name: x.Name}, true
	case *expr.Macro:
		return Key{Kind: expr.KindMacro, Name: x.Op}, true
	case *expr.Sort, *expr.Binding, *expr.Let:
		return Key{Kind: fn.Kind()}, true
	}
	return Key{}, false
}

// Index maps head keys to equations in insertion order.
type Index struct {
	byHead map[Key][]*Equation
	all    []*Equation
}

func NewIndex() *Index {
	return &Index{byHead: make(map[Key][]*Equation)}
}

// Add appends eq to the bucket of its head.
func (idx *Index) Add(eq *Equation) error {
	if err := eq.Validate(); err != nil {
		return err
	}
	key, _ := HeadOf(eq.LHS)
	idx.byHead[key] = append(idx.byHead[key], eq)
	idx.all = append(idx.all, eq)
	return nil
}

// Find returns the equations whose left-hand side has the same head as e,
// in the order they were added.
func (idx *Index) Find(e expr.Expr) ([]*Equation, bool) {
	key, ok := HeadOf(e)
	if !ok {
		return nil, false
	}
	eqs, ok := idx.byHead[key]
	return eqs, ok && len(eqs) > 0
}

func (idx *Index) Len() int { return len(idx.all) }

// Equations returns every equation in insertion order.
func (idx *Index) Equations() []*Equation {
	return append([]*Equation(nil), idx.all...)
}
