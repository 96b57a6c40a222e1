// Package canon maps definitionally equal terms to one representative.
//
// The canonizer is used for instance-implicit arguments: typeclass witnesses
// are often different terms that reduce to the same thing, and rewriting
// inside them is wasted work. Giving them all the same representative keeps
// later syntactic comparisons stable.
package canon

import (
	"github.com/funvibe/dsimp/internal/expr"
	"github.com/funvibe/dsimp/internal/tctx"
)

// Canonizer returns the representative of e, and reports whether an
// earlier decision may have been invalidated (the caller should restart).
type Canonizer interface {
	Canonize(e expr.Expr) (expr.Expr, bool)
}

// DefEq is the Canonizer backed by the definitional equality of a context.
//
// Representatives are bucketed by the hash of their normal form. A term maps
// to a representative it is definitionally equal to, provided every local of
// the representative also occurs in the term. When the new term is lighter and
// mentions no local the representative lacks, it replaces the representative
// and a restart is requested, because terms canonized earlier now have a
// different representative.
type DefEq struct {
	ctx   *tctx.Context
	reps  map[uint64][]expr.Expr
	cache *expr.Map[expr.Expr]
}

func NewDefEq(ctx *tctx.Context) *DefEq {
	return &DefEq{
		ctx:   ctx,
		reps:  make(map[uint64][]expr.Expr),
		cache: expr.NewMap[expr.Expr](),
	}
}

func (c *DefEq) Canonize(e expr.Expr) (expr.Expr, bool) {
	if rep, ok := c.cache.Get(e); ok {
		return rep, false
	}
	key := c.key(e)
	bucket := c.reps[key]
	for i, rep := range bucket {
		// A representative mentioning locals e does not may belong to a
		// binder that is not in scope here.
		if !localsSubset(rep, e) || !c.ctx.IsDefEq(e, rep) {
			continue
		}
		if e.Weight() < rep.Weight() && localsSubset(e, rep) {
			bucket[i] = e
			c.cache.Clear()
			c.cache.Put(e, e)
			return e, true
		}
		c.cache.Put(e, rep)
		return rep, false
	}
	c.reps[key] = append(bucket, e)
	c.cache.Put(e, e)
	return e, false
}

// Representatives returns the number of distinct representatives.
func (c *DefEq) Representatives() int {
	n := 0
	for _, b := range c.reps {
		n += len(b)
	}
	return n
}

func (c *DefEq) key(e expr.Expr) uint64 {
	if nf, ok := c.ctx.Normalize(e); ok {
		return nf.Hash()
	}
	return e.Hash()
}

// localsSubset reports whether every local of a also occurs in b.
func localsSubset(a, b expr.Expr) bool {
	if !a.HasLocal() {
		return true
	}
	if !b.HasLocal() {
		return false
	}
	return expr.CollectLocals(b).Subset(expr.CollectLocals(a))
}
