package simp

import (
	"log/slog"

	"github.com/funvibe/dsimp/internal/eqn"
	"github.com/funvibe/dsimp/internal/expr"
	"github.com/funvibe/dsimp/internal/tctx"
)

// NewDsimplifier returns a Simplifier that rewrites every node, after its
// children, with the unconditional equations of idx until none applies.
// Later options may replace the Post hook; a Pre hook can be added with
// WithPre.
func NewDsimplifier(tc *tctx.Context, idx *eqn.Index, opts Options, options ...Option) *Simplifier {
	rw := &rewriter{idx: idx}
	all := append([]Option{WithPost(rw.post)}, options...)
	return New(tc, opts, all...)
}

type rewriter struct {
	idx *eqn.Index
}

func (rw *rewriter) post(ss *Session, e expr.Expr) (*Step, error) {
	curr := e
	for {
		if err := ss.Tick(); err != nil {
			return nil, err
		}
		eqs, ok := rw.idx.Find(curr)
		if !ok {
			break
		}
		next, eq := rewriteFirst(curr, eqs)
		if eq == nil || expr.Equal(next, curr) {
			break
		}
		ss.stats.Rewrites++
		if ss.debug {
			ss.s.logger.Debug("dsimplify rewrite",
				slog.String("equation", eq.Name),
				slog.String("from", curr.String()),
				slog.String("to", next.String()),
			)
		}
		curr = next
	}
	if curr == e || expr.Equal(curr, e) {
		return nil, nil
	}
	return &Step{Expr: curr, Continue: true}, nil
}

// rewriteFirst applies the first unconditional equation of eqs that matches e.
func rewriteFirst(e expr.Expr, eqs []*eqn.Equation) (expr.Expr, *eqn.Equation) {
	for _, eq := range eqs {
		if !eq.IsUnconditional() {
			continue
		}
		if res, ok := eqn.Rewrite(e, eq); ok {
			return res, eq
		}
	}
	return nil, nil
}
