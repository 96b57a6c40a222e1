package simp

import (
	"errors"

	"github.com/funvibe/dsimp/internal/pipeline"
)

// Processor runs a Simplifier as a pipeline stage.
type Processor struct {
	Simplifier *Simplifier
}

func NewProcessor(s *Simplifier) *Processor {
	return &Processor{Simplifier: s}
}

func (p *Processor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Expr == nil {
		ctx.Errors = append(ctx.Errors, errors.New("simplify: no expression"))
		return ctx
	}
	res, st, err := p.Simplifier.SimplifyWithStats(ctx.Context, ctx.Expr)
	ctx.Stats = pipeline.Stats{
		Steps:     st.Steps,
		Visits:    st.Visits,
		CacheHits: st.CacheHits,
		Passes:    st.Passes,
		Restarts:  st.Restarts,
		Rewrites:  st.Rewrites,
	}
	if err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.Result = res
	return ctx
}
