package parser

import (
	"errors"

	"github.com/funvibe/dsimp/internal/pipeline"
)

type ParserProcessor struct{}

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.TokenStream == nil {
		ctx.Errors = append(ctx.Errors, errors.New("parser: token stream is nil"))
		return ctx
	}

	e, err := NewFromTokens(ctx.TokenStream, ctx.Locals...).ParseExpr()
	if err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.Expr = e
	return ctx
}
