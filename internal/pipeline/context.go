package pipeline

import (
	"context"

	"github.com/funvibe/dsimp/internal/expr"
	"github.com/funvibe/dsimp/internal/token"
)

// Processor is one stage of a pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Stats mirrors the counters of one simplification.
type Stats struct {
	Steps     int
	Visits    int
	CacheHits int
	Passes    int
	Restarts  int
	Rewrites  int
}

// PipelineContext carries one expression through the stages.
type PipelineContext struct {
	Context     context.Context
	SourceCode  string
	FilePath    string
	TokenStream []token.Token

	// Locals are free variables the source may mention by name.
	Locals []*expr.Local

	Expr   expr.Expr
	Result expr.Expr
	Stats  Stats
	Output string

	Errors []error
}

func NewPipelineContext(sourceCode string) *PipelineContext {
	return &PipelineContext{
		Context:    context.Background(),
		SourceCode: sourceCode,
	}
}

func (c *PipelineContext) Failed() bool {
	return len(c.Errors) > 0
}
