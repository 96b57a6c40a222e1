package pipeline

import (
	"fmt"
	"strings"
)

const (
	ansiReset = "\x1b[0m"
	ansiGreen = "\x1b[32m"
	ansiDim   = "\x1b[2m"
)

// RenderProcessor prints the simplified expression into Output. With Color
// a changed result is highlighted and an unchanged one dimmed. With
// ShowStats a second line reports the counters.
type RenderProcessor struct {
	Color     bool
	ShowStats bool
}

func (rp *RenderProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Result == nil {
		ctx.Errors = append(ctx.Errors, fmt.Errorf("render: no result to print"))
		return ctx
	}
	var sb strings.Builder
	text := ctx.Result.String()
	if rp.Color {
		colour := ansiDim
		if ctx.Result != ctx.Expr {
			colour = ansiGreen
		}
		sb.WriteString(colour + text + ansiReset)
	} else {
		sb.WriteString(text)
	}
	if rp.ShowStats {
		st := ctx.Stats
		fmt.Fprintf(&sb, "\nsteps=%d visits=%d cache_hits=%d passes=%d restarts=%d rewrites=%d",
			st.Steps, st.Visits, st.CacheHits, st.Passes, st.Restarts, st.Rewrites)
	}
	ctx.Output = sb.String()
	return ctx
}
