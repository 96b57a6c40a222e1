// Package tctx is the context the simplifier consults while it walks under
// binders: it owns the global environment, creates placeholder locals for
// opened binders, answers parameter-info queries and decides definitional
// equality.
//
// A Context is not safe for concurrent use. Callers that want to run
// simplifications in parallel must give each goroutine its own Context.
package tctx

import (
	"github.com/google/uuid"

	"github.com/funvibe/dsimp/internal/config"
	"github.com/funvibe/dsimp/internal/expr"
)

type funInfoKey struct {
	name  string
	nargs int
}

// Context bundles the environment with the caches built while reducing
// and inspecting terms.
type Context struct {
	env       *Environment
	maxUnfold int
	funInfo   map[funInfoKey][]ParamInfo
	normal    *expr.Map[expr.Expr]
}

type Option func(*Context)

// WithMaxUnfold bounds the number of reduction steps spent on a single
// normalization. Terms that need more are treated as not reducible.
func WithMaxUnfold(n int) Option {
	return func(c *Context) {
		if n > 0 {
			c.maxUnfold = n
		}
	}
}

func New(env *Environment, opts ...Option) *Context {
	if env == nil {
		env = NewEnvironment()
	}
	c := &Context{
		env:       env,
		maxUnfold: config.DefaultMaxUnfold,
		funInfo:   make(map[funInfoKey][]ParamInfo),
		normal:    expr.NewMap[expr.Expr](),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Context) Env() *Environment { return c.env }

// MkLocal creates a fresh placeholder local. The unique name is a UUID so
// placeholders from different binders never collide.
func (c *Context) MkLocal(prettyName string, typ expr.Expr, bi expr.BinderInfo) *expr.Local {
	return expr.MkLocal(freshName(), prettyName, typ, bi)
}

// MkLetLocal creates a fresh placeholder for a let-binding.
func (c *Context) MkLetLocal(prettyName string, typ, value expr.Expr) *expr.Local {
	return expr.MkLetLocal(freshName(), prettyName, typ, value)
}

func freshName() string {
	return "_local." + uuid.NewString()
}
