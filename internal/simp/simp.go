// Package simp implements deep simplification of expressions.
//
// A Simplifier walks an expression bottom-up. At every node a Pre hook may
// answer before the children are visited, and a Post hook may rewrite the
// node after they were. Binders are opened with fresh placeholder locals so
// hooks never see loose bound variables, and closed again on the way out.
// Results are cached per call, and the walk is bounded by a step ceiling.
//
// Instance-implicit arguments are either visited like any other argument or,
// when Options.VisitInstances is false, handed to a canonizer. If the
// canonizer learns something that invalidates earlier choices it asks for a
// restart: the cache is dropped and the walk starts over on the current term.
package simp

import (
	"context"
	"log/slog"

	"github.com/funvibe/dsimp/internal/canon"
	"github.com/funvibe/dsimp/internal/config"
	"github.com/funvibe/dsimp/internal/expr"
	"github.com/funvibe/dsimp/internal/tctx"
)

// Options are the knobs of one Simplifier.
type Options struct {
	// MaxSteps is the ceiling on visits plus equation lookups.
	MaxSteps int
	// VisitInstances makes instance-implicit arguments ordinary arguments.
	VisitInstances bool
}

func DefaultOptions() Options {
	return Options{
		MaxSteps:       config.DefaultMaxSteps,
		VisitInstances: config.DefaultVisitInstances,
	}
}

// OptionsFromConfig extracts simplifier options from a loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		MaxSteps:       cfg.MaxSteps,
		VisitInstances: cfg.ShouldVisitInstances(),
	}
}

// Step is the answer of a hook. With Continue the simplifier descends into
// Expr (again); without it Expr is the final result for the node.
type Step struct {
	Expr     expr.Expr
	Continue bool
}

// Hook inspects a node. A nil Step means the hook has nothing to say.
type Hook func(s *Session, e expr.Expr) (*Step, error)

// Hooks are the two extension points of the traversal. Nil hooks have no
// opinion: the node is descended into and the result kept as is.
type Hooks struct {
	Pre  Hook
	Post Hook
}

type Simplifier struct {
	tc     *tctx.Context
	opts   Options
	hooks  Hooks
	canon  canon.Canonizer
	logger *slog.Logger
}

type Option func(*Simplifier)

func WithHooks(h Hooks) Option {
	return func(s *Simplifier) { s.hooks = h }
}

func WithPre(h Hook) Option {
	return func(s *Simplifier) { s.hooks.Pre = h }
}

func WithPost(h Hook) Option {
	return func(s *Simplifier) { s.hooks.Post = h }
}

// WithCanonizer shares c across calls. By default every call gets a fresh
// definitional-equality canonizer.
func WithCanonizer(c canon.Canonizer) Option {
	return func(s *Simplifier) { s.canon = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Simplifier) { s.logger = l }
}

func New(tc *tctx.Context, opts Options, options ...Option) *Simplifier {
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = config.DefaultMaxSteps
	}
	s := &Simplifier{tc: tc, opts: opts}
	for _, opt := range options {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

func (s *Simplifier) Options() Options { return s.opts }

// Stats describes one Simplify call.
type Stats struct {
	Steps     int
	Visits    int
	CacheHits int
	Passes    int
	Restarts  int
	Rewrites  int
}

// Simplify returns the fully simplified form of e. It fails with a
// StepLimitError when the step ceiling is passed and with ErrCancelled when
// ctx is done.
func (s *Simplifier) Simplify(ctx context.Context, e expr.Expr) (expr.Expr, error) {
	res, _, err := s.SimplifyWithStats(ctx, e)
	return res, err
}

// SimplifyWithStats is Simplify that also reports what the call did.
// Stats are filled in even when an error is returned.
func (s *Simplifier) SimplifyWithStats(ctx context.Context, e expr.Expr) (expr.Expr, Stats, error) {
	ctx, span := startSimplifySpan(ctx, s.opts)
	defer span.End()

	ss := s.newSession(ctx)
	for {
		ss.needRestart = false
		ss.stats.Passes++
		res, err := ss.Visit(e)
		if err != nil {
			ss.stats.Steps = ss.steps
			recordStats(ctx, ss.stats)
			setSpanResult(span, ss.stats, err)
			return nil, ss.stats, err
		}
		e = res
		if !ss.needRestart {
			break
		}
		ss.stats.Restarts++
		s.logger.Info("dsimplify restart",
			slog.Int("pass", ss.stats.Passes),
			slog.Int("steps", ss.steps),
		)
		ss.cache.Clear()
	}
	ss.stats.Steps = ss.steps
	recordStats(ctx, ss.stats)
	setSpanResult(span, ss.stats, nil)
	return e, ss.stats, nil
}

func (s *Simplifier) newSession(ctx context.Context) *Session {
	c := s.canon
	if c == nil {
		c = canon.NewDefEq(s.tc)
	}
	return &Session{
		ctx:   ctx,
		s:     s,
		canon: c,
		cache: expr.NewMap[expr.Expr](),
		debug: s.logger.Enabled(ctx, slog.LevelDebug),
	}
}
