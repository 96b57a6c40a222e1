package simp

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("dsimp.simp")
	meter  = otel.Meter("dsimp.simp")
)

var (
	visitsTotal    metric.Int64Counter
	cacheHitsTotal metric.Int64Counter
	restartsTotal  metric.Int64Counter
	rewritesTotal  metric.Int64Counter
	stepsHistogram metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		visitsTotal, err = meter.Int64Counter(
			"dsimp_visits_total",
			metric.WithDescription("Total number of nodes visited"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		cacheHitsTotal, err = meter.Int64Counter(
			"dsimp_cache_hits_total",
			metric.WithDescription("Total number of visits answered from the cache"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		restartsTotal, err = meter.Int64Counter(
			"dsimp_restarts_total",
			metric.WithDescription("Total number of restarted passes"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		rewritesTotal, err = meter.Int64Counter(
			"dsimp_rewrites_total",
			metric.WithDescription("Total number of equation rewrites"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		stepsHistogram, err = meter.Int64Histogram(
			"dsimp_steps",
			metric.WithDescription("Steps taken by one simplification"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// recordStats adds the counters of one finished call.
func recordStats(ctx context.Context, st Stats) {
	if err := initMetrics(); err != nil {
		return
	}
	visitsTotal.Add(ctx, int64(st.Visits))
	cacheHitsTotal.Add(ctx, int64(st.CacheHits))
	restartsTotal.Add(ctx, int64(st.Restarts))
	rewritesTotal.Add(ctx, int64(st.Rewrites))
	stepsHistogram.Record(ctx, int64(st.Steps))
}

func startSimplifySpan(ctx context.Context, opts Options) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Simplifier.Simplify",
		trace.WithAttributes(
			attribute.Int("dsimp.max_steps", opts.MaxSteps),
			attribute.Bool("dsimp.visit_instances", opts.VisitInstances),
		),
	)
}

func setSpanResult(span trace.Span, st Stats, err error) {
	span.SetAttributes(
		attribute.Int("dsimp.steps", st.Steps),
		attribute.Int("dsimp.passes", st.Passes),
		attribute.Int("dsimp.rewrites", st.Rewrites),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
