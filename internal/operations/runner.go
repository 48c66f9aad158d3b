package operations

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"nysecli/internal/infrastructure"
)

const (
	TracerName = "nysecli.operations"
)

// Runner executes the registered steps in dependency order
type Runner struct {
	registry *Registry
	tracer   trace.Tracer
	metrics  *infrastructure.PipelineMetrics
	logger   *slog.Logger
}

// NewRunner creates a runner. metrics may be nil.
func NewRunner(registry *Registry, metrics *infrastructure.PipelineMetrics, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		registry: registry,
		tracer:   otel.Tracer(TracerName),
		metrics:  metrics,
		logger:   logger,
	}
}

// Run executes every step and stops at the first error
func (r *Runner) Run(ctx context.Context, state *State) error {
	steps, err := r.registry.GetDependencyOrder()
	if err != nil {
		return err
	}

	ctx = infrastructure.EnsureTraceID(ctx)
	ctx, span := r.tracer.Start(ctx, "run."+state.Command,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", state.RunID),
			attribute.String("run.command", state.Command),
			attribute.Int("run.steps", len(steps)),
		),
	)
	defer span.End()

	r.logger.InfoContext(ctx, "Run started",
		slog.String("command", state.Command),
		slog.String("run_id", state.RunID),
		slog.String("otel_trace_id", infrastructure.TraceIDFromContext(ctx)),
		slog.Int("steps", len(steps)))

	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			skipSteps(state, steps[i:])
			cerr := NewCancellationError(step.ID(), err)
			span.RecordError(cerr)
			span.SetStatus(codes.Error, cerr.Error())
			return cerr
		}

		if err := r.runStep(ctx, step, state); err != nil {
			skipSteps(state, steps[i+1:])
			if dependents := r.registry.GetDependents(step.ID()); len(dependents) > 0 {
				r.logger.WarnContext(ctx, "Dependent steps not run",
					slog.String("step", step.ID()),
					slog.Any("dependents", stepIDs(dependents)))
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
	}

	span.SetStatus(codes.Ok, "")
	r.logger.InfoContext(ctx, "Run completed",
		slog.String("command", state.Command),
		slog.Duration("duration", state.Duration()))
	return nil
}

// skipSteps records steps that never ran
func skipSteps(state *State, steps []Step) {
	for _, s := range steps {
		st := NewStepState(s.ID(), s.Name())
		st.Skip()
		state.SetStep(s.ID(), st)
	}
}

func (r *Runner) runStep(ctx context.Context, step Step, state *State) error {
	st := NewStepState(step.ID(), step.Name())
	state.SetStep(step.ID(), st)

	ctx, span := r.tracer.Start(ctx, "step."+step.ID(),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("step.id", step.ID()),
			attribute.String("step.name", step.Name()),
		),
	)
	defer span.End()

	logger := r.logger.With(slog.String("step", step.ID()))

	if err := step.Validate(state); err != nil {
		st.Fail(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		logger.ErrorContext(ctx, "Step validation failed", slog.String("error", err.Error()))
		return err
	}

	logger.InfoContext(ctx, "Step started", slog.String("name", step.Name()))
	st.Start()
	start := time.Now()

	err := step.Execute(ctx, state)
	duration := time.Since(start)
	rows := state.Rows()
	r.metrics.RecordStep(ctx, step.ID(), duration, rows, err)

	if err != nil {
		st.Fail(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.ErrorContext(ctx, "Step failed",
			slog.String("error", err.Error()),
			slog.Duration("duration", duration))
		return NewExecutionError(step.ID(), err)
	}

	st.Complete(rows)
	span.SetAttributes(attribute.Int("step.rows", rows))
	span.SetStatus(codes.Ok, "")
	logger.InfoContext(ctx, "Step completed",
		slog.Int("rows", rows),
		slog.Duration("duration", duration))
	return nil
}
