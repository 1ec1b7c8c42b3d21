// Package telemetry adapts OpenTelemetry to the tracer port and renders
// finished spans as progress lines.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/genpack/internal/core/ports"
)

// ScopeName is the instrumentation scope of spans started by genpack itself.
const ScopeName = "genpack"

// StageKey marks a span as a pipeline stage.
const StageKey = attribute.Key("genpack.stage")

// PlanListener is told which stages a run will execute.
type PlanListener interface {
	Plan(stages []string)
}

// OTelTracer implements ports.Tracer using OpenTelemetry.
type OTelTracer struct {
	tracer   trace.Tracer
	listener PlanListener
}

// NewOTelTracer creates a tracer from tp. listener may be nil.
func NewOTelTracer(tp trace.TracerProvider, listener PlanListener) *OTelTracer {
	return &OTelTracer{tracer: tp.Tracer(ScopeName), listener: listener}
}

// Start creates a new span.
func (t *OTelTracer) Start(ctx context.Context, name string, opts ...ports.SpanOption) (context.Context, ports.Span) {
	cfg := &ports.SpanConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	var startOpts []trace.SpanStartOption
	if cfg.Stage {
		startOpts = append(startOpts, trace.WithAttributes(StageKey.Bool(true)))
	}
	ctx, span := t.tracer.Start(ctx, name, startOpts...)
	return ctx, &OTelSpan{span: span}
}

// EmitPlan records the planned stages on the current span and notifies the listener.
func (t *OTelTracer) EmitPlan(ctx context.Context, stages []string) {
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.AddEvent("plan_emitted", trace.WithAttributes(attribute.StringSlice("stages", stages)))
	}
	if t.listener != nil {
		t.listener.Plan(stages)
	}
}

// OTelSpan implements ports.Span using OpenTelemetry.
type OTelSpan struct {
	span trace.Span
}

// End completes the span.
func (s *OTelSpan) End() {
	s.span.End()
}

// RecordError records err and marks the span failed.
func (s *OTelSpan) RecordError(err error) {
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// SetAttribute adds a key-value pair to the span.
func (s *OTelSpan) SetAttribute(key string, value any) {
	switch v := value.(type) {
	case string:
		s.span.SetAttributes(attribute.String(key, v))
	case int:
		s.span.SetAttributes(attribute.Int(key, v))
	case int64:
		s.span.SetAttributes(attribute.Int64(key, v))
	case float64:
		s.span.SetAttributes(attribute.Float64(key, v))
	case bool:
		s.span.SetAttributes(attribute.Bool(key, v))
	case []string:
		s.span.SetAttributes(attribute.StringSlice(key, v))
	default:
		s.span.SetAttributes(attribute.String(key, fmt.Sprintf("%v", v)))
	}
}
