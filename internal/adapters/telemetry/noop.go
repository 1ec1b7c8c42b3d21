package telemetry

import (
	"context"

	"go.trai.ch/genpack/internal/core/ports"
)

// NoOpTracer discards every span and plan. JSON log mode uses it, since
// progress lines would break the one-record-per-line output.
type NoOpTracer struct{}

// NoOpSpan is the span handed out by NoOpTracer. It keeps no state, so one
// value serves every call.
type NoOpSpan struct{}

var discard = &NoOpSpan{}

// NewNoOpTracer returns a tracer that records nothing.
func NewNoOpTracer() *NoOpTracer { return &NoOpTracer{} }

// Start returns ctx unchanged.
func (*NoOpTracer) Start(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
	return ctx, discard
}

func (*NoOpTracer) EmitPlan(context.Context, []string) {}

func (*NoOpSpan) End() {}
func (*NoOpSpan) RecordError(error) {}
func (*NoOpSpan) SetAttribute(string, any) {}
