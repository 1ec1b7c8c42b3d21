package ports

import "context"

//go:generate go run go.uber.org/mock/mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Tracer is the entry point for creating spans.
type Tracer interface {
	// Start creates a new span.
	Start(ctx context.Context, name string, opts ...SpanOption) (context.Context, Span)
	// EmitPlan signals which stages are planned for execution.
	EmitPlan(ctx context.Context, stages []string)
}

// Span represents a unit of work.
type Span interface {
	// End completes the span.
	End()
	// RecordError records an error for the span.
	RecordError(err error)
	// SetAttribute adds a key-value pair to the span.
	SetAttribute(key string, value any)
}

// SpanConfig holds configuration for a starting span.
type SpanConfig struct {
	// Stage marks the span as a pipeline stage rather than a single step.
	Stage bool
}

// SpanOption is a functional option for configuring a span.
type SpanOption func(*SpanConfig)

// AsStage marks the span as a pipeline stage.
func AsStage() SpanOption {
	return func(c *SpanConfig) {
		c.Stage = true
	}
}
