package telemetry

import (
	"context"
	"io"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Provider owns the SDK tracer provider for one run.
type Provider struct {
	tp     *sdktrace.TracerProvider
	bridge *Bridge
}

// NewProvider creates a provider whose spans are printed to w and registers
// it globally so instrumented HTTP clients join the same traces.
func NewProvider(w io.Writer, color bool) *Provider {
	bridge := NewBridge(w, color)
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(bridge))
	otel.SetTracerProvider(tp)
	return &Provider{tp: tp, bridge: bridge}
}

// Tracer returns a tracer reporting planned stages to the bridge.
func (p *Provider) Tracer() *OTelTracer {
	return NewOTelTracer(p.tp, p.bridge)
}

// Shutdown flushes and stops the provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.tp.Shutdown(ctx)
}
