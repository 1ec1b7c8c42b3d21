package telemetry_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/genpack/internal/adapters/telemetry"
)

func TestBridge_Progress(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	buf := &bytes.Buffer{}
	bridge := telemetry.NewBridge(buf, true)
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(bridge))
	t.Cleanup(func() { _ = tp.Shutdown(t.Context()) })

	tracer := tp.Tracer(telemetry.ScopeName)
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	bridge.Plan([]string{"lower", "pack"})

	ctx, stage := tracer.Start(t.Context(), "lower",
		trace.WithTimestamp(t0), trace.WithAttributes(telemetry.StageKey.Bool(true)))

	_, download := tracer.Start(ctx, "download stage3", trace.WithTimestamp(t0))
	download.End(trace.WithTimestamp(t0.Add(1500 * time.Millisecond)))

	_, other := tp.Tracer("otelhttp").Start(ctx, "HTTP GET", trace.WithTimestamp(t0))
	other.End(trace.WithTimestamp(t0.Add(time.Second)))

	_, emerge := tracer.Start(ctx, "emerge", trace.WithTimestamp(t0))
	emerge.SetStatus(codes.Error, "exit status 1")
	emerge.End(trace.WithTimestamp(t0.Add(2 * time.Second)))

	stage.SetStatus(codes.Error, "exit status 1")
	stage.End(trace.WithTimestamp(t0.Add(4 * time.Second)))

	goldie.New(t).Assert(t, "bridge_progress", buf.Bytes())
}

func TestBridge_EmptyPlan(t *testing.T) {
	buf := &bytes.Buffer{}
	telemetry.NewBridge(buf, false).Plan(nil)
	assert.Equal(t, "nothing to do\n", buf.String())
}
