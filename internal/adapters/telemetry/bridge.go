package telemetry

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/genpack/internal/ui/output"
	"go.trai.ch/genpack/internal/ui/style"
)

// Bridge implements sdktrace.SpanProcessor and prints genpack's own spans
// as progress lines. Spans from other instrumentation scopes are ignored.
type Bridge struct {
	mu  sync.Mutex
	out *termenv.Output
}

// NewBridge returns a Bridge writing to w.
func NewBridge(w io.Writer, color bool) *Bridge {
	return &Bridge{out: output.New(w, color)}
}

// Plan prints the stages a run will execute.
func (b *Bridge) Plan(stages []string) {
	if len(stages) == 0 {
		b.println("nothing to do", style.Muted)
		return
	}
	b.println("plan: "+strings.Join(stages, " → "), style.Muted)
}

// OnStart announces stages.
func (b *Bridge) OnStart(_ context.Context, s sdktrace.ReadWriteSpan) {
	if !ours(s) || !isStage(s) {
		return
	}
	b.println(style.Arrow+" "+s.Name(), style.Accent)
}

// OnEnd reports the outcome and duration of stages and steps.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if !ours(s) {
		return
	}

	glyph, color := style.Check, style.Green
	if s.Status().Code == codes.Error {
		glyph, color = style.Cross, style.Red
	}
	indent := "  "
	if isStage(s) {
		indent = ""
	}
	b.println(fmt.Sprintf("%s%s %s (%s)", indent, glyph, s.Name(), elapsed(s)), color)
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}

func (b *Bridge) println(msg string, color lipgloss.Color) {
	b.mu.Lock()
	defer b.mu.Unlock()
	styled := b.out.String(msg).Foreground(termenv.RGBColor(string(color)))
	_, _ = b.out.WriteString(styled.String() + "\n")
}

func ours(s sdktrace.ReadOnlySpan) bool {
	return s.InstrumentationScope().Name == ScopeName
}

func isStage(s sdktrace.ReadOnlySpan) bool {
	for _, kv := range s.Attributes() {
		if kv.Key == StageKey {
			return kv.Value.AsBool()
		}
	}
	return false
}

func elapsed(s sdktrace.ReadOnlySpan) time.Duration {
	return s.EndTime().Sub(s.StartTime()).Round(100 * time.Millisecond)
}
