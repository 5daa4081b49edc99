package trace

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/gokimono/scaleterm/term"
)

func TestOTelEmitCreatesSpanPerEvent(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ot := NewOTel(otel.Tracer("scaleterm-test"))
	ot.Emit(Event{
		Step:   1,
		Rule:   "up",
		Before: term.ID("a"),
		After:  []term.ID{"b"},
		Scale:  0,
	})

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name != "up" {
		t.Fatalf("span name = %q, want %q", spans[0].Name, "up")
	}
}

func TestOTelEmitFallsBackToMsgWhenNoRule(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ot := NewOTel(otel.Tracer("scaleterm-test"))
	ot.Emit(Event{Step: 2, Msg: "idle"})

	spans := exporter.GetSpans()
	if len(spans) != 1 || spans[0].Name != "idle" {
		t.Fatalf("expected span named idle, got %+v", spans)
	}
}
