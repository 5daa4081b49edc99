package trace

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// OTel emits each Event as a point-in-time OpenTelemetry span: one span per
// event, ended immediately since a rewrite step has no useful duration to
// bracket.
type OTel struct {
	tracer oteltrace.Tracer
}

// NewOTel wraps tracer (typically otel.Tracer("scaleterm")) as a Tracer.
func NewOTel(tracer oteltrace.Tracer) *OTel {
	return &OTel{tracer: tracer}
}

func (o *OTel) Emit(e Event) {
	ctx := context.Background()
	_, span := o.tracer.Start(ctx, eventSpanName(e))
	defer span.End()

	span.SetAttributes(
		attribute.Int("scaleterm.step", e.Step),
		attribute.String("scaleterm.rule", e.Rule),
		attribute.String("scaleterm.before", string(e.Before)),
		attribute.Int("scaleterm.scale", e.Scale),
		attribute.Int64("scaleterm.scheduler_token", int64(e.SchedulerToken)),
	)
	if len(e.After) > 0 {
		after := make([]string, len(e.After))
		for i, id := range e.After {
			after[i] = string(id)
		}
		span.SetAttributes(attribute.StringSlice("scaleterm.after", after))
	}
	for k, v := range e.Meta {
		span.SetAttributes(attribute.String("scaleterm.meta."+k, fmt.Sprintf("%v", v)))
	}
	if e.Msg != "" && e.Rule == "" {
		span.SetStatus(codes.Error, e.Msg)
	}
}

func eventSpanName(e Event) string {
	if e.Rule != "" {
		return e.Rule
	}
	if e.Msg != "" {
		return e.Msg
	}
	return "step"
}

func (o *OTel) Flush() error {
	tp := otel.GetTracerProvider()
	type flusher interface {
		ForceFlush(context.Context) error
	}
	if f, ok := tp.(flusher); ok {
		return f.ForceFlush(context.Background())
	}
	return nil
}
