package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// OtelSink adapts a Sink to go.opentelemetry.io/otel/trace, for hosts that
// want these spans to flow into a real exporter. The core never imports an
// exporter itself (§1 scope); this adapter just bridges to the tracer API
// the host already wired up.
type OtelSink struct {
	Tracer trace.Tracer
}

// NewOtelSink returns a Sink backed by the given tracer.
func NewOtelSink(tracer trace.Tracer) OtelSink {
	return OtelSink{Tracer: tracer}
}

// StartSpan implements Sink.
func (s OtelSink) StartSpan(ctx context.Context, name string, attrs ...Attr) (context.Context, Span) {
	ctx, span := s.Tracer.Start(ctx, name, trace.WithAttributes(toOtelAttrs(attrs)...))
	return ctx, otelSpan{span: span}
}

type otelSpan struct {
	span trace.Span
}

func (s otelSpan) SetAttributes(attrs ...Attr) {
	s.span.SetAttributes(toOtelAttrs(attrs)...)
}

func (s otelSpan) End() {
	s.span.End()
}

func toOtelAttrs(attrs []Attr) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(attrs))
	for _, a := range attrs {
		switch v := a.Value.(type) {
		case string:
			out = append(out, attribute.String(a.Key, v))
		case int:
			out = append(out, attribute.Int(a.Key, v))
		case bool:
			out = append(out, attribute.Bool(a.Key, v))
		default:
			out = append(out, attribute.String(a.Key, toString(v)))
		}
	}
	return out
}

func toString(v any) string {
	if s, ok := v.(interface{ String() string }); ok {
		return s.String()
	}
	return ""
}
