package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const handlerSpanPrefix = "httpapi.Handler."

var tracer = otel.Tracer("github.com/riskibarqy/cricket-league/internal/interfaces/httpapi")

// startSpan opens a child span for handler entry points only. Middleware and
// response helpers get the parent span back so a request renders as one
// server span with one handler child. Untraced requests (health probes)
// never start a root span here.
func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() || !strings.HasPrefix(name, handlerSpanPrefix) {
		return ctx, nonRecordingSpan{parent}
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// markSpanError flags the active span for a request that ended in err.
// Client faults are recorded as events; only server faults set error status.
func markSpanError(ctx context.Context, status int, err error) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.RecordError(err)
	span.SetAttributes(attribute.Int("http.response.status_code", status))
	if status >= 500 {
		span.SetStatus(codes.Error, err.Error())
	}
}

// nonRecordingSpan hands back the caller's span without letting helpers end it.
type nonRecordingSpan struct {
	trace.Span
}

func (nonRecordingSpan) End(...trace.SpanEndOption) {}
