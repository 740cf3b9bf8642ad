package httpapi

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"
)

func TestStartSpan_WithoutParentIsInert(t *testing.T) {
	ctx := context.Background()

	got, span := startSpan(ctx, "httpapi.Handler.RecordBallEvent")
	defer span.End()

	assert.Equal(t, ctx, got)
	assert.False(t, span.IsRecording())
	assert.False(t, span.SpanContext().IsValid())
}

func TestStartSpan_HelperReusesParent(t *testing.T) {
	parent := trace.SpanContextFromContext(context.Background()).
		WithTraceID(trace.TraceID{1}).
		WithSpanID(trace.SpanID{2}).
		WithTraceFlags(trace.FlagsSampled)
	ctx := trace.ContextWithSpanContext(context.Background(), parent)

	for _, name := range []string{"httpapi.RequestLogging", "httpapi.writeError", "scoring.apply"} {
		got, span := startSpan(ctx, name)
		span.End()
		assert.Equal(t, ctx, got, name)
		assert.Equal(t, parent.SpanID(), span.SpanContext().SpanID(), name)
	}
}

func TestMarkSpanError_NoSpanIsSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		markSpanError(context.Background(), http.StatusServiceUnavailable, errors.New("ledger down"))
	})
}
