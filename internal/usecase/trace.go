package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var usecaseTracer = otel.Tracer("cricket-league/internal/usecase")

// startUsecaseSpan opens a child span only when the caller is already
// traced, so background replays do not start orphan traces.
func startUsecaseSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if name == "" || !parent.SpanContext().IsValid() {
		return ctx, trace.SpanFromContext(context.Background())
	}
	return usecaseTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// endUsecaseSpan marks the span failed for unexpected errors. Caller
// mistakes such as invalid input are not span errors.
func endUsecaseSpan(span trace.Span, errp *error) {
	if errp != nil && *errp != nil {
		err := *errp
		span.RecordError(err)
		if !errors.Is(err, ErrInvalidInput) && !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrInvalidState) && !errors.Is(err, ErrConflict) {
			span.SetStatus(codes.Error, err.Error())
		}
	}
	span.End()
}

// unavailable tags a storage failure so callers can tell it from a bad request.
func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrDependencyUnavailable, op, err)
}
