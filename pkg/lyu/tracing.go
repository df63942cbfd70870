package lyu

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys.
const (
	attrTargetID    = attribute.Key("lyu.target_id")
	attrKey         = attribute.Key("lyu.key")
	attrSubscribers = attribute.Key("lyu.subscribers")
	attrFailures    = attribute.Key("lyu.failures")
)

// startTriggerSpan opens the span covering one trigger fan-out.
func (r *Runtime) startTriggerSpan(target uint64, key string, subscribers int) trace.Span {
	_, span := r.tracer.Start(context.Background(), "lyu.trigger",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attrTargetID.Int64(int64(target)),
			attrKey.String(key),
			attrSubscribers.Int(subscribers),
		),
	)
	return span
}

// recordTriggerError marks span as failed.
func recordTriggerError(span trace.Span, err *TriggerError) {
	span.SetAttributes(attrFailures.Int(len(err.Failures)))
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
