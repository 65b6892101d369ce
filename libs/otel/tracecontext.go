package otelx

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// W3C trace context keys, as stored in outbox rows and message headers.
const (
	TraceparentKey = "traceparent"
	TracestateKey  = "tracestate"
)

// TraceContextStrings serializes the span in ctx. Both values are empty without a span.
func TraceContextStrings(ctx context.Context) (traceparent string, tracestate string) {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	return carrier.Get(TraceparentKey), carrier.Get(TracestateKey)
}

// ContextWithTraceContext restores a remote span context saved by TraceContextStrings.
func ContextWithTraceContext(ctx context.Context, traceparent string, tracestate string) context.Context {
	if traceparent == "" && tracestate == "" {
		return ctx
	}
	carrier := propagation.MapCarrier{}
	carrier.Set(TraceparentKey, traceparent)
	if tracestate != "" {
		carrier.Set(TracestateKey, tracestate)
	}
	return otel.GetTextMapPropagator().Extract(ctx, carrier)
}
