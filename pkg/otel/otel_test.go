package otel

import (
	"context"
	"net/http"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	remoteTraceParent = "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"
	remoteTraceID     = "4bf92f3577b34da6a3ce929d0e0e4736"
)

func TestAddSpanWithInjectedTracer(t *testing.T) {
	tp := sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.AlwaysSample()))
	defer tp.Shutdown(context.Background())

	ctx := InjectTracing(context.Background(), tp.Tracer("test"))
	ctx, span := AddSpan(ctx, "op")
	defer span.End()

	if GetTraceID(ctx) == "" {
		t.Fatal("expected a trace id")
	}
}

func TestAddSpanWithoutTracer(t *testing.T) {
	ctx, span := AddSpan(context.Background(), "op")
	defer span.End()

	if id := GetTraceID(ctx); id != "" {
		t.Fatalf("expected no trace id, got %q", id)
	}
}

func TestExtractHeadersContinuesRemoteTrace(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	defer otel.SetTextMapPropagator(prev)

	tp := sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.AlwaysSample()))
	defer tp.Shutdown(context.Background())

	h := http.Header{}
	h.Set("traceparent", remoteTraceParent)
	ctx := ExtractHeaders(context.Background(), h)
	ctx = InjectTracing(ctx, tp.Tracer("test"))
	ctx, span := AddSpan(ctx, "op")
	defer span.End()

	if id := GetTraceID(ctx); id != remoteTraceID {
		t.Fatalf("expected trace %s, got %q", remoteTraceID, id)
	}
}
