package tracing

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Carrier holds W3C trace context for messages that leave the process
// outside of HTTP, such as queue payloads.
type Carrier map[string]string

// Tracer interface for tracing.
type Tracer interface {
	// Start a new span.
	Start(ctx context.Context, spanName string) (context.Context, oteltrace.Span)
	StartSpanFromHeader(ctx context.Context, h http.Header, spanName string) (context.Context, oteltrace.Span)
	// StartSpanFromCarrier continues the trace recorded in c.
	StartSpanFromCarrier(ctx context.Context, c Carrier, spanName string) (context.Context, oteltrace.Span)
	InjectHTTP(ctx context.Context, h http.Header)
	// Inject captures the span in ctx so it can travel inside a message.
	Inject(ctx context.Context) Carrier
}

var propagator = propagation.NewCompositeTextMapPropagator(
	propagation.TraceContext{},
	propagation.Baggage{},
)

// Provider owns the span pipeline of one service. Every Tracer created from
// it shares the exporter.
type Provider struct {
	tp *trace.TracerProvider
}

// NewProvider creates a provider for serviceName. A nil exporter records
// spans without exporting them.
func NewProvider(serviceName string, exporter trace.SpanExporter) *Provider {
	opts := []trace.TracerProviderOption{
		// Record information about this application in a Resource.
		trace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		)),
	}
	if exporter != nil {
		opts = append(opts, trace.WithBatcher(exporter))
	}

	tp := trace.NewTracerProvider(opts...)

	otel.SetTextMapPropagator(propagator)
	otel.SetTracerProvider(tp)

	return &Provider{tp: tp}
}

// Tracer returns a tracer for one component, e.g. "order-service".
func (p *Provider) Tracer(name string) Tracer {
	return tracer{tracer: p.tp.Tracer(name)}
}

// Shutdown flushes pending spans and stops the exporter.
func (p *Provider) Shutdown(ctx context.Context) error {
	_ = p.tp.ForceFlush(ctx)

	return p.tp.Shutdown(ctx)
}

// tracer to implement Tracer.
type tracer struct {
	tracer oteltrace.Tracer
}

func (t tracer) Start(ctx context.Context, spanName string) (context.Context, oteltrace.Span) {
	return t.tracer.Start(ctx, spanName)
}

func (t tracer) StartSpanFromHeader(
	ctx context.Context,
	h http.Header,
	spanName string,
) (context.Context, oteltrace.Span) {
	return t.Start(propagator.Extract(ctx, propagation.HeaderCarrier(h)), spanName)
}

func (t tracer) StartSpanFromCarrier(
	ctx context.Context,
	c Carrier,
	spanName string,
) (context.Context, oteltrace.Span) {
	return t.Start(propagator.Extract(ctx, propagation.MapCarrier(c)), spanName)
}

func (t tracer) InjectHTTP(ctx context.Context, h http.Header) {
	propagator.Inject(ctx, propagation.HeaderCarrier(h))
}

func (t tracer) Inject(ctx context.Context) Carrier {
	c := Carrier{}
	propagator.Inject(ctx, propagation.MapCarrier(c))

	return c
}
