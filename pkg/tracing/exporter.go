package tracing

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc/credentials/insecure"
)

const (
	ExporterNone     = "none"
	ExporterOTLPGRPC = "otlp-grpc"
	ExporterOTLPHTTP = "otlp-http"
	ExporterStdout   = "stdout"
)

// NewExporter builds the span exporter named by kind. ExporterNone yields a
// nil exporter. Endpoint is host:port for the OTLP exporters; w receives the
// stdout exporter's output.
func NewExporter(ctx context.Context, kind, endpoint string, w io.Writer) (trace.SpanExporter, error) {
	switch kind {
	case "", ExporterNone:
		return nil, nil
	case ExporterOTLPGRPC:
		return otlptracegrpc.New(
			ctx,
			otlptracegrpc.WithEndpoint(endpoint),
			otlptracegrpc.WithReconnectionPeriod(5*time.Second),
			otlptracegrpc.WithTLSCredentials(insecure.NewCredentials()),
		)
	case ExporterOTLPHTTP:
		return otlptracehttp.New(
			ctx,
			otlptracehttp.WithEndpoint(endpoint),
			otlptracehttp.WithInsecure(),
		)
	case ExporterStdout:
		return stdouttrace.New(
			stdouttrace.WithWriter(w),
			stdouttrace.WithPrettyPrint(),
		)
	default:
		return nil, fmt.Errorf("unknown trace exporter %q", kind)
	}
}
