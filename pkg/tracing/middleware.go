package tracing

import (
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// NewTracingMiddleware starts a span per request, continuing the caller's
// trace when the request carries one, and echoes the trace context back in
// the response headers.
func NewTracingMiddleware(t Tracer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := t.StartSpanFromHeader(r.Context(), r.Header, fmt.Sprintf("%s %s", r.Method, r.URL.Path))
			defer span.End()

			t.InjectHTTP(ctx, w.Header())

			r = r.WithContext(ctx)
			rw := NewResponseWriter(w)
			next.ServeHTTP(rw, r)

			span.SetAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.url", r.URL.String()),
				attribute.Int("http.status_code", rw.Status()),
			)
			if rw.Status() >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(rw.Status()))
			}
		})
	}
}

// NewResponseWriter creates a new ResponseWriter from a http.ResponseWriter.
func NewResponseWriter(w http.ResponseWriter) *ResponseWriter {
	return &ResponseWriter{
		ResponseWriter: w,
		status:         http.StatusOK,
	}
}

// ResponseWriter remembers the status code written through it.
type ResponseWriter struct {
	http.ResponseWriter
	status int
}

// WriteHeader saves the status code and calls the original ResponseWriter's WriteHeader.
func (rw *ResponseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// Status returns the status code of the response or 200 if the response has not been
// written (as this is the HTTP default).
func (rw *ResponseWriter) Status() int {
	return rw.status
}
