package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func installRecorder(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	prevProvider := otel.GetTracerProvider()
	prevPropagator := otel.GetTextMapPropagator()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prevProvider)
		otel.SetTextMapPropagator(prevPropagator)
	})
	return exporter
}

func tracedCatalogRouter(status int) http.Handler {
	r := chi.NewRouter()
	r.Use(Tracing("catalog"))
	handler := func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(status) }
	r.Get("/products/{productId}", handler)
	r.Get("/products/allreviews/{productId}", handler)
	return r
}

func spanAttr(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTracing_SpanPerRoute(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		status    int
		wantName  string
		wantError bool
	}{
		{"product lookup", "/products/PDNO_00001", http.StatusOK, "GET /products/{productId}", false},
		{"missing product", "/products/PDNO_09999", http.StatusNotFound, "GET /products/{productId}", false},
		{"review listing failure", "/products/allreviews/PDNO_00001", http.StatusInternalServerError, "GET /products/allreviews/{productId}", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exporter := installRecorder(t)

			rec := httptest.NewRecorder()
			tracedCatalogRouter(tt.status).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.Equal(t, tt.status, rec.Code)

			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			span := spans[0]

			assert.Equal(t, tt.wantName, span.Name)

			status, ok := spanAttr(span.Attributes, "http.status_code")
			require.True(t, ok, "status attribute missing")
			assert.Equal(t, int64(tt.status), status.AsInt64())

			route, ok := spanAttr(span.Attributes, "http.route")
			require.True(t, ok, "route attribute missing")
			assert.Equal(t, tt.wantName[len("GET "):], route.AsString())

			if tt.wantError {
				assert.Equal(t, codes.Error, span.Status.Code)
			} else {
				assert.NotEqual(t, codes.Error, span.Status.Code)
			}
		})
	}
}

func TestTracing_ContinuesInboundTrace(t *testing.T) {
	exporter := installRecorder(t)

	req := httptest.NewRequest(http.MethodGet, "/products/PDNO_00042", nil)
	req.Header.Set("traceparent", "00-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01")
	rec := httptest.NewRecorder()
	tracedCatalogRouter(http.StatusOK).ServeHTTP(rec, req)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "0af7651916cd43dd8448eb211c80319c", spans[0].SpanContext.TraceID().String())
	assert.Equal(t, "b7ad6b7169203331", spans[0].Parent.SpanID().String())
	assert.NotEmpty(t, rec.Header().Get("traceparent"), "trace context is echoed to the caller")
}
