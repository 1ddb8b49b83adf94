package tracer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNew_NoEndpointIsNoop(t *testing.T) {
	p, err := New(context.Background(), Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, span := p.Tracer().Start(context.Background(), "x")
	if span.SpanContext().IsValid() {
		t.Error("noop provider should produce invalid span contexts")
	}
	span.End()

	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNew_ExportsOverHTTP(t *testing.T) {
	var hits atomic.Int32
	collector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/traces" {
			hits.Add(1)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer collector.Close()

	p, err := New(context.Background(), Config{
		ServiceName: "xrpc-test",
		Endpoint:    collector.URL,
		Insecure:    true,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, span := p.Tracer().Start(context.Background(), "xmlrpc.call")
	if !span.SpanContext().IsValid() {
		t.Error("sdk provider should produce valid spans")
	}
	span.End()

	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if hits.Load() == 0 {
		t.Error("collector received no export request")
	}
}

func TestFromTracerProvider(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
	p := FromTracerProvider(tp)

	_, span := p.Tracer().Start(context.Background(), "a")
	EndSpan(span, errors.New("boom"))
	_, span = p.Tracer().Start(context.Background(), "b")
	EndSpan(span, nil)

	spans := exp.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("spans = %d, want 2", len(spans))
	}
	if spans[0].Status.Code != codes.Error || spans[0].Status.Description != "boom" {
		t.Errorf("span a status = %+v", spans[0].Status)
	}
	if len(spans[0].Events) == 0 {
		t.Error("span a should carry the recorded error event")
	}
	if spans[1].Status.Code != codes.Ok {
		t.Errorf("span b status = %+v", spans[1].Status)
	}

	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestTracesURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"http://localhost:4318", "http://localhost:4318/v1/traces", false},
		{"http://localhost:4318/", "http://localhost:4318/v1/traces", false},
		{"https://otel.example.test/custom/path", "https://otel.example.test/custom/path", false},
		{"localhost:4318", "", true},
		{"::bad", "", true},
	}

	for _, tt := range tests {
		got, err := tracesURL(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("tracesURL(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("tracesURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
