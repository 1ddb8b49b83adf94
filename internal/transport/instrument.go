package transport

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/yndnr/xrpc-go/internal/core/domain"
	"github.com/yndnr/xrpc-go/internal/core/session"
	"github.com/yndnr/xrpc-go/internal/telemetry/logger"
	"github.com/yndnr/xrpc-go/internal/telemetry/metric"
	"github.com/yndnr/xrpc-go/internal/telemetry/tracer"
)

// SpanName is the name of the span wrapping each call.
const SpanName = "xmlrpc.call"

// Instrumented records metrics and a client span around every call of
// the wrapped transport.
type Instrumented struct {
	next    session.Transport
	metrics *metric.Registry
	tracer  trace.Tracer
	now     func() time.Time
}

// Instrument decorates next. A nil registry skips metrics and a nil
// tracer skips tracing.
func Instrument(next session.Transport, metrics *metric.Registry, t trace.Tracer) *Instrumented {
	if t == nil {
		t = noop.NewTracerProvider().Tracer(tracer.InstrumentationName)
	}
	return &Instrumented{
		next:    next,
		metrics: metrics,
		tracer:  t,
		now:     time.Now,
	}
}

// Send implements session.Transport.
func (i *Instrumented) Send(ctx context.Context, method string, params []domain.Value, headers map[string]string) (domain.Value, error) {
	ctx, span := i.tracer.Start(ctx, SpanName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("rpc.system", "xmlrpc"),
			attribute.String("rpc.method", method),
			attribute.Int("rpc.xmlrpc.param_count", len(params)),
		),
	)
	if sc := span.SpanContext(); sc.HasTraceID() {
		ctx = logger.WithTraceID(ctx, sc.TraceID().String())
	}

	if i.metrics != nil {
		i.metrics.CallsInFlight.Inc()
		defer i.metrics.CallsInFlight.Dec()
	}

	start := i.now()
	v, err := i.next.Send(ctx, method, params, headers)
	elapsed := i.now().Sub(start)

	outcome := Outcome(err)
	span.SetAttributes(attribute.String("xrpc.outcome", outcome))
	if fault, ok := domain.AsFault(err); ok {
		span.SetAttributes(
			attribute.Int("rpc.xmlrpc.fault_code", fault.Code),
			attribute.String("rpc.xmlrpc.fault_string", fault.Message),
		)
	}
	i.metrics.ObserveCall(method, outcome, elapsed)
	tracer.EndSpan(span, err)

	return v, err
}

// Outcome classifies a Send result for metrics and spans.
func Outcome(err error) string {
	switch {
	case err == nil:
		return metric.OutcomeSuccess
	case errors.Is(err, domain.ErrRemoteFault):
		return metric.OutcomeFault
	default:
		return metric.OutcomeTransportError
	}
}
