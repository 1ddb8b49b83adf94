package metric

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Namespace prefixes every metric name.
const Namespace = "xrpc"

// Call outcomes used as the "outcome" label.
const (
	OutcomeSuccess        = "success"
	OutcomeFault          = "fault"
	OutcomeTransportError = "transport_error"
)

// Registry holds all application metrics.
type Registry struct {
	reg *prometheus.Registry

	CallsTotal    *prometheus.CounterVec
	CallDuration  *prometheus.HistogramVec
	CallsInFlight prometheus.Gauge
}

// NewRegistry creates a registry with the call metrics registered.
// Go runtime collectors are added when withRuntime is true.
func NewRegistry(withRuntime bool) *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		CallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "calls_total",
			Help:      "RPC calls by method and outcome.",
		}, []string{"method", "outcome"}),
		CallDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "call_duration_seconds",
			Help:      "RPC round trip latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		CallsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "calls_in_flight",
			Help:      "RPC calls currently waiting on the remote end.",
		}),
	}

	r.reg.MustRegister(r.CallsTotal, r.CallDuration, r.CallsInFlight)
	if withRuntime {
		r.reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return r
}

// ObserveCall records one finished call.
func (r *Registry) ObserveCall(method, outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.CallsTotal.WithLabelValues(method, outcome).Inc()
	r.CallDuration.WithLabelValues(method).Observe(d.Seconds())
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// WriteTextfile writes all metrics to path atomically in the Prometheus
// text format.
func (r *Registry) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
