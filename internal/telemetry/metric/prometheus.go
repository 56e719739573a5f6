// Package metric provides Prometheus metrics for the smsauth client.
package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "smsauth"

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Registry holds all client metrics on a private prometheus.Registry.
type Registry struct {
	registry *prometheus.Registry

	// Operations counts session operations by name and outcome.
	Operations *prometheus.CounterVec
	// OperationDuration observes operation latency, network call included.
	OperationDuration *prometheus.HistogramVec
	// Transitions counts applied state transitions by name.
	Transitions *prometheus.CounterVec
	// Authenticated is 1 while the session is authenticated.
	Authenticated prometheus.Gauge
}

// NewRegistry creates and registers all metrics.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Session operations by outcome.",
		}, []string{"operation", "result"}),
		OperationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Session operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_transitions_total",
			Help:      "Applied session state transitions.",
		}, []string{"transition"}),
		Authenticated: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "session_authenticated",
			Help:      "1 while the client holds an authenticated session.",
		}),
	}

	r.registry.MustRegister(r.Operations, r.OperationDuration, r.Transitions, r.Authenticated)
	return r
}

// ObserveOperation records one completed operation.
func (r *Registry) ObserveOperation(operation string, success bool, elapsed time.Duration) {
	result := ResultFailure
	if success {
		result = ResultSuccess
	}
	r.Operations.WithLabelValues(operation, result).Inc()
	r.OperationDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveTransition records one applied transition and the resulting
// authentication flag.
func (r *Registry) ObserveTransition(transition string, authenticated bool) {
	r.Transitions.WithLabelValues(transition).Inc()
	if authenticated {
		r.Authenticated.Set(1)
	} else {
		r.Authenticated.Set(0)
	}
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes all metrics to path in the text exposition format,
// atomically, for the node_exporter textfile collector.
func (r *Registry) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
