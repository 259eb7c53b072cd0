package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ServiceMetrics counts service operations. Every module's application
// service records through this interface.
type ServiceMetrics interface {
	OperationAttempt(ctx context.Context, service, operation string)
	OperationSuccess(ctx context.Context, service, operation string)
	OperationFailure(ctx context.Context, service, operation string)
	OperationDuration(ctx context.Context, service, operation string, d time.Duration)
}

type promServiceMetrics struct {
	attempts  *prometheus.CounterVec
	successes *prometheus.CounterVec
	failures  *prometheus.CounterVec
	durations *prometheus.HistogramVec
}

// NewServiceMetrics registers the operation metric family on reg.
func NewServiceMetrics(reg *prometheus.Registry, namespace string) ServiceMetrics {
	labels := []string{"service", "operation"}
	m := &promServiceMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_attempts_total",
			Help:      "Service operations started.",
		}, labels),
		successes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_successes_total",
			Help:      "Service operations completed without infrastructure error.",
		}, labels),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_failures_total",
			Help:      "Service operations that failed or panicked.",
		}, labels),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Service operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, labels),
	}
	reg.MustRegister(m.attempts, m.successes, m.failures, m.durations)
	return m
}

func (m *promServiceMetrics) OperationAttempt(_ context.Context, service, operation string) {
	m.attempts.WithLabelValues(service, operation).Inc()
}

func (m *promServiceMetrics) OperationSuccess(_ context.Context, service, operation string) {
	m.successes.WithLabelValues(service, operation).Inc()
}

func (m *promServiceMetrics) OperationFailure(_ context.Context, service, operation string) {
	m.failures.WithLabelValues(service, operation).Inc()
}

func (m *promServiceMetrics) OperationDuration(_ context.Context, service, operation string, d time.Duration) {
	m.durations.WithLabelValues(service, operation).Observe(d.Seconds())
}

// HandlerMetrics is the prometheus-backed event handler metric family. It
// satisfies the handler wrapper's Metrics interface.
type HandlerMetrics struct {
	attempts  *prometheus.CounterVec
	successes *prometheus.CounterVec
	failures  *prometheus.CounterVec
	durations *prometheus.HistogramVec
}

// NewHandlerMetrics registers the event handler metric family on reg.
func NewHandlerMetrics(reg *prometheus.Registry, namespace string) *HandlerMetrics {
	labels := []string{"handler"}
	m := &HandlerMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handler_attempts_total",
			Help:      "Event handler executions started.",
		}, labels),
		successes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handler_successes_total",
			Help:      "Event handler executions that acked.",
		}, labels),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handler_failures_total",
			Help:      "Event handler executions that nacked.",
		}, labels),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "handler_duration_seconds",
			Help:      "Event handler latency.",
			Buckets:   prometheus.DefBuckets,
		}, labels),
	}
	reg.MustRegister(m.attempts, m.successes, m.failures, m.durations)
	return m
}

func (m *HandlerMetrics) HandlerAttempt(handlerName string) {
	m.attempts.WithLabelValues(handlerName).Inc()
}

func (m *HandlerMetrics) HandlerSuccess(handlerName string) {
	m.successes.WithLabelValues(handlerName).Inc()
}

func (m *HandlerMetrics) HandlerFailure(handlerName string) {
	m.failures.WithLabelValues(handlerName).Inc()
}

func (m *HandlerMetrics) HandlerDuration(handlerName string, d time.Duration) {
	m.durations.WithLabelValues(handlerName).Observe(d.Seconds())
}

// NoopServiceMetrics discards all measurements. Used in tests.
type NoopServiceMetrics struct{}

func (NoopServiceMetrics) OperationAttempt(context.Context, string, string) {}
func (NoopServiceMetrics) OperationSuccess(context.Context, string, string) {}
func (NoopServiceMetrics) OperationFailure(context.Context, string, string) {}

func (NoopServiceMetrics) OperationDuration(context.Context, string, string, time.Duration) {}

var (
	_ ServiceMetrics = (*promServiceMetrics)(nil)
	_ ServiceMetrics = NoopServiceMetrics{}
)
