// Package metrics records check outcomes, probe latency, and benchmark polling as Prometheus metrics.
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/cirisai/stackcheck/internal/stackcheck/benchmark"
	"github.com/cirisai/stackcheck/internal/stackcheck/suite"
)

const MetricsPrefix = "stackcheck_"

type Metrics struct {
	registry *prometheus.Registry

	checksTotal       *prometheus.CounterVec
	checkDuration     *prometheus.HistogramVec
	serviceUp         *prometheus.GaugeVec
	probeLatency      *prometheus.HistogramVec
	pollsTotal        *prometheus.CounterVec
	runsTotal         *prometheus.CounterVec
	runDuration       prometheus.Histogram
	runsInFlight      prometheus.Gauge
	validationsFailed *prometheus.CounterVec
}

// New creates the collectors and registers them with a registry of their own.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		checksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricsPrefix + "checks_total",
			Help: "Number of live checks run, grouped by group, check, and status",
		}, []string{"group", "check", "status"}),
		checkDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    MetricsPrefix + "check_duration_seconds",
			Help:    "Duration of live checks, grouped by group",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		}, []string{"group"}),
		serviceUp: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: MetricsPrefix + "service_up",
			Help: "Whether the last probe of a service found it healthy",
		}, []string{"service"}),
		probeLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    MetricsPrefix + "probe_latency_seconds",
			Help:    "Latency of health probes, grouped by service",
			Buckets: prometheus.DefBuckets,
		}, []string{"service"}),
		pollsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricsPrefix + "benchmark_polls_total",
			Help: "Number of benchmark status polls, grouped by job status and HTTP status code",
		}, []string{"status", "code"}),
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricsPrefix + "benchmark_runs_total",
			Help: "Number of benchmark runs, grouped by outcome",
		}, []string{"outcome"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricsPrefix + "benchmark_run_duration_seconds",
			Help:    "Wall-clock duration of benchmark runs",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		runsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: MetricsPrefix + "benchmark_runs_in_flight",
			Help: "Number of benchmark jobs currently being polled",
		}),
		validationsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricsPrefix + "artifact_validations_failed_total",
			Help: "Number of failed artifact validations, grouped by validator",
		}, []string{"validator"}),
	}
	m.registry.MustRegister(
		m.checksTotal,
		m.checkDuration,
		m.serviceUp,
		m.probeLatency,
		m.pollsTotal,
		m.runsTotal,
		m.runDuration,
		m.runsInFlight,
		m.validationsFailed,
	)
	return m
}

// Registry is what the metrics endpoint serves.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveCase(result suite.Result) {
	m.checksTotal.WithLabelValues(string(result.Group), result.Name, string(result.Status)).Inc()
	m.checkDuration.WithLabelValues(string(result.Group)).Observe(result.Duration.Seconds())
}

func (m *Metrics) ObserveProbe(service string, up bool, latency time.Duration) {
	value := 0.0
	if up {
		value = 1
	}
	m.serviceUp.WithLabelValues(service).Set(value)
	m.probeLatency.WithLabelValues(service).Observe(latency.Seconds())
}

func (m *Metrics) RecordValidationFailure(validator string) {
	m.validationsFailed.WithLabelValues(validator).Inc()
}

func (m *Metrics) RunStarted(_ context.Context, _ *benchmark.Report) {
	m.runsInFlight.Inc()
}

// StatusPolled counts a poll. Non-200 polls carry no job status.
func (m *Metrics) StatusPolled(status string, code int) {
	if status == "" {
		status = "none"
	}
	m.pollsTotal.WithLabelValues(status, strconv.Itoa(code)).Inc()
}

func (m *Metrics) RunFinished(_ context.Context, report *benchmark.Report) {
	if report.JobId != "" {
		m.runsInFlight.Dec()
	}
	m.runsTotal.WithLabelValues(string(report.Outcome)).Inc()
	m.runDuration.Observe(report.Duration.Seconds())
}
