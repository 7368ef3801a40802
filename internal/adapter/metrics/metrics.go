// Package metrics exposes poll and inference counters to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors on a private registry. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	PollsTotal        *prometheus.CounterVec
	PollDuration      prometheus.Histogram
	TasksTotal        *prometheus.CounterVec
	TasksInFlight     prometheus.Gauge
	InferenceDuration *prometheus.HistogramVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		PollsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "village_polls_total",
				Help: "Total number of polls by result",
			},
			[]string{"status"},
		),
		PollDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "village_poll_duration_seconds",
				Help:    "Wall time from dispatch to settlement",
				Buckets: []float64{1, 2.5, 5, 10, 20, 40, 60, 120, 300},
			},
		),
		TasksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "village_agent_tasks_total",
				Help: "Total number of settled agent tasks by outcome",
			},
			[]string{"outcome"},
		),
		TasksInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "village_agent_tasks_in_flight",
				Help: "Agent tasks currently holding a concurrency slot",
			},
		),
		InferenceDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "village_inference_duration_seconds",
				Help:    "Duration of provider calls",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
	}

	registry.MustRegister(
		m.PollsTotal,
		m.PollDuration,
		m.TasksTotal,
		m.TasksInFlight,
		m.InferenceDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) PollSettled(d time.Duration) {
	if m == nil {
		return
	}
	m.PollsTotal.WithLabelValues("settled").Inc()
	m.PollDuration.Observe(d.Seconds())
}

func (m *Metrics) PollRejected() {
	if m == nil {
		return
	}
	m.PollsTotal.WithLabelValues("rejected").Inc()
}

func (m *Metrics) TaskStarted() {
	if m == nil {
		return
	}
	m.TasksInFlight.Inc()
}

func (m *Metrics) TaskFinished(outcome string) {
	if m == nil {
		return
	}
	m.TasksInFlight.Dec()
	m.TasksTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) InferenceObserved(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.InferenceDuration.WithLabelValues(stage).Observe(d.Seconds())
}
