package metric

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const Namespace = "crackdash"

// Reconcile outcomes.
const (
	ReconcileApplied = "applied"
	ReconcileFailed  = "failed"
	ReconcileDropped = "dropped"
	ReconcileSkipped = "skipped"
)

type Metrics struct {
	reconciles      *prometheus.CounterVec
	jobs            *prometheus.GaugeVec
	resources       prometheus.Gauge
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		reconciles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "reconcile_total",
				Help:      "Job list polls by outcome: `applied`, `failed`, `dropped`, `skipped`",
			}, []string{"result"}),
		jobs: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "jobs",
				Help:      "Jobs on the board by list: `active`, `completed`",
			}, []string{"list"}),
		resources: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "resources",
				Help:      "Resources known to the registry",
			}),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "api",
				Name:      "requests_total",
				Help:      "Queue server requests by method and status code, 0 when no response arrived",
			}, []string{"method", "code"}),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Subsystem: "api",
				Name:      "request_duration_seconds",
				Help:      "Queue server round trip latency",
				Buckets:   prometheus.DefBuckets,
			}, []string{"method"}),
	}

	reg.MustRegister(m.reconciles, m.jobs, m.resources, m.requests, m.requestDuration)
	return m
}

func (m *Metrics) ObserveRequest(method string, code int, elapsed time.Duration) {
	m.requests.WithLabelValues(method, strconv.Itoa(code)).Inc()
	m.requestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveReconcile(result string) {
	m.reconciles.WithLabelValues(result).Inc()
}

func (m *Metrics) SetJobs(active, completed int) {
	m.jobs.WithLabelValues("active").Set(float64(active))
	m.jobs.WithLabelValues("completed").Set(float64(completed))
}

func (m *Metrics) SetResources(n int) {
	m.resources.Set(float64(n))
}
