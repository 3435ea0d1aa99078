package metric

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ObserveRequest(http.MethodGet, 200, 10*time.Millisecond)
	m.ObserveRequest(http.MethodGet, 200, 20*time.Millisecond)
	m.ObserveRequest(http.MethodPut, 0, time.Second)
	m.ObserveReconcile(ReconcileApplied)
	m.ObserveReconcile(ReconcileSkipped)
	m.ObserveReconcile(ReconcileSkipped)
	m.SetJobs(3, 5)
	m.SetResources(2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues(http.MethodPut, "0")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.reconciles.WithLabelValues(ReconcileSkipped)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.jobs.WithLabelValues("active")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.jobs.WithLabelValues("completed")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.resources))
}

func TestMetricsRegisterOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg)

	assert.Panics(t, func() { NewMetrics(reg) })
}
