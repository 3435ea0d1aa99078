package console

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/api/write"
	"github.com/oneee-playground/crackdash/internal/metric"
	"github.com/oneee-playground/crackdash/internal/resource"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

type pointCounter struct {
	mu sync.Mutex
	n  int
}

func (p *pointCounter) Write(*write.Point) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.n++
}

func (p *pointCounter) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.n
}

type flakyLister struct {
	mu        sync.Mutex
	failFirst int
	calls     int
	resources []resource.Resource
}

func (f *flakyLister) ListResources(context.Context) ([]resource.Resource, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.calls <= f.failFirst {
		return nil, errors.New("queue server unavailable")
	}
	return append([]resource.Resource(nil), f.resources...), nil
}

func (f *flakyLister) setStatus(id string, status resource.Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for idx := range f.resources {
		if f.resources[idx].ID == id {
			f.resources[idx].Status = status
		}
	}
}

func TestResourcesViewLoadsThenUpdates(t *testing.T) {
	defer goleak.VerifyNone(t)

	lister := &flakyLister{
		failFirst: 1,
		resources: []resource.Resource{
			{ID: "r1", Name: "gpu-box", Status: resource.StatusRunning, CPUUsage: map[int64]float64{100: 0.4}},
		},
	}
	registry := resource.NewRegistry(zap.NewNop(), lister)
	buf := &pointCounter{}

	view := NewResourcesView(zap.NewNop(), ResourcesViewOpts{
		Registry: registry,
		Interval: 5 * time.Millisecond,
		Recorder: metric.NewRecorder(buf),
	})

	stop := runView(t, view.Run)

	// The first load fails, a later tick loads.
	require.Eventually(t, func() bool { return registry.Len() == 1 }, time.Second, time.Millisecond)
	first, _ := registry.Get("r1")

	lister.setStatus("r1", resource.StatusPaused)
	require.Eventually(t, func() bool {
		res, _ := registry.Get("r1")
		return res.Status == resource.StatusPaused
	}, time.Second, time.Millisecond)

	assert.ErrorIs(t, stop(), context.Canceled)

	res, _ := registry.Get("r1")
	assert.Equal(t, first.Color, res.Color)
	assert.Equal(t, 1, buf.count())
}
