package console

import (
	"context"
	"time"

	"github.com/oneee-playground/crackdash/internal/metric"
	"github.com/oneee-playground/crackdash/internal/resource"
	"go.uber.org/zap"
)

type ResourcesViewOpts struct {
	Registry *resource.Registry
	Interval time.Duration

	// Optional.
	Recorder *metric.Recorder
	Observer Observer
}

// ResourcesView loads the registry once and then refreshes known
// resources in place.
type ResourcesView struct {
	log *zap.Logger

	registry *resource.Registry
	interval time.Duration
	recorder *metric.Recorder
	observer Observer
}

func NewResourcesView(log *zap.Logger, opts ResourcesViewOpts) *ResourcesView {
	v := &ResourcesView{
		log:      log,
		registry: opts.Registry,
		interval: opts.Interval,
		recorder: opts.Recorder,
		observer: opts.Observer,
	}

	if v.interval <= 0 {
		v.interval = DefaultPollInterval
	}
	if v.observer == nil {
		v.observer = nopObserver{}
	}

	return v
}

func (v *ResourcesView) Run(ctx context.Context) error {
	v.log.Info("resources view running", zap.Duration("interval", v.interval))

	loaded := v.load(ctx)

	ticker := time.NewTicker(v.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		// Update never adds entries, so keep trying a full load first.
		if !loaded {
			loaded = v.load(ctx)
			continue
		}

		if err := v.registry.Update(ctx); err != nil {
			if ctx.Err() == nil {
				v.log.Error("failed to update resources", zap.Error(err))
			}
			continue
		}

		v.record()
	}
}

func (v *ResourcesView) load(ctx context.Context) bool {
	if err := v.registry.Load(ctx); err != nil {
		if ctx.Err() == nil {
			v.log.Error("failed to load resources", zap.Error(err))
		}
		return false
	}

	v.record()
	return true
}

func (v *ResourcesView) record() {
	list := v.registry.List()
	v.observer.SetResources(len(list))

	if v.recorder != nil {
		v.recorder.RecordResources(list)
	}
}
