package console

import (
	"context"
	"time"

	"github.com/oneee-playground/crackdash/internal/event"
	"github.com/oneee-playground/crackdash/internal/job"
	"github.com/oneee-playground/crackdash/internal/metric"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const DefaultPollInterval = 15 * time.Second

type JobsViewOpts struct {
	Reconciler *job.Reconciler
	Interval   time.Duration

	// Optional.
	Events   event.Publisher
	Recorder *metric.Recorder
	Observer Observer
}

// JobsView keeps the job board fresh while it is open.
type JobsView struct {
	log *zap.Logger

	reconciler *job.Reconciler
	interval   time.Duration
	events     event.Publisher
	recorder   *metric.Recorder
	observer   Observer
}

func NewJobsView(log *zap.Logger, opts JobsViewOpts) *JobsView {
	v := &JobsView{
		log:        log,
		reconciler: opts.Reconciler,
		interval:   opts.Interval,
		events:     opts.Events,
		recorder:   opts.Recorder,
		observer:   opts.Observer,
	}

	if v.interval <= 0 {
		v.interval = DefaultPollInterval
	}
	if v.events == nil {
		v.events = event.NopPublisher{}
	}
	if v.observer == nil {
		v.observer = nopObserver{}
	}

	return v
}

// Run reconciles once, then on every tick until ctx is done. Ticks are
// skipped while a reorder is pending.
func (v *JobsView) Run(ctx context.Context) error {
	v.log.Info("jobs view running", zap.Duration("interval", v.interval))

	v.poll(ctx)

	ticker := time.NewTicker(v.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if v.reconciler.Board().Reordered() {
			v.observer.ObserveReconcile(metric.ReconcileSkipped)
			continue
		}

		v.poll(ctx)
	}
}

func (v *JobsView) poll(ctx context.Context) {
	res, err := v.reconciler.Reconcile(ctx)
	switch {
	case errors.Is(err, job.ErrReorderPending):
		v.observer.ObserveReconcile(metric.ReconcileDropped)
		return
	case err != nil:
		if ctx.Err() == nil {
			v.log.Error("failed to reconcile jobs", zap.Error(err))
			v.observer.ObserveReconcile(metric.ReconcileFailed)
		}
		return
	}

	v.observer.ObserveReconcile(metric.ReconcileApplied)

	board := v.reconciler.Board()
	active, completed := board.Active(), board.Completed()
	v.observer.SetJobs(len(active), len(completed))

	now := time.Now()
	if v.recorder != nil {
		v.recorder.RecordJobs(active, now)
	}

	for _, id := range res.Completed {
		j, ok := board.Find(id)
		if !ok {
			continue
		}

		if err := v.events.Publish(ctx, event.NewJobEvent(j, now)); err != nil {
			v.log.Error("failed to publish job event", zap.String("jobID", id), zap.Error(err))
		}
	}
}
