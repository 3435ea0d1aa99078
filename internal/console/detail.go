package console

import (
	"context"
	"sync"
	"time"

	"github.com/oneee-playground/crackdash/internal/job"
	"github.com/oneee-playground/crackdash/internal/notify"
	"github.com/oneee-playground/crackdash/internal/resource"
	"github.com/oneee-playground/crackdash/internal/tool"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const detailFailedText = "There was a problem loading job details."

type DetailSource interface {
	Detail(ctx context.Context, id string) (job.Detail, error)
}

type ToolSource interface {
	Get(ctx context.Context, id string) (tool.Tool, error)
}

type ResourceSource interface {
	Get(id string) (resource.Resource, bool)
}

// DetailSnapshot is what the detail pane shows.
type DetailSnapshot struct {
	Job          job.Detail
	Series       []job.Sample
	ToolName     string
	ResourceName string
}

type DetailViewOpts struct {
	JobID     string
	Jobs      DetailSource
	Tools     ToolSource
	Resources ResourceSource
	Notifier  notify.Publisher
	Interval  time.Duration
}

// DetailView shows one job's detail while visible and refreshes it on
// an interval. A failed load hides it again.
type DetailView struct {
	log  *zap.Logger
	opts DetailViewOpts

	mu       sync.Mutex
	snapshot DetailSnapshot
	visible  bool
	stop     context.CancelFunc
	done     chan struct{}
}

func NewDetailView(log *zap.Logger, opts DetailViewOpts) *DetailView {
	if opts.Interval <= 0 {
		opts.Interval = DefaultPollInterval
	}
	return &DetailView{
		log:  log.With(zap.String("jobID", opts.JobID)),
		opts: opts,
	}
}

// SetVisible shows or hides the detail. Showing loads it right away and
// starts the refresh loop under ctx; hiding stops the loop and waits for
// it to exit.
func (v *DetailView) SetVisible(ctx context.Context, visible bool) error {
	if !visible {
		v.hide()
		return nil
	}

	v.mu.Lock()
	already := v.visible
	v.mu.Unlock()
	if already {
		return nil
	}

	snap, err := v.load(ctx)
	if err != nil {
		v.opts.Notifier.Publish(notify.LevelError, detailFailedText)
		return err
	}

	// Names are looked up once per showing.
	snap.ResourceName = v.resourceName(snap.Job.ResourceID)
	snap.ToolName = v.toolName(ctx, snap.Job.ToolID)

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	v.mu.Lock()
	v.snapshot = snap
	v.visible = true
	v.stop = cancel
	v.done = done
	v.mu.Unlock()

	go v.refresh(loopCtx, done)
	return nil
}

func (v *DetailView) hide() {
	v.mu.Lock()
	stop, done := v.stop, v.done
	v.visible = false
	v.stop, v.done = nil, nil
	v.mu.Unlock()

	if stop != nil {
		stop()
		<-done
	}
}

func (v *DetailView) Visible() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.visible
}

func (v *DetailView) Snapshot() (DetailSnapshot, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshot, v.visible
}

func (v *DetailView) refresh(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(v.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		snap, err := v.load(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}

			v.opts.Notifier.Publish(notify.LevelError, detailFailedText)

			v.mu.Lock()
			if v.done == done {
				v.stop()
				v.visible = false
				v.stop, v.done = nil, nil
			}
			v.mu.Unlock()
			return
		}

		v.mu.Lock()
		snap.ToolName, snap.ResourceName = v.snapshot.ToolName, v.snapshot.ResourceName
		v.snapshot = snap
		v.mu.Unlock()
	}
}

func (v *DetailView) load(ctx context.Context) (DetailSnapshot, error) {
	d, err := v.opts.Jobs.Detail(ctx, v.opts.JobID)
	if err != nil {
		return DetailSnapshot{}, errors.Wrap(err, "loading job detail")
	}
	return DetailSnapshot{Job: d, Series: d.PerformanceSeries()}, nil
}

func (v *DetailView) resourceName(id string) string {
	if id == "" || v.opts.Resources == nil {
		return ""
	}
	if res, ok := v.opts.Resources.Get(id); ok {
		return res.Name
	}
	return ""
}

func (v *DetailView) toolName(ctx context.Context, id string) string {
	if id == "" || v.opts.Tools == nil {
		return ""
	}

	t, err := v.opts.Tools.Get(ctx, id)
	if err != nil {
		v.log.Warn("failed to load tool", zap.String("toolID", id), zap.Error(err))
		return ""
	}
	return t.Name
}
