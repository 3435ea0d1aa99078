package console

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/oneee-playground/crackdash/internal/event"
	"github.com/oneee-playground/crackdash/internal/job"
	"github.com/oneee-playground/crackdash/internal/metric"
	"github.com/oneee-playground/crackdash/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

type scriptedFetcher struct {
	mu    sync.Mutex
	calls int
	jobs  []job.Job
}

func (f *scriptedFetcher) ListJobs(context.Context) ([]job.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return append([]job.Job(nil), f.jobs...), nil
}

func (f *scriptedFetcher) set(jobs ...job.Job) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = jobs
}

func (f *scriptedFetcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type eventSink struct {
	mu     sync.Mutex
	events []event.JobEvent
}

func (s *eventSink) Publish(_ context.Context, e event.JobEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *eventSink) jobIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []string
	for _, e := range s.events {
		ids = append(ids, e.JobID)
	}
	return ids
}

type countingObserver struct {
	mu      sync.Mutex
	results map[string]int
	active  int
}

func (o *countingObserver) ObserveReconcile(result string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.results[result]++
}

func (o *countingObserver) SetJobs(active, _ int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.active = active
}

func (o *countingObserver) SetResources(int) {}

func (o *countingObserver) count(result string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.results[result]
}

func runView(t *testing.T, run func(ctx context.Context) error) (stop func() error) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	errchan := make(chan error, 1)
	go func() { errchan <- run(ctx) }()

	return func() error {
		cancel()
		return <-errchan
	}
}

func TestJobsViewPublishesCompletions(t *testing.T) {
	defer goleak.VerifyNone(t)

	fetcher := &scriptedFetcher{}
	fetcher.set(job.Job{ID: "a", Status: job.StatusRunning}, job.Job{ID: "b", Status: job.StatusRunning})

	board := job.NewBoard()
	sink := &eventSink{}
	observer := &countingObserver{results: map[string]int{}}

	view := NewJobsView(zap.NewNop(), JobsViewOpts{
		Reconciler: job.NewReconciler(zap.NewNop(), fetcher, board, nil, notify.NewRecorder()),
		Interval:   5 * time.Millisecond,
		Events:     sink,
		Observer:   observer,
	})

	stop := runView(t, view.Run)

	require.Eventually(t, func() bool { return len(board.Active()) == 2 }, time.Second, time.Millisecond)

	fetcher.set(job.Job{ID: "a", Status: job.StatusDone}, job.Job{ID: "b", Status: job.StatusRunning})
	require.Eventually(t, func() bool { return len(sink.jobIDs()) == 1 }, time.Second, time.Millisecond)

	assert.ErrorIs(t, stop(), context.Canceled)
	assert.Equal(t, []string{"a"}, sink.jobIDs())
	assert.Positive(t, observer.count(metric.ReconcileApplied))
}

func TestJobsViewSkipsWhileReordering(t *testing.T) {
	defer goleak.VerifyNone(t)

	fetcher := &scriptedFetcher{}
	fetcher.set(job.Job{ID: "a", Status: job.StatusRunning})

	board := job.NewBoard()
	observer := &countingObserver{results: map[string]int{}}

	view := NewJobsView(zap.NewNop(), JobsViewOpts{
		Reconciler: job.NewReconciler(zap.NewNop(), fetcher, board, nil, notify.NewRecorder()),
		Interval:   5 * time.Millisecond,
		Observer:   observer,
	})

	stop := runView(t, view.Run)
	require.Eventually(t, func() bool { return fetcher.count() >= 1 }, time.Second, time.Millisecond)

	board.BeginReorder()
	require.Eventually(t, func() bool { return observer.count(metric.ReconcileSkipped) >= 2 }, time.Second, time.Millisecond)

	calls := fetcher.count()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, calls, fetcher.count())

	board.EndReorder(false)
	require.Eventually(t, func() bool { return fetcher.count() > calls }, time.Second, time.Millisecond)

	stop()
}

func TestJobsViewRecordsRunningJobs(t *testing.T) {
	defer goleak.VerifyNone(t)

	fetcher := &scriptedFetcher{}
	fetcher.set(job.Job{ID: "a", Status: job.StatusRunning}, job.Job{ID: "b", Status: job.StatusPaused})

	buf := &pointCounter{}
	view := NewJobsView(zap.NewNop(), JobsViewOpts{
		Reconciler: job.NewReconciler(zap.NewNop(), fetcher, job.NewBoard(), nil, notify.NewRecorder()),
		Interval:   time.Hour,
		Recorder:   metric.NewRecorder(buf),
	})

	stop := runView(t, view.Run)
	require.Eventually(t, func() bool { return buf.count() == 1 }, time.Second, time.Millisecond)
	stop()
}
