package job

import (
	"context"
	"sync"

	"github.com/oneee-playground/crackdash/internal/notify"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var ErrReorderPending = errors.New("reorder pending, poll result dropped")

type Fetcher interface {
	ListJobs(ctx context.Context) ([]Job, error)
}

type ColorLookup interface {
	ColorStyle(resourceID string) (style string, ok bool)
}

type Reconciler struct {
	log      *zap.Logger
	fetcher  Fetcher
	board    *Board
	colors   ColorLookup
	notifier notify.Publisher

	// Serializes fetch and apply so an older response never lands
	// after a newer one.
	mu sync.Mutex
}

func NewReconciler(
	log *zap.Logger, fetcher Fetcher, board *Board,
	colors ColorLookup, notifier notify.Publisher,
) *Reconciler {
	return &Reconciler{
		log:      log,
		fetcher:  fetcher,
		board:    board,
		colors:   colors,
		notifier: notifier,
	}
}

func (r *Reconciler) Board() *Board {
	return r.board
}

// Reconcile fetches the job list and merges it into the board.
// On failure the board is left untouched.
func (r *Reconciler) Reconcile(ctx context.Context) (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	jobs, err := r.fetcher.ListJobs(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			notify.Report(r.notifier, listMessages, err)
		}
		return Result{}, errors.Wrap(err, "fetching jobs")
	}

	res, applied := r.board.apply(jobs, r.colors)
	if !applied {
		r.log.Debug("dropping poll result, reorder began during fetch")
		return Result{}, ErrReorderPending
	}

	r.log.Debug("jobs reconciled",
		zap.Int("fetched", len(jobs)),
		zap.Int("added", len(res.Added)),
		zap.Int("updated", len(res.Updated)),
		zap.Int("completed", len(res.Completed)),
	)

	return res, nil
}
