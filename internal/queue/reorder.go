package queue

import (
	"context"

	"github.com/oneee-playground/crackdash/internal/job"
	"github.com/oneee-playground/crackdash/internal/notify"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Codes outside this table are not reported to the operator.
var reorderMessages = notify.Messages{
	Status: map[int]notify.Message{
		400: {Level: notify.LevelError, Text: "You sent bad data, check your input and if it's correct get in touch with us on github"},
		403: {Level: notify.LevelWarning, Text: "You're not allowed to do that..."},
		404: {Level: notify.LevelError, Text: "Somehow the queue object was not found... this is bad."},
		409: {Level: notify.LevelError, Text: "The request could not be completed because there was a conflict."},
		500: {Level: notify.LevelError, Text: "An internal server error occured while trying to reorder the queue."},
	},
}

type Client interface {
	ReorderQueue(ctx context.Context, order []string) error
}

type Reconciler interface {
	Reconcile(ctx context.Context) (job.Result, error)
}

// Reorderer drives a manual reorder of the job board. Between Begin and
// Confirm or Cancel the board is frozen for polling.
type Reorderer struct {
	log        *zap.Logger
	client     Client
	board      *job.Board
	reconciler Reconciler
	notifier   notify.Publisher
}

func NewReorderer(
	log *zap.Logger, client Client, board *job.Board,
	reconciler Reconciler, notifier notify.Publisher,
) *Reorderer {
	return &Reorderer{
		log:        log,
		client:     client,
		board:      board,
		reconciler: reconciler,
		notifier:   notifier,
	}
}

func (r *Reorderer) Begin() {
	r.board.BeginReorder()
	r.log.Debug("reorder started")
}

func (r *Reorderer) Pending() bool {
	return r.board.Reordered()
}

// Move places an active job at index to.
func (r *Reorderer) Move(id string, to int) error {
	if err := r.board.MoveActive(id, to); err != nil {
		return errors.Wrapf(err, "moving job %s", id)
	}
	return nil
}

// Confirm submits the displayed order, active jobs first. The reorder
// ends whatever the outcome and a failed submit is not retried.
func (r *Reorderer) Confirm(ctx context.Context) error {
	if !r.board.Reordered() {
		return job.ErrNotReordering
	}

	order := r.board.Order()
	err := r.client.ReorderQueue(ctx, order)
	r.board.EndReorder(false)

	if err != nil {
		notify.Report(r.notifier, reorderMessages, err)
		return errors.Wrap(err, "submitting job order")
	}

	r.log.Info("queue reordered", zap.Strings("order", order))
	r.notifier.Publish(notify.LevelSuccess, "Job data reordered successfully.")

	r.refresh(ctx)
	return nil
}

// Cancel puts the active list back in its prior order and reloads.
func (r *Reorderer) Cancel(ctx context.Context) {
	r.board.EndReorder(true)
	r.refresh(ctx)
	r.notifier.Publish(notify.LevelInfo, "Reordering of jobs cancelled.")
}

func (r *Reorderer) refresh(ctx context.Context) {
	if _, err := r.reconciler.Reconcile(ctx); err != nil {
		r.log.Warn("reconciling after reorder", zap.Error(err))
	}
}
