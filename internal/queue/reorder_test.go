package queue

import (
	"context"
	"testing"

	"github.com/oneee-playground/crackdash/internal/job"
	"github.com/oneee-playground/crackdash/internal/notify"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type statusError int

func (e statusError) Error() string   { return "unexpected status" }
func (e statusError) StatusCode() int { return int(e) }

type fakeQueue struct {
	jobs   []job.Job
	orders [][]string
	err    error
}

func (f *fakeQueue) ReorderQueue(_ context.Context, order []string) error {
	if f.err != nil {
		return f.err
	}
	f.orders = append(f.orders, order)
	return nil
}

func (f *fakeQueue) ListJobs(context.Context) ([]job.Job, error) {
	return append([]job.Job(nil), f.jobs...), nil
}

type ReorderSuite struct {
	suite.Suite
	server    *fakeQueue
	board     *job.Board
	notifier  *notify.Recorder
	reorderer *Reorderer
}

func TestReorderSuite(t *testing.T) {
	suite.Run(t, new(ReorderSuite))
}

func (s *ReorderSuite) SetupTest() {
	s.server = &fakeQueue{jobs: []job.Job{
		{ID: "A", Status: job.StatusRunning},
		{ID: "B", Status: job.StatusCreated},
		{ID: "C", Status: job.StatusCreated},
		{ID: "D", Status: job.StatusDone},
	}}
	s.board = job.NewBoard()
	s.notifier = notify.NewRecorder()

	reconciler := job.NewReconciler(zap.NewNop(), s.server, s.board, nil, s.notifier)
	_, err := reconciler.Reconcile(context.Background())
	s.Require().NoError(err)

	s.reorderer = NewReorderer(zap.NewNop(), s.server, s.board, reconciler, s.notifier)
}

func (s *ReorderSuite) TestConfirmSubmitsActiveThenCompleted() {
	s.reorderer.Begin()
	s.Require().NoError(s.reorderer.Move("C", 0))
	s.Require().NoError(s.reorderer.Move("A", 2))

	s.Require().NoError(s.reorderer.Confirm(context.Background()))

	s.Equal([][]string{{"C", "B", "A", "D"}}, s.server.orders)
	s.False(s.reorderer.Pending())
	s.Equal([]string{"Job data reordered successfully."}, s.notifier.Texts())
}

func (s *ReorderSuite) TestConfirmFailureEndsReorder() {
	testcases := []struct {
		desc   string
		err    error
		expect []string
	}{
		{desc: "not found", err: statusError(404), expect: []string{"Somehow the queue object was not found... this is bad."}},
		{desc: "forbidden", err: statusError(403), expect: []string{"You're not allowed to do that..."}},
		{desc: "unrecognized status", err: statusError(502)},
	}

	for _, tc := range testcases {
		s.Run(tc.desc, func() {
			s.notifier.Reset()
			s.server.err = tc.err

			s.reorderer.Begin()
			s.Error(s.reorderer.Confirm(context.Background()))
			s.False(s.reorderer.Pending())
			s.Equal(tc.expect, s.notifier.Texts())
			s.Empty(s.server.orders)
		})
	}
}

func (s *ReorderSuite) TestConfirmWithoutBegin() {
	s.ErrorIs(s.reorderer.Confirm(context.Background()), job.ErrNotReordering)
	s.Empty(s.server.orders)
}

func (s *ReorderSuite) TestCancelRestoresServerOrder() {
	s.reorderer.Begin()
	s.Require().NoError(s.reorderer.Move("C", 0))

	s.reorderer.Cancel(context.Background())

	s.False(s.reorderer.Pending())
	s.Equal([]string{"A", "B", "C", "D"}, s.board.Order())
	s.Equal([]string{"Reordering of jobs cancelled."}, s.notifier.Texts())
}

func (s *ReorderSuite) TestMoveRequiresBegin() {
	s.ErrorIs(s.reorderer.Move("C", 0), job.ErrNotReordering)
}
