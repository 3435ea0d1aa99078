package job

import (
	"context"
	"testing"

	"github.com/oneee-playground/crackdash/internal/notify"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type statusError int

func (e statusError) Error() string   { return "unexpected status" }
func (e statusError) StatusCode() int { return int(e) }

type fakeFetcher struct {
	jobs []Job
	err  error

	// beforeReturn runs while the fetch is "in flight".
	beforeReturn func()
}

func (f *fakeFetcher) ListJobs(ctx context.Context) ([]Job, error) {
	if f.beforeReturn != nil {
		f.beforeReturn()
	}
	if f.err != nil {
		return nil, f.err
	}
	return append([]Job(nil), f.jobs...), nil
}

type colorTable map[string]string

func (c colorTable) ColorStyle(id string) (string, bool) {
	style, ok := c[id]
	return style, ok
}

type ReconcilerSuite struct {
	suite.Suite
	fetcher    *fakeFetcher
	notifier   *notify.Recorder
	board      *Board
	reconciler *Reconciler
}

func TestReconcilerSuite(t *testing.T) {
	suite.Run(t, new(ReconcilerSuite))
}

func (s *ReconcilerSuite) SetupTest() {
	s.fetcher = new(fakeFetcher)
	s.notifier = new(notify.Recorder)
	s.board = NewBoard()
	colors := colorTable{"res-1": "background-color: rgb(242,236,121);"}
	s.reconciler = NewReconciler(zap.NewNop(), s.fetcher, s.board, colors, s.notifier)
}

func (s *ReconcilerSuite) reconcile(jobs ...Job) Result {
	s.fetcher.jobs = jobs
	res, err := s.reconciler.Reconcile(context.Background())
	s.Require().NoError(err)
	return res
}

func (s *ReconcilerSuite) ids(jobs []Job) []string {
	ids := make([]string, len(jobs))
	for i, j := range jobs {
		ids[i] = j.ID
	}
	return ids
}

func (s *ReconcilerSuite) TestSplitsByStatus() {
	res := s.reconcile(
		Job{ID: "A", Status: StatusRunning},
		Job{ID: "B", Status: StatusDone},
		Job{ID: "C", Status: StatusCreated},
		Job{ID: "D", Status: StatusFailed},
		Job{ID: "E", Status: StatusQuit},
		Job{ID: "F", Status: StatusPaused},
	)

	s.Equal([]string{"A", "C", "F"}, s.ids(s.board.Active()))
	s.Equal([]string{"B", "D", "E"}, s.ids(s.board.Completed()))
	s.Len(res.Added, 6)
	for _, j := range append(s.board.Active(), s.board.Completed()...) {
		s.False(j.Expanded)
	}
}

func (s *ReconcilerSuite) TestUpdateKeepsPositionAndExpanded() {
	s.reconcile(
		Job{ID: "A", Status: StatusRunning, Progress: 0.1},
		Job{ID: "B", Status: StatusRunning},
	)
	s.Require().NoError(s.board.SetExpanded("A", true))

	res := s.reconcile(
		Job{ID: "B", Status: StatusRunning},
		Job{ID: "A", Status: StatusPaused, Progress: 0.4},
	)

	active := s.board.Active()
	s.Equal([]string{"A", "B"}, s.ids(active))
	s.True(active[0].Expanded)
	s.Equal(StatusPaused, active[0].Status)
	s.Equal(0.4, active[0].Progress)
	s.ElementsMatch([]string{"A", "B"}, res.Updated)
}

func (s *ReconcilerSuite) TestMoveToCompletedCarriesExpanded() {
	s.reconcile(Job{ID: "A", Status: StatusPaused})
	s.Require().NoError(s.board.SetExpanded("A", true))

	res := s.reconcile(Job{ID: "A", Status: StatusDone})

	s.Empty(s.board.Active())
	completed := s.board.Completed()
	s.Require().Len(completed, 1)
	s.Equal("A", completed[0].ID)
	s.True(completed[0].Expanded)
	s.Equal([]string{"A"}, res.Completed)
}

func (s *ReconcilerSuite) TestExpandedSurvivesRepeatedMerges() {
	s.reconcile(Job{ID: "A", Status: StatusCreated})
	s.Require().NoError(s.board.SetExpanded("A", true))

	for _, status := range []Status{StatusRunning, StatusPaused, StatusRunning, StatusFailed, StatusFailed} {
		s.reconcile(Job{ID: "A", Status: status})

		j, ok := s.board.Find("A")
		s.Require().True(ok)
		s.True(j.Expanded, "status %s", status)
	}

	s.Empty(s.board.Active())
	s.Len(s.board.Completed(), 1)
}

func (s *ReconcilerSuite) TestCompletedJobDoesNotReturnToActive() {
	s.reconcile(Job{ID: "A", Status: StatusRunning})
	s.reconcile(Job{ID: "A", Status: StatusQuit})
	s.reconcile(Job{ID: "A", Status: StatusQuit})

	s.Empty(s.board.Active())
	s.Equal([]string{"A"}, s.ids(s.board.Completed()))
}

func (s *ReconcilerSuite) TestResourceColorAnnotation() {
	s.reconcile(
		Job{ID: "A", Status: StatusRunning, ResourceID: "res-1"},
		Job{ID: "B", Status: StatusRunning, ResourceID: "missing"},
		Job{ID: "C", Status: StatusCreated},
	)

	active := s.board.Active()
	s.Equal("background-color: rgb(242,236,121);", active[0].ResourceColor)
	s.Empty(active[1].ResourceColor)
	s.Empty(active[2].ResourceColor)
}

func (s *ReconcilerSuite) TestJobsMissingFromServerStay() {
	s.reconcile(Job{ID: "A", Status: StatusRunning}, Job{ID: "B", Status: StatusRunning})
	s.reconcile(Job{ID: "B", Status: StatusRunning})

	s.Equal([]string{"A", "B"}, s.ids(s.board.Active()))
}

func (s *ReconcilerSuite) TestFetchFailureLeavesBoard() {
	s.reconcile(Job{ID: "A", Status: StatusRunning})

	testcases := []struct {
		desc   string
		err    error
		wantMs []notify.Message
	}{
		{
			desc:   "bad request",
			err:    statusError(400),
			wantMs: []notify.Message{listMessages.Status[400]},
		},
		{
			desc:   "forbidden",
			err:    statusError(403),
			wantMs: []notify.Message{{Level: notify.LevelWarning, Text: "You're not allowed to do that..."}},
		},
		{
			desc:   "not found",
			err:    statusError(404),
			wantMs: []notify.Message{listMessages.Status[404]},
		},
		{
			desc:   "conflict",
			err:    statusError(409),
			wantMs: []notify.Message{listMessages.Status[409]},
		},
		{
			desc:   "server error",
			err:    statusError(500),
			wantMs: []notify.Message{listMessages.Status[500]},
		},
		{
			desc:   "unrecognized status stays silent",
			err:    statusError(502),
			wantMs: nil,
		},
		{
			desc:   "transport error stays silent",
			err:    errors.New("connection refused"),
			wantMs: nil,
		},
	}

	for _, tc := range testcases {
		s.Run(tc.desc, func() {
			s.notifier.Reset()
			s.fetcher.err = tc.err
			defer func() { s.fetcher.err = nil }()

			_, err := s.reconciler.Reconcile(context.Background())
			s.Error(err)
			s.Equal(tc.wantMs, s.notifier.Messages())
			s.Equal([]string{"A"}, s.ids(s.board.Active()))
		})
	}
}

func (s *ReconcilerSuite) TestDropsResultWhenReorderStartsMidFetch() {
	s.reconcile(Job{ID: "A", Status: StatusRunning}, Job{ID: "B", Status: StatusRunning})

	s.fetcher.jobs = []Job{{ID: "A", Status: StatusDone}}
	s.fetcher.beforeReturn = func() { s.board.BeginReorder() }
	defer func() { s.fetcher.beforeReturn = nil }()

	_, err := s.reconciler.Reconcile(context.Background())
	s.ErrorIs(err, ErrReorderPending)
	s.Equal([]string{"A", "B"}, s.ids(s.board.Active()))
	s.Empty(s.board.Completed())
}

func (s *ReconcilerSuite) TestResultReportsMoves() {
	res := s.reconcile(Job{ID: "A", Status: StatusRunning}, Job{ID: "B", Status: StatusPaused})
	s.Equal([]string{"A", "B"}, res.Added)

	res = s.reconcile(Job{ID: "A", Status: StatusDone}, Job{ID: "B", Status: StatusRunning})
	s.Equal([]string{"A"}, res.Completed)
	s.Equal([]string{"B"}, res.Updated)
	s.Empty(res.Added)

	// A job the server restarts goes back to the active list.
	res = s.reconcile(Job{ID: "A", Status: StatusCreated})
	s.Equal([]string{"A"}, res.Reopened)
	s.Equal([]string{"B", "A"}, s.ids(s.board.Active()))
	s.Empty(s.board.Completed())
}
