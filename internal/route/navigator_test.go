package route

import (
	"testing"

	"github.com/oneee-playground/crackdash/internal/notify"
	"github.com/oneee-playground/crackdash/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type fakeAuth struct {
	role session.Role
}

func (f *fakeAuth) IsAuthenticated() bool { return f.role != "" }

func (f *fakeAuth) IsAuthorized(roles ...session.Role) bool {
	for _, r := range roles {
		if f.IsAuthenticated() && r == f.role {
			return true
		}
	}
	return false
}

type NavigatorSuite struct {
	suite.Suite
	auth      *fakeAuth
	recorder  *notify.Recorder
	navigator *Navigator
}

func TestNavigatorSuite(t *testing.T) {
	suite.Run(t, new(NavigatorSuite))
}

func (s *NavigatorSuite) SetupTest() {
	s.auth = &fakeAuth{}
	s.recorder = notify.NewRecorder()

	n, err := NewNavigator(zap.NewNop(), DefaultRoutes(), s.auth, s.recorder)
	s.Require().NoError(err)
	s.navigator = n
}

func (s *NavigatorSuite) TestResolve() {
	testcases := []struct {
		desc   string
		path   string
		name   string
		params map[string]string
	}{
		{desc: "static", path: "/jobs", name: "jobs", params: map[string]string{}},
		{desc: "static beside param", path: "/jobs/new", name: "jobs.new", params: map[string]string{}},
		{desc: "param", path: "/jobs/view/42", name: "jobs.detail", params: map[string]string{"id": "42"}},
		{desc: "manager", path: "/resources/connect/direct", name: "resources.connect", params: map[string]string{"manager": "direct"}},
	}

	for _, tc := range testcases {
		s.Run(tc.desc, func() {
			loc, err := s.navigator.Resolve(tc.path)
			s.Require().NoError(err)
			s.Equal(tc.name, loc.Route.Name)
			s.Equal(tc.params, loc.Params)
			s.Equal(tc.path, loc.Path)
		})
	}
}

func (s *NavigatorSuite) TestUnknownPath() {
	s.ErrorIs(s.navigator.Go("/nowhere"), ErrUnknownRoute)
	s.Equal(Location{}, s.navigator.Current())
}

func (s *NavigatorSuite) TestGuard() {
	testcases := []struct {
		desc     string
		role     session.Role
		path     string
		err      error
		landed   string
		warnings []string
	}{
		{desc: "open route while anonymous", path: "/login", landed: "login"},
		{desc: "anonymous is sent to login", path: "/jobs", err: ErrLoginRequired, landed: "login"},
		{desc: "read-only may view jobs", role: session.RoleReadOnly, path: "/jobs", landed: "jobs"},
		{desc: "read-only may not submit", role: session.RoleReadOnly, path: "/jobs/new", err: ErrForbidden, warnings: []string{"Ah ah ah! You didn't say the magic word!"}},
		{desc: "standard may submit", role: session.RoleStandard, path: "/jobs/new", landed: "jobs.new"},
		{desc: "standard may not connect", role: session.RoleStandard, path: "/resources/connect/direct", err: ErrForbidden, warnings: []string{"Ah ah ah! You didn't say the magic word!"}},
		{desc: "admin may connect", role: session.RoleAdministrator, path: "/resources/connect/direct", landed: "resources.connect"},
	}

	for _, tc := range testcases {
		s.Run(tc.desc, func() {
			s.SetupTest()
			s.auth.role = tc.role

			err := s.navigator.Go(tc.path)
			if tc.err != nil {
				s.ErrorIs(err, tc.err)
			} else {
				s.NoError(err)
			}

			s.Equal(tc.landed, s.navigator.Current().Route.Name)
			s.Equal(tc.warnings, s.recorder.Texts())
		})
	}
}

func (s *NavigatorSuite) TestForbiddenStaysPut() {
	s.auth.role = session.RoleReadOnly
	s.Require().NoError(s.navigator.Go("/jobs/view/7"))

	s.ErrorIs(s.navigator.Go("/jobs/new"), ErrForbidden)
	s.Equal("jobs.detail", s.navigator.Current().Route.Name)
	s.Equal("7", s.navigator.Current().Params["id"])
}

func (s *NavigatorSuite) TestRedirectAndLink() {
	s.Require().NoError(s.navigator.Redirect("login"))
	s.Equal("/login", s.navigator.Current().Path)

	path, err := s.navigator.Link("jobs.detail", "id", "abc")
	s.Require().NoError(err)
	s.Equal("/jobs/view/abc", path)

	_, err = s.navigator.Link("jobs.detail")
	s.Error(err)

	s.ErrorIs(s.navigator.Redirect("nope"), ErrUnknownRoute)
}

func TestConflictingRoutes(t *testing.T) {
	_, err := NewNavigator(zap.NewNop(), []Route{
		{Name: "a", Path: "/jobs/:id"},
		{Name: "b", Path: "/jobs/:name"},
	}, &fakeAuth{}, notify.NewRecorder())
	require.Error(t, err)

	_, err = NewNavigator(zap.NewNop(), []Route{
		{Name: "a", Path: "/a"},
		{Name: "a", Path: "/b"},
	}, &fakeAuth{}, notify.NewRecorder())
	assert.Error(t, err)
}
