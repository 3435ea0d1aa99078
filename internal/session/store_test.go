package session_test

import (
	"path/filepath"
	"testing"

	"github.com/oneee-playground/crackdash/internal/session"
	"github.com/oneee-playground/crackdash/internal/session/storage"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type failingStorage struct {
	session.MemoryStorage
	saveErr error
}

func (f *failingStorage) Save(s session.Session) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.MemoryStorage.Save(s)
}

type StoreSuite struct {
	suite.Suite
	storage *session.MemoryStorage
	store   *session.Store
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.storage = session.NewMemoryStorage()
	s.store = session.NewStore(zap.NewNop(), s.storage)
}

func (s *StoreSuite) TestCreate() {
	s.Require().NoError(s.store.Create("abc", "jdoe", session.RoleAdministrator))

	sess, ok := s.store.Current()
	s.True(ok)
	s.Equal(session.Session{Token: "abc", Username: "jdoe", Role: session.RoleAdministrator}, sess)

	persisted, err := s.storage.Load()
	s.Require().NoError(err)
	s.Equal(sess, persisted)
}

func (s *StoreSuite) TestCreateIncomplete() {
	testcases := []struct {
		desc     string
		token    string
		username string
		role     session.Role
	}{
		{desc: "missing token", username: "jdoe", role: session.RoleStandard},
		{desc: "missing username", token: "abc", role: session.RoleStandard},
		{desc: "missing role", token: "abc", username: "jdoe"},
	}

	for _, tc := range testcases {
		s.Run(tc.desc, func() {
			err := s.store.Create(tc.token, tc.username, tc.role)
			s.ErrorIs(err, session.ErrIncomplete)
			s.False(s.store.IsAuthenticated())
			s.Empty(s.store.Token())
		})
	}
}

func (s *StoreSuite) TestCreateReplacesSession() {
	s.Require().NoError(s.store.Create("abc", "jdoe", session.RoleReadOnly))
	s.Require().NoError(s.store.Create("def", "jroe", session.RoleStandard))

	s.Equal("def", s.store.Token())
	s.Equal("jroe", s.store.Username())
	s.Equal(session.RoleStandard, s.store.Role())
}

func (s *StoreSuite) TestDestroy() {
	s.Require().NoError(s.store.Create("abc", "jdoe", session.RoleStandard))
	s.Require().NoError(s.store.Destroy())

	sess, ok := s.store.Current()
	s.False(ok)
	s.Equal(session.Session{}, sess)

	persisted, err := s.storage.Load()
	s.Require().NoError(err)
	s.Equal(session.Session{}, persisted)
}

func (s *StoreSuite) TestDestroyWhenAnonymous() {
	s.NoError(s.store.Destroy())
	s.False(s.store.IsAuthenticated())
}

func (s *StoreSuite) TestExpire() {
	s.Require().NoError(s.store.Create("abc", "jdoe", session.RoleStandard))

	active, err := s.store.Expire()
	s.Require().NoError(err)
	s.True(active)
	s.False(s.store.IsAuthenticated())

	active, err = s.store.Expire()
	s.Require().NoError(err)
	s.False(active)
}

func (s *StoreSuite) TestRestore() {
	s.Require().NoError(s.storage.Save(session.Session{Token: "abc", Username: "jdoe", Role: session.RoleReadOnly}))

	ok, err := s.store.Restore()
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(session.RoleReadOnly, s.store.Role())
}

func (s *StoreSuite) TestRestorePartial() {
	s.Require().NoError(s.storage.Save(session.Session{Token: "abc", Username: "jdoe"}))

	ok, err := s.store.Restore()
	s.Require().NoError(err)
	s.False(ok)
	s.False(s.store.IsAuthenticated())
	s.Empty(s.store.Username())
}

func TestCreatePersistFailure(t *testing.T) {
	st := &failingStorage{saveErr: errors.New("disk full")}
	store := session.NewStore(zap.NewNop(), st)

	err := store.Create("abc", "jdoe", session.RoleStandard)
	require.Error(t, err)
	assert.False(t, store.IsAuthenticated())
	assert.Empty(t, store.Token())
}

func TestRestoreFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")

	first := session.NewStore(zap.NewNop(), storage.NewFSStorage(path))
	require.NoError(t, first.Create("abc", "jdoe", session.RoleAdministrator))

	second := session.NewStore(zap.NewNop(), storage.NewFSStorage(path))
	ok, err := second.Restore()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", second.Token())

	require.NoError(t, second.Destroy())

	third := session.NewStore(zap.NewNop(), storage.NewFSStorage(path))
	ok, err = third.Restore()
	require.NoError(t, err)
	assert.False(t, ok)
}
