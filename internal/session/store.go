package session

import (
	"context"
	"sync"

	"github.com/looplab/fsm"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var ErrIncomplete = errors.New("session requires token, username and role")

// Store holds the current session and mirrors it into Storage.
type Store struct {
	log     *zap.Logger
	storage Storage

	mu      sync.RWMutex
	state   *fsm.FSM
	current Session
}

func NewStore(log *zap.Logger, storage Storage) *Store {
	return &Store{
		log:     log,
		storage: storage,
		state:   newState(log),
	}
}

// Create starts a session. An incomplete session or a failure to persist
// leaves the store unchanged.
func (s *Store) Create(token, username string, role Role) error {
	sess := Session{Token: token, Username: username, Role: role}
	if !sess.Complete() {
		return ErrIncomplete
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Save(sess); err != nil {
		return errors.Wrap(err, "persisting session")
	}

	s.current = sess
	if s.state.Can(Login.String()) {
		return s.transition(Login)
	}

	return nil
}

// Restore loads a persisted session. Partial data restores nothing.
func (s *Store) Restore() (bool, error) {
	sess, err := s.storage.Load()
	if err != nil {
		return false, errors.Wrap(err, "loading session")
	}

	if !sess.Complete() {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = sess
	if s.state.Can(Login.String()) {
		if err := s.transition(Login); err != nil {
			return false, err
		}
	}

	return true, nil
}

// Destroy ends the session on explicit logout.
func (s *Store) Destroy() error {
	_, err := s.end(Logout)
	return err
}

// Expire ends the session after the server refused its token. It
// reports whether a session was active.
func (s *Store) Expire() (bool, error) {
	return s.end(Expire)
}

func (s *Store) end(event Event) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = Session{}
	clearErr := s.storage.Clear()

	active := s.state.Can(event.String())
	if active {
		if err := s.transition(event); err != nil {
			return active, err
		}
	}

	if clearErr != nil {
		return active, errors.Wrap(clearErr, "clearing persisted session")
	}
	return active, nil
}

func (s *Store) transition(event Event) error {
	if err := s.state.Event(context.Background(), event.String()); err != nil {
		return errors.Wrapf(err, "applying %s", event)
	}
	return nil
}

func (s *Store) Current() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.state.Is(Authenticated.String())
}

func (s *Store) IsAuthenticated() bool {
	_, ok := s.Current()
	return ok
}

func (s *Store) Token() string {
	sess, _ := s.Current()
	return sess.Token
}

func (s *Store) Username() string {
	sess, _ := s.Current()
	return sess.Username
}

func (s *Store) Role() Role {
	sess, _ := s.Current()
	return sess.Role
}
