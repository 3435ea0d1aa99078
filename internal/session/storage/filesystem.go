package storage

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/oneee-playground/crackdash/internal/session"
	protofmt "github.com/oneee-playground/crackdash/internal/util/proto"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/types/known/structpb"
)

// Keys the session fields are stored under.
const (
	KeyToken    = "usertoken"
	KeyUsername = "username"
	KeyRole     = "userrole"
)

// FSStorage keeps the session in a single file readable by its owner only.
type FSStorage struct {
	path string
}

var _ session.Storage = (*FSStorage)(nil)

func NewFSStorage(path string) *FSStorage {
	return &FSStorage{path: path}
}

func (s *FSStorage) Save(sess session.Session) error {
	record, err := structpb.NewStruct(map[string]interface{}{
		KeyToken:    sess.Token,
		KeyUsername: sess.Username,
		KeyRole:     string(sess.Role),
	})
	if err != nil {
		return errors.Wrap(err, "building session record")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(err, "mkdir all")
	}

	// Write next to the target and rename so a crash never leaves half a file.
	tmp := s.path + ".tmp"
	file, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return errors.Wrap(err, "opening file")
	}

	if err := protofmt.WriteWithSize(file, record); err != nil {
		file.Close()
		return errors.Wrap(err, "writing session")
	}

	if err := file.Close(); err != nil {
		return errors.Wrap(err, "closing file")
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return errors.Wrap(err, "replacing session file")
	}

	return nil
}

// Load returns an empty session when nothing was stored.
func (s *FSStorage) Load() (session.Session, error) {
	file, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return session.Session{}, nil
	}
	if err != nil {
		return session.Session{}, errors.Wrap(err, "opening session file")
	}
	defer file.Close()

	record := new(structpb.Struct)
	if err := protofmt.NewDecoder(bufio.NewReader(file)).Decode(record); err != nil {
		return session.Session{}, errors.Wrap(err, "decoding session")
	}

	fields := record.GetFields()
	return session.Session{
		Token:    fields[KeyToken].GetStringValue(),
		Username: fields[KeyUsername].GetStringValue(),
		Role:     session.Role(fields[KeyRole].GetStringValue()),
	}, nil
}

func (s *FSStorage) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrap(err, "removing session file")
	}
	return nil
}
