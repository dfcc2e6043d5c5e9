// Package tokenstore persists the session bearer token, the only client
// state that survives between runs.
package tokenstore

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/llamalearn/llamalearn/core/session"
)

// FileStore keeps the token in a single file, created user-readable only.
type FileStore struct {
	path string
}

var _ session.TokenStore = (*FileStore)(nil)

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Get returns an empty string when no token has been stored.
func (s *FileStore) Get() (string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrapf(err, "reading token file %s", s.path)
	}
	return strings.TrimSpace(string(raw)), nil
}

func (s *FileStore) Set(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrapf(err, "creating token dir for %s", s.path)
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return errors.Wrapf(err, "writing token file %s", s.path)
	}
	return nil
}

func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "removing token file %s", s.path)
	}
	return nil
}
