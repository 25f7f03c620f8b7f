package credstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gameportal/portal-go/internal/model"
)

// FileStore persists the session as a single JSON file. Writes go
// through a temp file and rename so a crash mid-save leaves either
// the old record or the new one, never a torn mix.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath returns the default session file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".portal/session.json"
	}
	return filepath.Join(home, ".portal", "session.json")
}

// Load implements Store.
func (s *FileStore) Load() (model.Session, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return model.Session{}, false
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return model.Session{}, false
	}
	if !session.Valid() {
		return model.Session{}, false
	}
	return session, true
}

// Save implements Store.
func (s *FileStore) Save(session model.Session) error {
	if !session.Valid() {
		return fmt.Errorf("refusing to save partial session")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Clear implements Store.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
