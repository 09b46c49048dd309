package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/salesdash/salesdash/models"
)

// SessionStorage is the persistence port for the auth session. The auth
// store never touches durable storage directly; it goes through this
// interface so tests (and other frontends) can swap the medium.
type SessionStorage interface {
	Load() (*models.Session, error)
	Save(session *models.Session) error
	Clear() error
}

// FileSessionStorage keeps the session as a JSON file on disk
type FileSessionStorage struct {
	path string
}

// NewFileSessionStorage creates storage backed by the file at path
func NewFileSessionStorage(path string) *FileSessionStorage {
	return &FileSessionStorage{path: path}
}

// Load reads the persisted session. A missing file is not an error; it
// simply means no session was saved.
func (s *FileSessionStorage) Load() (*models.Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	return &session, nil
}

// Save writes the session to disk, readable only by the current user
func (s *FileSessionStorage) Save(session *models.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Clear removes the persisted session. Clearing an absent session is a no-op.
func (s *FileSessionStorage) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// MemorySessionStorage is an in-memory SessionStorage, primarily for testing
type MemorySessionStorage struct {
	mu      sync.Mutex
	session *models.Session
}

// NewMemorySessionStorage creates an empty in-memory storage
func NewMemorySessionStorage() *MemorySessionStorage {
	return &MemorySessionStorage{}
}

// Load returns the stored session, or nil when none was saved
func (s *MemorySessionStorage) Load() (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, nil
	}
	copied := *s.session
	return &copied, nil
}

// Save stores a copy of the session
func (s *MemorySessionStorage) Save(session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *session
	s.session = &copied
	return nil
}

// Clear drops the stored session
func (s *MemorySessionStorage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	return nil
}
