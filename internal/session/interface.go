package session

import (
	"context"
	"path/filepath"
	"time"
)

// Session is an isolated per-run working directory. It is never shared between runs.
type Session struct {
	ID        string
	Dir       string
	CreatedAt time.Time
}

// Path returns the location of a named artifact inside the session directory.
func (s *Session) Path(name string) string {
	return filepath.Join(s.Dir, name)
}

// Manager creates, resolves and removes sessions under a root directory.
type Manager interface {
	Create(ctx context.Context) (*Session, error)
	Open(id string) (*Session, error)
	Remove(ctx context.Context, s *Session) error
	// Expired lists sessions whose directory is older than cutoff.
	Expired(cutoff time.Time) ([]*Session, error)
}
