package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidID is returned by Open for tokens that are not session ids.
var ErrInvalidID = errors.New("invalid session id")

// ErrNotFound is returned by Open when the session directory does not exist.
var ErrNotFound = errors.New("session not found")

// Create allocates a fresh session token and its directory.
func (m *implManager) Create(ctx context.Context) (*Session, error) {
	id := uuid.NewString()
	dir := filepath.Join(m.root, id)

	if err := os.Mkdir(dir, 0755); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}

	m.logger.Debug(ctx, "Session created: %s", dir)
	return &Session{ID: id, Dir: dir, CreatedAt: time.Now()}, nil
}

// Open resolves an existing session by token. Only well-formed UUIDs are accepted,
// so a token can never escape the sessions root.
func (m *implManager) Open(id string) (*Session, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	dir := filepath.Join(m.root, parsed.String())
	fi, err := os.Stat(dir)
	if err != nil || !fi.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return &Session{ID: parsed.String(), Dir: dir, CreatedAt: fi.ModTime()}, nil
}

// Remove deletes the session directory and everything in it.
func (m *implManager) Remove(ctx context.Context, s *Session) error {
	if s == nil {
		return nil
	}
	if err := os.RemoveAll(s.Dir); err != nil {
		return fmt.Errorf("remove session %s: %w", s.ID, err)
	}
	m.logger.Debug(ctx, "Session removed: %s", s.Dir)
	return nil
}

// Expired lists sessions whose directory modification time is before cutoff.
func (m *implManager) Expired(cutoff time.Time) ([]*Session, error) {
	entries, err := os.ReadDir(m.root)
	if err != nil {
		return nil, fmt.Errorf("read sessions root: %w", err)
	}

	var expired []*Session
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := uuid.Parse(e.Name()); err != nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			expired = append(expired, &Session{
				ID:        e.Name(),
				Dir:       filepath.Join(m.root, e.Name()),
				CreatedAt: info.ModTime(),
			})
		}
	}

	return expired, nil
}
