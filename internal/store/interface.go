package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no record exists for a session id.
var ErrNotFound = errors.New("session record not found")

// Status values of a pipeline run.
const (
	StatusRunning  = "running"
	StatusDone     = "done"
	StatusDegraded = "degraded"
	StatusFailed   = "failed"
)

// Record is the persisted outcome of one pipeline run.
type Record struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	VideoPath string    `json:"video_path,omitempty"`
	NotesPath string    `json:"notes_path,omitempty"`
	Codec     string    `json:"codec,omitempty"`
	MixPolicy string    `json:"mix_policy,omitempty"`
	Degraded  []string  `json:"degraded,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Repository persists run records.
type Repository interface {
	Save(ctx context.Context, r *Record) error
	Get(ctx context.Context, id string) (*Record, error)
	Delete(ctx context.Context, id string) error
	Close() error
}
