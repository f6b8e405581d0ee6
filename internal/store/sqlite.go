package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go driver
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id          TEXT PRIMARY KEY,
	status      TEXT NOT NULL,
	video_path  TEXT NOT NULL DEFAULT '',
	notes_path  TEXT NOT NULL DEFAULT '',
	codec       TEXT NOT NULL DEFAULT '',
	mix_policy  TEXT NOT NULL DEFAULT '',
	degraded    TEXT NOT NULL DEFAULT '',
	error       TEXT NOT NULL DEFAULT '',
	created_at  INTEGER NOT NULL,
	updated_at  INTEGER NOT NULL
);`

type sqliteRepository struct {
	db *sql.DB
}

// Open initializes the SQLite database at dbPath with WAL mode and a busy timeout.
func Open(dbPath string) (Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=synchronous(NORMAL)",
		dbPath, (5 * time.Second).Milliseconds())

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open failed: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping failed: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}

	return &sqliteRepository{db: db}, nil
}

// Save inserts or replaces the record for r.ID.
func (r *sqliteRepository) Save(ctx context.Context, rec *Record) error {
	now := time.Now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, status, video_path, notes_path, codec, mix_policy, degraded, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			video_path = excluded.video_path,
			notes_path = excluded.notes_path,
			codec = excluded.codec,
			mix_policy = excluded.mix_policy,
			degraded = excluded.degraded,
			error = excluded.error,
			updated_at = excluded.updated_at`,
		rec.ID, rec.Status, rec.VideoPath, rec.NotesPath, rec.Codec, rec.MixPolicy,
		strings.Join(rec.Degraded, ","), rec.Error,
		rec.CreatedAt.UnixMilli(), rec.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save session %s: %w", rec.ID, err)
	}
	return nil
}

// Get loads the record for id.
func (r *sqliteRepository) Get(ctx context.Context, id string) (*Record, error) {
	var (
		rec                  Record
		degraded             string
		createdAt, updatedAt int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, status, video_path, notes_path, codec, mix_policy, degraded, error, created_at, updated_at
		FROM sessions WHERE id = ?`, id,
	).Scan(&rec.ID, &rec.Status, &rec.VideoPath, &rec.NotesPath, &rec.Codec, &rec.MixPolicy,
		&degraded, &rec.Error, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}

	if degraded != "" {
		rec.Degraded = strings.Split(degraded, ",")
	}
	rec.CreatedAt = time.UnixMilli(createdAt)
	rec.UpdatedAt = time.UnixMilli(updatedAt)
	return &rec, nil
}

// Delete removes the record for id. Deleting a missing record is not an error.
func (r *sqliteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}

func (r *sqliteRepository) Close() error {
	return r.db.Close()
}
