package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/recap-flow/internal/logger"
)

func TestWatcherDispatchesTriggerFiles(t *testing.T) {
	dir := t.TempDir()
	handled := make(chan string, 4)

	w, err := New(dir,
		func(p string) bool { return strings.Contains(filepath.Base(p), ".screen.") },
		func(_ context.Context, p string) error {
			handled <- p
			return nil
		},
		logger.New("error"),
		Options{Settle: 10 * time.Millisecond},
	)
	require.NoError(t, err)
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "standup.mic.webm"), []byte("audio"), 0644))
	trigger := filepath.Join(dir, "standup.screen.webm")
	require.NoError(t, os.WriteFile(trigger, []byte("video"), 0644))

	select {
	case got := <-handled:
		assert.Equal(t, trigger, got)
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not called")
	}

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}

	assert.Empty(t, handled, "non-trigger files are ignored")
}

func TestNewFailsOnMissingDir(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"), nil, nil, logger.New("error"), Options{})
	require.Error(t, err)
}
