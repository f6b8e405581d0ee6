package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/recap-flow/internal/logger"
)

// Options tunes a Watcher. Zero values fall back to defaults.
type Options struct {
	// MaxConcurrent bounds how many handlers run at once (default 2).
	MaxConcurrent int
	// Settle is how long to wait after a create event before handling the file (default 500ms).
	Settle time.Duration
}

// New creates a new Watcher instance with concurrency control
func New(inputDir string, filter Filter, handler EventHandler, log logger.Logger, opts Options) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(inputDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 2
	}
	if opts.Settle <= 0 {
		opts.Settle = 500 * time.Millisecond
	}

	return &implWatcher{
		inputDir:      inputDir,
		filter:        filter,
		handler:       handler,
		logger:        log,
		watcher:       watcher,
		maxConcurrent: opts.MaxConcurrent,
		settle:        opts.Settle,
		semaphore:     make(chan struct{}, opts.MaxConcurrent),
	}, nil
}
