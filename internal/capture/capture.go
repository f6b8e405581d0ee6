package capture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/nguyentantai21042004/recap-flow/internal/logger"
)

// ErrNothingCaptured is returned by Stop when no recorder left a non-empty screen file.
var ErrNothingCaptured = errors.New("no screen recording captured")

// Handle owns the recorder processes of one capture session.
type Handle struct {
	stem    string
	cancel  context.CancelFunc
	procs   []*recorder
	logger  logger.Logger
	stopped sync.Once
	files   Files
	err     error
}

type recorder struct {
	role string
	path string
	cmd  *exec.Cmd
	done chan error
}

// Start launches one recorder per configured slot writing into dir.
// Cancelling ctx stops the recorders the same way Stop does.
func (c *implCapturer) Start(ctx context.Context, dir, stem string) (*Handle, error) {
	if len(c.slots) == 0 {
		return nil, errors.New("no capture inputs configured")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create capture dir: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	h := &Handle{stem: stem, cancel: cancel, logger: c.logger}

	for _, s := range c.slots {
		out := filepath.Join(dir, stem+"."+s.role+s.ext)
		args := append(append([]string{}, s.args...), out)

		// ffmpeg finalizes the container on SIGINT; it is killed if it ignores that for grace.
		cmd := exec.CommandContext(runCtx, c.binary, args...)
		cmd.Cancel = func() error { return cmd.Process.Signal(os.Interrupt) }
		cmd.WaitDelay = c.grace

		if err := cmd.Start(); err != nil {
			h.Stop(ctx)
			return nil, fmt.Errorf("start %s recorder: %w", s.role, err)
		}

		r := &recorder{role: s.role, path: out, cmd: cmd, done: make(chan error, 1)}
		go func() { r.done <- cmd.Wait() }()
		h.procs = append(h.procs, r)

		c.logger.Info(ctx, "Recording %s to %s (pid %d)", s.role, out, cmd.Process.Pid)
	}

	return h, nil
}

// Stop interrupts every recorder, waits for them to exit and returns the files
// that were written. It is safe to call more than once.
func (h *Handle) Stop(ctx context.Context) (Files, error) {
	h.stopped.Do(func() {
		start := time.Now()
		h.cancel()

		for _, r := range h.procs {
			if err := <-r.done; err != nil {
				h.logger.Debug(ctx, "%s recorder exited: %v", r.role, err)
			}
			if fi, err := os.Stat(r.path); err != nil || fi.Size() == 0 {
				h.logger.Warn(ctx, "No %s recording written", r.role)
				continue
			}
			switch r.role {
			case "screen":
				h.files.Screen = r.path
			case "system":
				h.files.System = r.path
			case "mic":
				h.files.Mic = r.path
			}
		}

		if h.files.Screen == "" {
			h.err = ErrNothingCaptured
		}
		h.logger.Info(ctx, "Capture %s stopped after %s", h.stem, time.Since(start))
	})
	return h.files, h.err
}
