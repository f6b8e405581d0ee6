package inbox

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nguyentantai21042004/recap-flow/internal/logger"
	"github.com/nguyentantai21042004/recap-flow/internal/media"
	"github.com/nguyentantai21042004/recap-flow/internal/processor"
)

type implHandler struct {
	processor processor.Processor
	archived  string
	logger    logger.Logger
}

// NewHandler creates a Handler that feeds bundles to proc and moves their files to
// archivedDir afterwards (archivedDir/failed when the run failed).
func NewHandler(proc processor.Processor, archivedDir string, log logger.Logger) Handler {
	return &implHandler{processor: proc, archived: archivedDir, logger: log}
}

// Handle processes the bundle of screenPath. Inputs stay in the inbox when ctx is
// cancelled so they are picked up again on the next start.
func (h *implHandler) Handle(ctx context.Context, screenPath string) error {
	b, err := Collect(screenPath)
	if err != nil {
		return err
	}

	h.logger.Info(ctx, "Processing bundle %s (system: %t, mic: %t)", b.Stem, b.System != "", b.Mic != "")

	uploads, closeAll, err := openUploads(b)
	if err != nil {
		return err
	}
	res, runErr := h.processor.Process(ctx, uploads)
	closeAll()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	dest := h.archived
	if runErr != nil {
		dest = filepath.Join(h.archived, "failed")
	}
	if err := h.archive(ctx, b, dest); err != nil {
		h.logger.Warn(ctx, "Failed to move bundle %s to archived folder: %v", b.Stem, err)
	}

	if runErr != nil {
		return fmt.Errorf("process %s: %w", b.Stem, runErr)
	}

	h.logger.Info(ctx, "Bundle %s done: session=%s video=%s", b.Stem, res.SessionID, res.VideoPath)
	return nil
}

func openUploads(b Bundle) (processor.Uploads, func(), error) {
	var files []*os.File
	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}

	open := func(path string) (*processor.Upload, error) {
		if path == "" {
			return nil, nil
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
		}
		files = append(files, f)
		return &processor.Upload{Filename: filepath.Base(path), Body: f}, nil
	}

	var (
		u   processor.Uploads
		err error
	)
	if u.Screen, err = open(b.Screen); err != nil {
		closeAll()
		return u, nil, err
	}
	if u.System, err = open(b.System); err != nil {
		closeAll()
		return u, nil, err
	}
	if u.Mic, err = open(b.Mic); err != nil {
		closeAll()
		return u, nil, err
	}
	return u, closeAll, nil
}

// archive moves every bundle file into dir, prefixing a timestamp on name clashes.
func (h *implHandler) archive(ctx context.Context, b Bundle, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create archived dir: %w", err)
	}

	var errs []error
	for _, src := range b.Files() {
		dst := filepath.Join(dir, filepath.Base(src))
		if _, err := os.Stat(dst); err == nil {
			dst = filepath.Join(dir, time.Now().Format("20060102-150405")+"-"+filepath.Base(src))
		}
		if err := media.MoveFile(src, dst); err != nil {
			errs = append(errs, err)
			continue
		}
		h.logger.Debug(ctx, "Archived %s", dst)
	}
	return errors.Join(errs...)
}
