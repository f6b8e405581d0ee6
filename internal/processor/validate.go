package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/recap-flow/internal/media"
	"github.com/nguyentantai21042004/recap-flow/internal/session"
)

// uploadExt keeps a known media extension from the upload filename; anything else is stored as .webm.
func uploadExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if media.KnownExtension(ext) {
		return ext
	}
	return ".webm"
}

// saveUpload persists one upload into the session and keeps it only when it is non-empty
// and ffprobe finds a decodable stream of the slot's kind. Anything else is deleted and
// reported as absent.
func (p *implProcessor) saveUpload(ctx context.Context, sess *session.Session, slot Slot, up *Upload) *Asset {
	if up == nil || up.Body == nil {
		return nil
	}

	name := slot.baseName() + uploadExt(up.Filename)
	dst := sess.Path(name)

	size, err := writeUpload(dst, up.Body)
	if err != nil {
		p.logger.Warn(ctx, "skip %s: %v", name, err)
		p.cleanupTempFile(ctx, dst)
		return nil
	}
	if size == 0 {
		p.logger.Info(ctx, "skip %s: empty upload", name)
		p.cleanupTempFile(ctx, dst)
		return nil
	}

	asset, err := p.probeAsset(ctx, slot, dst)
	if err != nil {
		p.logger.Info(ctx, "skip %s: size=%d, invalid: %v", name, size, err)
		p.cleanupTempFile(ctx, dst)
		return nil
	}

	p.logger.Info(ctx, "saved %s (%d bytes)", name, size)
	return asset
}

func writeUpload(dst string, body io.Reader) (int64, error) {
	f, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0644)
	if err != nil {
		return 0, fmt.Errorf("create upload file: %w", err)
	}
	n, err := io.Copy(f, body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, fmt.Errorf("write upload: %w", err)
	}
	return n, nil
}

// probeAsset runs the independent probe every asset must pass before a downstream
// stage consumes it. Video slots need a video stream, audio slots an audio stream.
func (p *implProcessor) probeAsset(ctx context.Context, slot Slot, path string) (*Asset, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.Size() == 0 {
		return nil, fmt.Errorf("%s is empty", filepath.Base(path))
	}

	probeCtx, cancel := withTimeout(ctx, p.cfg.Timeouts.Probe)
	defer cancel()

	info, err := p.prober.Probe(probeCtx, path)
	if err != nil {
		return nil, err
	}

	kind := "audio"
	if slot == SlotVideo {
		kind = "video"
	}
	if info.Count(kind) == 0 {
		return nil, fmt.Errorf("%s has no %s stream", filepath.Base(path), kind)
	}

	return &Asset{Slot: slot, Path: path, Info: info}, nil
}
