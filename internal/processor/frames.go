package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/nguyentantai21042004/recap-flow/internal/session"
)

// frameFilter builds the -vf chain for still extraction.
// uniform: one frame every EveryNSeconds. scene: frames whose scene score exceeds the threshold.
func (p *implProcessor) frameFilter() string {
	fc := p.cfg.Frames
	scale := fmt.Sprintf("scale=%d:-2", fc.ScaleWidth)

	if fc.Mode == "scene" {
		return fmt.Sprintf("select='gt(scene,%s)',%s", strconv.FormatFloat(fc.SceneThreshold, 'f', -1, 64), scale)
	}
	return fmt.Sprintf("fps=1/%s,%s", strconv.FormatFloat(fc.EveryNSeconds, 'f', -1, 64), scale)
}

// extractFrames writes downscaled JPEG stills to frames/ and returns them in order.
// It is best-effort: a failure yields no frames.
func (p *implProcessor) extractFrames(ctx context.Context, sess *session.Session, videoPath string) []string {
	dir := sess.Path("frames")
	if err := os.MkdirAll(dir, 0755); err != nil {
		p.logger.Warn(ctx, "Failed to create frames dir: %v", err)
		return nil
	}

	args := []string{
		"-y",
		"-i", videoPath,
		"-vf", p.frameFilter(),
	}
	if p.cfg.Frames.Mode == "scene" {
		args = append(args, "-vsync", "vfr")
	}
	args = append(args,
		"-frames:v", strconv.Itoa(p.cfg.Frames.MaxFrames),
		"-q:v", strconv.Itoa(p.cfg.Frames.Quality),
		filepath.Join(dir, "frame_%05d.jpg"),
	)

	runCtx, cancel := withTimeout(ctx, p.cfg.Timeouts.Normalize)
	defer cancel()

	if _, err := p.executor.Execute(runCtx, p.cfg.FFmpeg.BinaryPath, args...); err != nil {
		p.logger.Warn(ctx, "Frame extraction failed: %v", err)
		return nil
	}

	frames, err := filepath.Glob(filepath.Join(dir, "frame_*.jpg"))
	if err != nil {
		return nil
	}
	sort.Strings(frames)
	if limit := p.cfg.Frames.MaxFrames; limit > 0 && len(frames) > limit {
		frames = frames[:limit]
	}

	p.logger.Info(ctx, "Extracted %d frames", len(frames))
	return frames
}
