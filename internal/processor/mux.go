package processor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/recap-flow/internal/media"
	"github.com/nguyentantai21042004/recap-flow/internal/metrics"
)

// mux combines the validated video with the optional mixed audio into final.<ext>.
// The video stream is always stream-copied. Every error returned here is fatal and
// matches ErrFatalMux.
func (p *implProcessor) mux(ctx context.Context, r *run, video, audio *Asset) (*MuxedOutput, error) {
	if audio == nil {
		return p.muxVideoOnly(ctx, r, video)
	}

	listCtx, cancel := withTimeout(ctx, p.cfg.Timeouts.Probe)
	encoders, err := media.ListEncoders(listCtx, p.executor, p.cfg.FFmpeg.BinaryPath)
	cancel()
	if err != nil {
		p.logger.Warn(ctx, "Could not list encoders: %v", err)
		encoders = media.NewEncoderSet()
	}

	codec, container, err := media.SelectCodec(encoders)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFatalMux, err)
	}

	dst := r.sess.Path("final." + string(container))
	p.logger.Info(ctx, "Muxing video with %s audio into %s", codec, filepath.Base(dst))

	runCtx, cancel := withTimeout(ctx, p.cfg.Timeouts.Mux)
	defer cancel()

	// -c:v copy: never re-encode video
	args := []string{
		"-y",
		"-i", video.Path,
		"-i", audio.Path,
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-c:v", "copy",
		"-c:a", string(codec),
		dst,
	}
	if _, err := p.executor.Execute(runCtx, p.cfg.FFmpeg.BinaryPath, args...); err != nil {
		p.cleanupTempFile(ctx, dst)
		return nil, fmt.Errorf("%w: %w", ErrMuxFailed, err)
	}

	if err := p.verifyMuxed(ctx, dst, 1); err != nil {
		p.cleanupTempFile(ctx, dst)
		return nil, err
	}

	metrics.IncMuxCodec(string(codec))
	p.logger.Info(ctx, "Mux complete: %s", dst)
	return &MuxedOutput{Path: dst, Codec: codec, Container: container, HasAudio: true}, nil
}

// muxVideoOnly copies the video as the final file. Its extension is kept because no
// re-containering happens.
func (p *implProcessor) muxVideoOnly(ctx context.Context, r *run, video *Asset) (*MuxedOutput, error) {
	ext := filepath.Ext(video.Path)
	dst := r.sess.Path("final" + ext)

	p.logger.Info(ctx, "No audio, copying video to %s", filepath.Base(dst))

	if err := media.CopyFile(video.Path, dst); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMuxFailed, err)
	}
	if err := p.verifyMuxed(ctx, dst, 0); err != nil {
		p.cleanupTempFile(ctx, dst)
		return nil, err
	}

	metrics.IncMuxCodec("")
	return &MuxedOutput{Path: dst, Container: media.Container(strings.TrimPrefix(ext, "."))}, nil
}

// verifyMuxed probes the final file: at least one video stream, and exactly wantAudio
// audio streams when audio was muxed in.
func (p *implProcessor) verifyMuxed(ctx context.Context, path string, wantAudio int) error {
	probeCtx, cancel := withTimeout(ctx, p.cfg.Timeouts.Probe)
	defer cancel()

	info, err := p.prober.Probe(probeCtx, path)
	if err != nil {
		return fmt.Errorf("%w: probe output: %w", ErrMuxFailed, err)
	}

	videos := info.Count("video")
	if wantAudio > 0 {
		if videos != 1 || info.Count("audio") != wantAudio {
			return fmt.Errorf("%w: output has %d video and %d audio streams", ErrMuxFailed, videos, info.Count("audio"))
		}
		return nil
	}
	if videos < 1 {
		return fmt.Errorf("%w: output has no video stream", ErrMuxFailed)
	}
	return nil
}
