package processor

import (
	"context"
	"fmt"
	"strconv"

	"github.com/nguyentantai21042004/recap-flow/internal/config"
	"github.com/nguyentantai21042004/recap-flow/internal/session"
)

// pcmArgs converts the first audio stream to the canonical PCM target.
// The bitexact flags keep encoder version tags out of the header so the same input
// always yields the same bytes.
func (p *implProcessor) pcmArgs(src, dst string) []string {
	// -vn: No video
	// -map 0:a:0: first audio stream only
	// -c:a pcm_s16le: PCM 16-bit little-endian
	return []string{
		"-y",
		"-i", src,
		"-vn",
		"-map", "0:a:0",
		"-ar", strconv.Itoa(config.PCMSampleRate),
		"-ac", strconv.Itoa(config.PCMChannels),
		"-c:a", "pcm_s16le",
		"-fflags", "+bitexact",
		"-flags:a", "+bitexact",
		dst,
	}
}

// normalizeAudio converts a validated audio upload to <slot>.wav.
// Absent input yields absent output; a failed conversion is logged and yields absent.
func (p *implProcessor) normalizeAudio(ctx context.Context, r *run, src *Asset) *Asset {
	if src == nil {
		return nil
	}

	dst := r.sess.Path(src.Slot.baseName() + ".wav")
	stage := "normalize_" + src.Slot.baseName()

	p.logger.Info(ctx, "Normalizing %s to %d Hz / %d ch PCM", src.Slot, config.PCMSampleRate, config.PCMChannels)

	runCtx, cancel := withTimeout(ctx, p.cfg.Timeouts.Normalize)
	defer cancel()

	if _, err := p.executor.Execute(runCtx, p.cfg.FFmpeg.BinaryPath, p.pcmArgs(src.Path, dst)...); err != nil {
		p.cleanupTempFile(ctx, dst)
		p.degrade(ctx, r, stage, fmt.Errorf("ffmpeg normalize: %w", err))
		return nil
	}

	asset, err := p.probeAsset(ctx, src.Slot, dst)
	if err != nil {
		p.cleanupTempFile(ctx, dst)
		p.degrade(ctx, r, stage, fmt.Errorf("normalized output invalid: %w", err))
		return nil
	}

	p.logger.Info(ctx, "Audio normalized: %s", dst)
	return asset
}

// extractAudio pulls the muxed audio track back out as canonical PCM for transcription.
func (p *implProcessor) extractAudio(ctx context.Context, sess *session.Session, videoPath string) (string, error) {
	audioPath := sess.Path("transcript.wav")

	p.logger.Info(ctx, "Extracting audio for transcription: %s", videoPath)

	runCtx, cancel := withTimeout(ctx, p.cfg.Timeouts.Normalize)
	defer cancel()

	if _, err := p.executor.Execute(runCtx, p.cfg.FFmpeg.BinaryPath, p.pcmArgs(videoPath, audioPath)...); err != nil {
		return "", fmt.Errorf("ffmpeg extract audio: %w", err)
	}

	p.logger.Info(ctx, "Audio extracted successfully: %s", audioPath)
	return audioPath, nil
}
