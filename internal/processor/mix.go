package processor

import (
	"context"
	"fmt"
	"strconv"

	"github.com/nguyentantai21042004/recap-flow/internal/config"
	"github.com/nguyentantai21042004/recap-flow/internal/media"
	"github.com/nguyentantai21042004/recap-flow/internal/metrics"
)

// MixPolicy names the branch the mixer took.
type MixPolicy string

const (
	MixBoth              MixPolicy = "mix_both"
	MixPassThroughSystem MixPolicy = "pass_through_system"
	MixPassThroughMic    MixPolicy = "pass_through_mic"
	MixAbsent            MixPolicy = "absent"
)

// mixFilter is an equal-weight sum. duration=longest keeps going after the shorter input
// ends, which is the same as padding it with silence; normalize=0 disables amix's
// per-input attenuation.
const mixFilter = "[0:a][1:a]amix=inputs=2:duration=longest:dropout_transition=0:normalize=0[a]"

// mixAudio combines 0, 1 or 2 normalized tracks into mixed.wav.
//
//  1. both present: mix; on failure fall back exactly once to the preferred single track
//  2. one present: copy it through unchanged
//  3. none present: absent, the mux goes video only
func (p *implProcessor) mixAudio(ctx context.Context, r *run, system, mic *Asset) (*Asset, MixPolicy) {
	dst := r.sess.Path("mixed.wav")

	if system != nil && mic != nil {
		asset, err := p.mixBoth(ctx, system, mic, dst)
		if err == nil {
			metrics.IncMixPolicy(string(MixBoth))
			return asset, MixBoth
		}
		p.cleanupTempFile(ctx, dst)
		p.degrade(ctx, r, "mix", err)

		if p.cfg.Mix.Fallback == "mic" {
			system = nil
		} else {
			mic = nil
		}
	}

	var (
		src    *Asset
		policy MixPolicy
	)
	switch {
	case system != nil:
		src, policy = system, MixPassThroughSystem
	case mic != nil:
		src, policy = mic, MixPassThroughMic
	default:
		p.logger.Info(ctx, "No audio tracks available, output will be video only")
		metrics.IncMixPolicy(string(MixAbsent))
		return nil, MixAbsent
	}

	if err := media.CopyFile(src.Path, dst); err != nil {
		p.degrade(ctx, r, "mix_copy", fmt.Errorf("pass through %s: %w", src.Slot, err))
		metrics.IncMixPolicy(string(MixAbsent))
		return nil, MixAbsent
	}

	p.logger.Info(ctx, "Audio passed through from %s: %s", src.Slot, dst)
	metrics.IncMixPolicy(string(policy))
	return &Asset{Slot: src.Slot, Path: dst, Info: src.Info}, policy
}

func (p *implProcessor) mixBoth(ctx context.Context, system, mic *Asset, dst string) (*Asset, error) {
	p.logger.Info(ctx, "Mixing system and mic audio")

	runCtx, cancel := withTimeout(ctx, p.cfg.Timeouts.Mix)
	defer cancel()

	args := []string{
		"-y",
		"-i", system.Path,
		"-i", mic.Path,
		"-filter_complex", mixFilter,
		"-map", "[a]",
		"-ar", strconv.Itoa(config.PCMSampleRate),
		"-ac", strconv.Itoa(config.PCMChannels),
		"-c:a", "pcm_s16le",
		"-fflags", "+bitexact",
		"-flags:a", "+bitexact",
		dst,
	}
	if _, err := p.executor.Execute(runCtx, p.cfg.FFmpeg.BinaryPath, args...); err != nil {
		return nil, fmt.Errorf("ffmpeg mix: %w", err)
	}

	asset, err := p.probeAsset(ctx, SlotMixed, dst)
	if err != nil {
		return nil, fmt.Errorf("mixed output invalid: %w", err)
	}
	return asset, nil
}
