package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nguyentantai21042004/recap-flow/pkg/executor"
)

// ErrNoDecodableStream means ffprobe ran but reported no audio or video stream with a codec.
var ErrNoDecodableStream = errors.New("no decodable media stream")

// Prober inspects a media file independently of how it was produced.
type Prober interface {
	Probe(ctx context.Context, path string) (*ProbeInfo, error)
}

// Stream is one entry of ffprobe's "streams" array.
type Stream struct {
	Index     int    `json:"index"`
	CodecType string `json:"codec_type"`
	CodecName string `json:"codec_name"`
}

// ProbeInfo is the subset of ffprobe output the pipeline relies on.
type ProbeInfo struct {
	FormatName string
	Duration   string
	Streams    []Stream
}

type probeData struct {
	Streams []Stream `json:"streams"`
	Format  struct {
		FormatName string `json:"format_name"`
		Duration   string `json:"duration"`
	} `json:"format"`
}

// Count returns how many decodable streams of codecType ("audio" or "video") the file has.
func (p *ProbeInfo) Count(codecType string) int {
	n := 0
	for _, s := range p.Streams {
		if s.CodecType == codecType && s.CodecName != "" {
			n++
		}
	}
	return n
}

type implProber struct {
	executor executor.Executor
	binary   string
}

// NewProber creates a Prober backed by the ffprobe binary at bin.
func NewProber(exec executor.Executor, bin string) Prober {
	if bin == "" {
		bin = "ffprobe"
	}
	return &implProber{executor: exec, binary: bin}
}

// Probe runs ffprobe and succeeds only when the file holds at least one audio or
// video stream with a codec name.
func (p *implProber) Probe(ctx context.Context, path string) (*ProbeInfo, error) {
	out, err := p.executor.Execute(ctx, p.binary,
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	if err != nil {
		return nil, fmt.Errorf("ffprobe: %w", err)
	}

	var data probeData
	if err := json.Unmarshal([]byte(out), &data); err != nil {
		return nil, fmt.Errorf("ffprobe json decode: %w", err)
	}

	info := &ProbeInfo{
		FormatName: data.Format.FormatName,
		Duration:   data.Format.Duration,
		Streams:    data.Streams,
	}
	if info.Count("audio")+info.Count("video") == 0 {
		return nil, fmt.Errorf("probe %s: %w", path, ErrNoDecodableStream)
	}

	return info, nil
}
