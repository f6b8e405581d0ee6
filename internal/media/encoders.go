package media

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/recap-flow/pkg/executor"
)

// EncoderSet is the set of encoder names an ffmpeg build reports.
type EncoderSet map[string]struct{}

// NewEncoderSet builds a set from encoder names.
func NewEncoderSet(names ...string) EncoderSet {
	s := make(EncoderSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether name is in the set.
func (s EncoderSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// ListEncoders runs `ffmpeg -hide_banner -encoders` and returns every audio encoder it lists.
func ListEncoders(ctx context.Context, exec executor.Executor, ffmpegBin string) (EncoderSet, error) {
	out, err := exec.Execute(ctx, ffmpegBin, "-hide_banner", "-encoders")
	if err != nil {
		return nil, fmt.Errorf("list encoders: %w", err)
	}
	return ParseEncoders(out), nil
}

// ParseEncoders extracts audio encoder names from `ffmpeg -encoders` output.
// Lines look like " A....D libopus              libopus Opus"; the legend above the
// "------" separator is skipped.
func ParseEncoders(out string) EncoderSet {
	set := make(EncoderSet)
	inList := false

	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !inList {
			if strings.HasPrefix(line, "---") {
				inList = true
			}
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		flags := fields[0]
		if len(flags) != 6 || flags[0] != 'A' {
			continue
		}
		set[fields[1]] = struct{}{}
	}

	return set
}
