package capture

import (
	"time"

	"github.com/nguyentantai21042004/recap-flow/internal/config"
	"github.com/nguyentantai21042004/recap-flow/internal/logger"
)

type implCapturer struct {
	binary string
	slots  []slotSpec
	grace  time.Duration
	logger logger.Logger
}

type slotSpec struct {
	role string
	ext  string
	args []string
}

// New creates a Capturer that runs binary once per configured slot.
// Each slot's input args come from cfg; the output path is appended last.
func New(cfg config.CaptureConfig, binary string, log logger.Logger) Capturer {
	grace := cfg.StopTimeout
	if grace <= 0 {
		grace = 10 * time.Second
	}

	var slots []slotSpec
	for _, s := range []slotSpec{
		{role: "screen", ext: ".mkv", args: cfg.Screen},
		{role: "system", ext: ".wav", args: cfg.System},
		{role: "mic", ext: ".wav", args: cfg.Mic},
	} {
		if len(s.args) > 0 {
			slots = append(slots, s)
		}
	}

	return &implCapturer{binary: binary, slots: slots, grace: grace, logger: log}
}

// VideoEncoder returns the video encoder named in a slot's ffmpeg args, or "" when none is set.
func VideoEncoder(args []string) string {
	encoder := ""
	for i := 0; i+1 < len(args); i++ {
		switch args[i] {
		case "-c:v", "-codec:v", "-vcodec":
			encoder = args[i+1]
		}
	}
	return encoder
}
