package processor

import (
	"errors"
	"fmt"

	"github.com/nguyentantai21042004/recap-flow/internal/media"
)

var (
	// ErrMissingRequiredInput means the mandatory video upload is absent or invalid.
	// The request is rejected; nothing after validation runs.
	ErrMissingRequiredInput = errors.New("valid screen video is required")

	// ErrFatalMux is matched by every mux failure that aborts the run.
	ErrFatalMux = errors.New("fatal mux failure")

	// ErrNoAudioEncoder means none of libopus, libvorbis or aac is available.
	ErrNoAudioEncoder = media.ErrNoAudioEncoder

	// ErrMuxFailed means the muxing process exited non-zero or wrote an invalid file.
	ErrMuxFailed = fmt.Errorf("%w: mux process failed", ErrFatalMux)
)
