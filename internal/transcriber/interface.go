package transcriber

import "context"

// Transcriber converts a mono 16 kHz PCM file into a single transcript string.
// Segments are joined in order with single spaces.
type Transcriber interface {
	Transcribe(ctx context.Context, wavPath string) (string, error)
}
