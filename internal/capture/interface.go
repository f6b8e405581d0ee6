package capture

import "context"

// Files are the recordings a Handle produced. Empty fields were not captured.
// Names follow the inbox bundle convention: <stem>.screen.mkv, <stem>.system.wav, <stem>.mic.wav.
type Files struct {
	Screen string
	System string
	Mic    string
}

// Capturer starts recorders. Every call returns its own Handle, so concurrent
// recordings never share process state.
type Capturer interface {
	Start(ctx context.Context, dir, stem string) (*Handle, error)
}
