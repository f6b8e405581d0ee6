package inbox

import "context"

// Bundle is one drop-folder recording: a mandatory screen file plus optional audio siblings
// that share its stem, e.g. standup.screen.webm, standup.system.webm, standup.mic.webm.
type Bundle struct {
	Stem   string
	Screen string
	System string
	Mic    string
}

// Files returns every file path of the bundle that is present.
func (b Bundle) Files() []string {
	var files []string
	for _, f := range []string{b.Screen, b.System, b.Mic} {
		if f != "" {
			files = append(files, f)
		}
	}
	return files
}

// Handler runs the pipeline for a bundle whose screen file just appeared.
type Handler interface {
	Handle(ctx context.Context, screenPath string) error
}
