package summarizer

import "context"

// Request is the input of one notes generation.
type Request struct {
	// TranscriptPath points at the plain-text transcript. It may be empty text.
	TranscriptPath string
	// FramePaths are downscaled still images, in presentation order.
	FramePaths []string
	// OutPath, when set, receives the generated Markdown.
	OutPath string
}

// Summarizer turns a transcript plus still frames into Markdown meeting notes
// that fill every section of NotesTemplate.
type Summarizer interface {
	Summarize(ctx context.Context, req Request) (string, error)
}
