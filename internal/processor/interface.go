package processor

import (
	"context"
	"io"

	"github.com/nguyentantai21042004/recap-flow/internal/media"
)

// Slot is the role of one raw upload. Each slot holds at most one upload.
type Slot string

const (
	SlotVideo  Slot = "video"
	SlotSystem Slot = "system_audio"
	SlotMic    Slot = "mic_audio"

	// SlotMixed labels the amix output of the system and mic tracks. It is never an upload slot.
	SlotMixed Slot = "mixed_audio"
)

// baseName is the session file stem used for the slot's raw and normalized files.
func (s Slot) baseName() string {
	switch s {
	case SlotVideo:
		return "screen"
	case SlotSystem:
		return "system"
	case SlotMixed:
		return "mixed"
	default:
		return "mic"
	}
}

// Upload is one raw byte stream. Filename is only used to pick the on-disk extension.
type Upload struct {
	Filename string
	Body     io.Reader
}

// Uploads holds the three optional slots of a run. A nil slot is absent, not an error.
type Uploads struct {
	Screen *Upload
	System *Upload
	Mic    *Upload
}

// Asset is a file in the session that passed an independent probe.
// A nil *Asset means the stage produced nothing.
type Asset struct {
	Slot Slot
	Path string
	Info *media.ProbeInfo
}

// MuxedOutput is the final container. Path is authoritative: its extension follows the
// chosen codec, not any name requested up front.
type MuxedOutput struct {
	Path      string
	Codec     media.Codec
	Container media.Container
	HasAudio  bool
}

// Result is what a successful run reports back. Degraded lists every non-fatal
// stage failure that reduced the output.
type Result struct {
	SessionID string
	VideoPath string
	Notes     string
	NotesPath string
	Codec     media.Codec
	MixPolicy MixPolicy
	Degraded  []string
}

// Processor runs the media reconciliation pipeline
type Processor interface {
	Process(ctx context.Context, uploads Uploads) (*Result, error)
}
