package processor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/renameio/v2"

	"github.com/nguyentantai21042004/recap-flow/internal/summarizer"
)

// stubNotes is returned whenever the notes collaborators are unset or fail.
func stubNotes(finalPath string) string {
	return "# Title: Meeting Recording\n\n" +
		"# Key Points\n" +
		"- Uploaded, mixed and muxed successfully.\n" +
		"- Final file: " + filepath.Base(finalPath) + "\n"
}

// notes produces Markdown notes for the muxed output. It never fails the run: any
// collaborator error is recorded as degraded and the stub text is returned instead.
func (p *implProcessor) notes(ctx context.Context, r *run, out *MuxedOutput) (string, string) {
	if p.transcriber == nil || p.summarizer == nil {
		return stubNotes(out.Path), ""
	}

	md, path, err := p.generateNotes(ctx, r, out)
	if err != nil {
		if ctx.Err() == nil {
			p.degrade(ctx, r, "notes", err)
		}
		return stubNotes(out.Path), ""
	}
	return md, path
}

func (p *implProcessor) generateNotes(ctx context.Context, r *run, out *MuxedOutput) (string, string, error) {
	transcript := ""
	if out.HasAudio {
		wav, err := p.extractAudio(ctx, r.sess, out.Path)
		if err != nil {
			return "", "", err
		}
		defer p.cleanupTempFile(ctx, wav)

		tctx, cancel := withTimeout(ctx, p.cfg.Timeouts.Transcribe)
		transcript, err = p.transcriber.Transcribe(tctx, wav)
		cancel()
		if err != nil {
			return "", "", fmt.Errorf("transcribe: %w", err)
		}
	}

	transcriptPath := r.sess.Path("transcript.txt")
	if err := renameio.WriteFile(transcriptPath, []byte(transcript+"\n"), 0644); err != nil {
		return "", "", fmt.Errorf("write transcript: %w", err)
	}

	frames := p.extractFrames(ctx, r.sess, out.Path)

	notesPath := r.sess.Path("notes.md")
	sctx, cancel := withTimeout(ctx, p.cfg.Timeouts.Summarize)
	defer cancel()

	md, err := p.summarizer.Summarize(sctx, summarizer.Request{
		TranscriptPath: transcriptPath,
		FramePaths:     frames,
		OutPath:        notesPath,
	})
	if err != nil {
		return "", "", fmt.Errorf("summarize: %w", err)
	}
	if md == "" {
		return "", "", errors.New("summarize: empty notes")
	}

	if p.cfg.Notes.ExportDocx {
		docxPath := r.sess.Path("notes.docx")
		if err := summarizer.ExportDocx("Meeting Notes", md, docxPath); err != nil {
			p.logger.Warn(ctx, "Failed to export notes.docx: %v", err)
		} else {
			p.logger.Info(ctx, "Notes exported: %s", docxPath)
		}
	}

	return md, notesPath, nil
}
