package summarizer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/nguyentantai21042004/recap-flow/internal/config"
	"github.com/nguyentantai21042004/recap-flow/internal/logger"
)

type generateCall struct {
	key      string
	model    string
	contents []*genai.Content
}

func newTestSummarizer(cfg config.GeminiConfig, gen generateFunc) *implSummarizer {
	s := New(cfg, logger.New("error")).(*implSummarizer)
	s.generate = gen
	return s
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

const sampleNotes = `# Title
- Weekly sync

## Key Points
- Release moved

## Decisions
- (none)

## Action Items
- [Ana] update roadmap, Friday

## Open Questions
- (none)

## Timeline / Dates Mentioned
- Friday`

func TestSummarize(t *testing.T) {
	dir := t.TempDir()
	transcript := writeFile(t, dir, "transcript.txt", "we moved the release to friday")
	frames := []string{
		writeFile(t, dir, "frame_00001.jpg", "jpeg-1"),
		writeFile(t, dir, "frame_00002.png", "png-2"),
		writeFile(t, dir, "frame_00003.jpg", "jpeg-3"),
	}
	out := filepath.Join(dir, "notes.md")

	var calls []generateCall
	s := newTestSummarizer(config.GeminiConfig{
		Model:     "gemini-2.5-flash",
		APIKeys:   []string{"k1"},
		MaxImages: 2,
	}, func(_ context.Context, key, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (string, error) {
		calls = append(calls, generateCall{key: key, model: model, contents: contents})
		return "\n" + sampleNotes + "\n", nil
	})

	md, err := s.Summarize(context.Background(), Request{TranscriptPath: transcript, FramePaths: frames, OutPath: out})
	require.NoError(t, err)
	assert.Equal(t, sampleNotes, md)

	require.Len(t, calls, 1)
	assert.Equal(t, "k1", calls[0].key)
	assert.Equal(t, "gemini-2.5-flash", calls[0].model)

	parts := calls[0].contents[0].Parts
	require.Len(t, parts, 3, "one text part plus MaxImages frames")
	assert.Contains(t, parts[0].Text, "we moved the release to friday")
	assert.Contains(t, parts[0].Text, "## Timeline / Dates Mentioned")
	assert.Equal(t, "image/jpeg", parts[1].InlineData.MIMEType)
	assert.Equal(t, "image/png", parts[2].InlineData.MIMEType)

	saved, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, sampleNotes+"\n", string(saved))
}

func TestSummarizeEmptyTranscript(t *testing.T) {
	dir := t.TempDir()
	transcript := writeFile(t, dir, "transcript.txt", "   ")

	var prompt string
	s := newTestSummarizer(config.GeminiConfig{APIKeys: []string{"k1"}}, func(_ context.Context, _, _ string, contents []*genai.Content, _ *genai.GenerateContentConfig) (string, error) {
		prompt = contents[0].Parts[0].Text
		return sampleNotes, nil
	})

	_, err := s.Summarize(context.Background(), Request{TranscriptPath: transcript})
	require.NoError(t, err)
	assert.Contains(t, prompt, "(no speech captured)")
}

func TestSummarizeRotatesKeys(t *testing.T) {
	dir := t.TempDir()
	transcript := writeFile(t, dir, "transcript.txt", "hello")

	var keys []string
	s := newTestSummarizer(config.GeminiConfig{APIKeys: []string{"k1", "k2"}}, func(_ context.Context, key, _ string, _ []*genai.Content, _ *genai.GenerateContentConfig) (string, error) {
		keys = append(keys, key)
		if key == "k1" {
			return "", errors.New("Error 429, RESOURCE_EXHAUSTED")
		}
		return sampleNotes, nil
	})

	_, err := s.Summarize(context.Background(), Request{TranscriptPath: transcript})
	require.NoError(t, err)
	assert.Equal(t, []string{"k1", "k2"}, keys)
}

func TestSummarizeFailures(t *testing.T) {
	dir := t.TempDir()
	transcript := writeFile(t, dir, "transcript.txt", "hello")

	tests := []struct {
		name    string
		keys    []string
		gen     generateFunc
		path    string
		wantErr string
	}{
		{
			name:    "no keys",
			path:    transcript,
			wantErr: ErrNoAPIKeys.Error(),
		},
		{
			name:    "missing transcript",
			keys:    []string{"k1"},
			path:    filepath.Join(dir, "missing.txt"),
			wantErr: "read transcript",
		},
		{
			name: "all keys exhausted",
			keys: []string{"k1", "k2"},
			gen: func(context.Context, string, string, []*genai.Content, *genai.GenerateContentConfig) (string, error) {
				return "", errors.New("quota exceeded")
			},
			path:    transcript,
			wantErr: "all API keys exhausted",
		},
		{
			name: "non-retryable error",
			keys: []string{"k1", "k2"},
			gen: func(context.Context, string, string, []*genai.Content, *genai.GenerateContentConfig) (string, error) {
				return "", errors.New("invalid argument")
			},
			path:    transcript,
			wantErr: "generate content",
		},
		{
			name: "empty response",
			keys: []string{"k1"},
			gen: func(context.Context, string, string, []*genai.Content, *genai.GenerateContentConfig) (string, error) {
				return "  ", nil
			},
			path:    transcript,
			wantErr: "empty response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSummarizer(config.GeminiConfig{APIKeys: tt.keys}, tt.gen)
			_, err := s.Summarize(context.Background(), Request{TranscriptPath: tt.path})
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.wantErr), "error %q should contain %q", err, tt.wantErr)
		})
	}
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "héll", truncateRunes("héllo", 4))
	assert.Equal(t, "héllo", truncateRunes("héllo", 0))
	assert.Equal(t, "hi", truncateRunes("hi", 10))
}

func TestExportDocx(t *testing.T) {
	out := filepath.Join(t.TempDir(), "notes.docx")
	require.NoError(t, ExportDocx("Meeting notes", sampleNotes+"\n1. **first** item\n---\nplain line", out))

	fi, err := os.Stat(out)
	require.NoError(t, err)
	assert.Greater(t, fi.Size(), int64(0))
}
