package summarizer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"
	"google.golang.org/genai"
)

const systemPrompt = `You are a precise meeting-notes assistant.
- Output ONLY valid Markdown.
- Fill EVERY section of the template; if unknown, keep the section and put '- (none)'.
- DO NOT quote or reproduce the transcript verbatim (no long passages copied).
- Use short bullets with concrete nouns and verbs; keep each bullet under 20 words.
- Use the attached screenshots only for context the transcript lacks.`

// NotesTemplate is the fixed section layout every generated note follows.
const NotesTemplate = `# Title
- One-liner purpose of meeting

## Key Points
- (bullet)

## Decisions
- (decision)

## Action Items
- [Owner] task, due date

## Open Questions
- (question)

## Timeline / Dates Mentioned
- (item)
`

const userPrompt = `Summarize the following transcript into the template below.

Transcript (do not quote directly):
"""%s"""

Template:
%s`

// ErrNoAPIKeys is returned when the summarizer has no Gemini key to call with.
var ErrNoAPIKeys = errors.New("no Gemini API keys configured")

type generateFunc func(ctx context.Context, apiKey, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error)

// Summarize builds the multimodal prompt, calls Gemini and optionally persists the notes.
func (s *implSummarizer) Summarize(ctx context.Context, req Request) (string, error) {
	if len(s.apiKeys) == 0 {
		return "", ErrNoAPIKeys
	}

	raw, err := os.ReadFile(req.TranscriptPath)
	if err != nil {
		return "", fmt.Errorf("read transcript: %w", err)
	}
	transcript := truncateRunes(strings.TrimSpace(string(raw)), s.cfg.MaxChars)
	if transcript == "" {
		transcript = "(no speech captured)"
	}

	parts := []*genai.Part{genai.NewPartFromText(fmt.Sprintf(userPrompt, transcript, NotesTemplate))}
	images := 0
	for _, p := range req.FramePaths {
		if s.cfg.MaxImages > 0 && images >= s.cfg.MaxImages {
			break
		}
		data, err := os.ReadFile(p)
		if err != nil {
			s.logger.Warn(ctx, "Skipping unreadable frame %s: %v", p, err)
			continue
		}
		parts = append(parts, genai.NewPartFromBytes(data, imageMIME(p)))
		images++
	}

	s.logger.Info(ctx, "Summarizing transcript (%d chars) with %d frames", len(transcript), images)

	md, err := s.callGemini(ctx, []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)})
	if err != nil {
		return "", err
	}
	md = strings.TrimSpace(md)

	if req.OutPath != "" {
		if err := renameio.WriteFile(req.OutPath, []byte(md+"\n"), 0644); err != nil {
			return "", fmt.Errorf("write notes: %w", err)
		}
	}

	return md, nil
}

// callGemini sends the contents to Gemini and returns the response text.
// Rotates API keys on 429 / quota errors.
func (s *implSummarizer) callGemini(ctx context.Context, contents []*genai.Content) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       s.cfg.Temperature,
		MaxOutputTokens:   int32(s.cfg.MaxOutputTokens),
	}

	attempts := len(s.apiKeys)
	var lastErr error

	for range attempts {
		key, idx := s.key()

		text, err := s.generate(ctx, key, s.cfg.Model, contents, cfg)
		if err != nil {
			errMsg := err.Error()
			if strings.Contains(errMsg, "429") || strings.Contains(errMsg, "quota") || strings.Contains(errMsg, "RESOURCE_EXHAUSTED") {
				s.logger.Warn(ctx, "Key %d rate limited, rotating...", idx+1)
				s.rotateKey(idx)
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}
		if strings.TrimSpace(text) == "" {
			return "", fmt.Errorf("empty response from Gemini")
		}
		return text, nil
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (s *implSummarizer) key() (string, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apiKeys[s.currentKey], s.currentKey
}

// rotateKey moves past idx; a concurrent run that already rotated away from idx wins.
func (s *implSummarizer) rotateKey(idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentKey == idx {
		s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
	}
}

// geminiGenerate is the production generateFunc.
func geminiGenerate(ctx context.Context, apiKey, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("create client: %w", err)
	}

	result, err := client.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return "", err
	}

	var text string
	if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		for _, part := range result.Candidates[0].Content.Parts {
			if part.Text != "" {
				text += part.Text
			}
		}
	}
	return text, nil
}

func imageMIME(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

// truncateRunes cuts s to at most limit runes; limit <= 0 disables the limit.
func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
