package summarizer

import (
	"sync"

	"github.com/nguyentantai21042004/recap-flow/internal/config"
	"github.com/nguyentantai21042004/recap-flow/internal/logger"
)

type implSummarizer struct {
	apiKeys    []string
	currentKey int
	mu         sync.Mutex
	logger     logger.Logger
	cfg        config.GeminiConfig
	generate   generateFunc
}

// New creates a Summarizer that rotates through the configured Gemini API keys.
func New(cfg config.GeminiConfig, log logger.Logger) Summarizer {
	return &implSummarizer{
		apiKeys:  cfg.APIKeys,
		logger:   log,
		cfg:      cfg,
		generate: geminiGenerate,
	}
}
