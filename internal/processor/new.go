package processor

import (
	"golang.org/x/sync/semaphore"

	"github.com/nguyentantai21042004/recap-flow/internal/config"
	"github.com/nguyentantai21042004/recap-flow/internal/logger"
	"github.com/nguyentantai21042004/recap-flow/internal/media"
	"github.com/nguyentantai21042004/recap-flow/internal/session"
	"github.com/nguyentantai21042004/recap-flow/internal/store"
	"github.com/nguyentantai21042004/recap-flow/internal/summarizer"
	"github.com/nguyentantai21042004/recap-flow/internal/transcriber"
	"github.com/nguyentantai21042004/recap-flow/pkg/executor"
)

// Dependencies are the collaborators a Processor is wired with.
// Transcriber and Summarizer are optional; notes are generated only when both are set.
// Store is optional.
type Dependencies struct {
	Sessions    session.Manager
	Transcriber transcriber.Transcriber
	Summarizer  summarizer.Summarizer
	Store       store.Repository
}

type implProcessor struct {
	cfg         *config.Config
	executor    executor.Executor
	prober      media.Prober
	logger      logger.Logger
	sessions    session.Manager
	transcriber transcriber.Transcriber
	summarizer  summarizer.Summarizer
	store       store.Repository
	sem         *semaphore.Weighted
}

// New creates a new Processor instance
func New(cfg *config.Config, exec executor.Executor, log logger.Logger, deps Dependencies) Processor {
	maxConcurrent := cfg.Performance.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	return &implProcessor{
		cfg:         cfg,
		executor:    exec,
		prober:      media.NewProber(exec, cfg.FFmpeg.ProbePath),
		logger:      log,
		sessions:    deps.Sessions,
		transcriber: deps.Transcriber,
		summarizer:  deps.Summarizer,
		store:       deps.Store,
		sem:         semaphore.NewWeighted(int64(maxConcurrent)),
	}
}
