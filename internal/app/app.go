package app

import (
	"fmt"

	"github.com/nguyentantai21042004/recap-flow/internal/capture"
	"github.com/nguyentantai21042004/recap-flow/internal/config"
	"github.com/nguyentantai21042004/recap-flow/internal/inbox"
	"github.com/nguyentantai21042004/recap-flow/internal/logger"
	"github.com/nguyentantai21042004/recap-flow/internal/processor"
	"github.com/nguyentantai21042004/recap-flow/internal/session"
	"github.com/nguyentantai21042004/recap-flow/internal/store"
	"github.com/nguyentantai21042004/recap-flow/internal/summarizer"
	"github.com/nguyentantai21042004/recap-flow/internal/transcriber"
	"github.com/nguyentantai21042004/recap-flow/pkg/executor"
)

// App holds every wired component a command may need.
type App struct {
	Config    *config.Config
	Logger    logger.Logger
	Executor  executor.Executor
	Sessions  session.Manager
	Store     store.Repository
	Processor processor.Processor
	Inbox     inbox.Handler
	Capturer  capture.Capturer
	Sweeper   *session.Sweeper
}

// New wires the pipeline from cfg. Notes generation is enabled only when whisper is
// enabled and at least one Gemini key is configured.
func New(cfg *config.Config, log logger.Logger) (*App, error) {
	exec := executor.New()

	sessions, err := session.New(cfg.Paths.Sessions, log)
	if err != nil {
		return nil, fmt.Errorf("init sessions: %w", err)
	}

	var repo store.Repository
	if cfg.Paths.Database != "" {
		if repo, err = store.Open(cfg.Paths.Database); err != nil {
			return nil, fmt.Errorf("open session store: %w", err)
		}
	}

	deps := processor.Dependencies{Sessions: sessions, Store: repo}
	if cfg.Whisper.Enabled && len(cfg.Gemini.APIKeys) > 0 {
		deps.Transcriber = transcriber.New(cfg.Whisper, exec, log)
		deps.Summarizer = summarizer.New(cfg.Gemini, log)
	}

	proc := processor.New(cfg, exec, log, deps)

	var forgetter session.Forgetter
	if repo != nil {
		forgetter = repo
	}

	return &App{
		Config:    cfg,
		Logger:    log,
		Executor:  exec,
		Sessions:  sessions,
		Store:     repo,
		Processor: proc,
		Inbox:     inbox.NewHandler(proc, cfg.Paths.Archived, log),
		Capturer:  capture.New(cfg.Capture, cfg.FFmpeg.BinaryPath, log),
		Sweeper:   session.NewSweeper(sessions, forgetter, cfg.Session.Retention, cfg.Session.SweepInterval, log),
	}, nil
}

// NotesEnabled reports whether runs will call the transcription and summarization collaborators.
func (a *App) NotesEnabled() bool {
	return a.Config.Whisper.Enabled && len(a.Config.Gemini.APIKeys) > 0
}

// Close releases the session store.
func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	return a.Store.Close()
}
