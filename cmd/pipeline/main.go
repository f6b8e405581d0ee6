package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/nguyentantai21042004/recap-flow/internal/app"
	"github.com/nguyentantai21042004/recap-flow/internal/cli"
	"github.com/nguyentantai21042004/recap-flow/internal/config"
	"github.com/nguyentantai21042004/recap-flow/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load(configPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Initialize logger
	log := logger.NewWithFormat(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	log.Debug(ctx, "System: %s/%s, CPU cores: %d, max concurrent runs: %d",
		runtime.GOOS, runtime.GOARCH, runtime.NumCPU(), cfg.Performance.MaxConcurrent)

	// Verify required directories exist
	if err := ensureDirectories(cfg); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	// Initialize dependencies
	application, err := app.New(cfg, log)
	if err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}
	defer application.Close()

	deps := &cli.Dependencies{
		App:    application,
		Config: cfg,
	}

	return cli.NewRootCmd(deps).ExecuteContext(ctx)
}

// configPath is RECAP_CONFIG when set, else config.yaml in the working directory.
func configPath() string {
	if v := os.Getenv("RECAP_CONFIG"); v != "" {
		return v
	}
	return "config.yaml"
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Sessions,
		cfg.Paths.Inbox,
		cfg.Paths.Archived,
	}
	if cfg.Paths.Database != "" {
		dirs = append(dirs, filepath.Dir(cfg.Paths.Database))
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
