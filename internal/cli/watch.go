package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/recap-flow/internal/inbox"
	"github.com/nguyentantai21042004/recap-flow/internal/watcher"
)

func NewWatchCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Process recording bundles dropped into the inbox folder",
		Long:  "Watch paths.inbox for <name>.screen.<ext> files. Sibling <name>.system.* and <name>.mic.* files are picked up with it, so write them first.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			err := runWatcher(ctx, deps)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}

// runWatcher drains bundles already waiting in the inbox, then watches it until ctx is done.
func runWatcher(ctx context.Context, deps *Dependencies) error {
	a := deps.App
	dir := deps.Config.Paths.Inbox
	if dir == "" {
		return fmt.Errorf("paths.inbox is not configured")
	}

	w, err := watcher.New(dir, inbox.IsTrigger, a.Inbox.Handle, a.Logger, watcher.Options{
		MaxConcurrent: deps.Config.Performance.MaxConcurrent,
	})
	if err != nil {
		return err
	}
	defer w.Stop()

	pending, err := inbox.Scan(dir)
	if err != nil {
		return err
	}
	for _, p := range pending {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := a.Inbox.Handle(ctx, p); err != nil {
			a.Logger.Error(ctx, "Failed to process %s: %v", p, err)
		}
	}

	return w.Start(ctx)
}
