package cli

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nguyentantai21042004/recap-flow/internal/api"
)

func NewServeCmd(deps *Dependencies) *cobra.Command {
	var withWatcher bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the session sweeper and optionally the inbox watcher",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			a := deps.App
			log := a.Logger
			cfg := deps.Config

			router := api.NewRouter(cfg.Server, a.Processor, a.Store, log)
			srv := api.NewServer(cfg.Server, router)

			g, gctx := errgroup.WithContext(ctx)

			g.Go(func() error {
				log.Info(gctx, "HTTP API listening on %s", srv.Addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})

			g.Go(func() error {
				<-gctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.Server.ShutdownTimeout)
				defer cancel()
				log.Info(gctx, "Shutting down HTTP API...")
				return srv.Shutdown(shutdownCtx)
			})

			g.Go(func() error {
				return a.Sweeper.Run(gctx)
			})

			if withWatcher {
				g.Go(func() error {
					return runWatcher(gctx, deps)
				})
			}

			err := g.Wait()
			if errors.Is(err, context.Canceled) {
				err = nil
			}
			log.Info(ctx, "Server stopped")
			return err
		},
	}

	cmd.Flags().BoolVar(&withWatcher, "watch", false, "Also process bundles dropped into paths.inbox")

	return cmd
}
