package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/catalog-extractor/internal/ingest"
)

func newWatchCmd(a *app) *cobra.Command {
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the catalog whenever the page images change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			c, err := a.build(ctx)
			if err != nil {
				a.logger.Error("failed to wire pipeline", "error", err)
				return err
			}
			defer c.Close()

			a.logger.Info("watching catalog pages", "dir", a.cfg.Paths.InputDir, "debounce", debounce.String())
			return ingest.Watch(ctx, ingest.WatchConfig{
				Dir:          a.cfg.Paths.InputDir,
				Debounce:     debounce,
				InitialBuild: true,
			}, a.logger, func(ctx context.Context) error {
				summary, err := c.pipeline.Run(ctx)
				if err != nil {
					return err
				}
				return summary.Print(os.Stdout)
			})
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", 2*time.Second, "quiet period before a rebuild")
	return cmd
}
