package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Rebuild the catalog once from the page images",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.runOnce(ctx)
		},
	}
}

func (a *app) runOnce(ctx context.Context) error {
	c, err := a.build(ctx)
	if err != nil {
		a.logger.Error("failed to wire pipeline", "error", err)
		return err
	}
	defer c.Close()

	summary, err := c.pipeline.Run(ctx)
	if err != nil {
		return err
	}
	return summary.Print(os.Stdout)
}
