package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"phono/internal/daemon"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the pipeline continuously, watching the import directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ctx.buildPipeline()
			if err != nil {
				return err
			}

			d, err := daemon.New(p.cfg, p.importer, p.pool, p.store, p.logger)
			if err != nil {
				return err
			}
			if err := d.Start(cmd.Context()); err != nil {
				return err
			}
			defer d.Stop()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Watching %s (lock: %s). Press Ctrl-C to stop.\n", p.cfg.ImportDir, d.LockPath())

			signals := make(chan os.Signal, 1)
			signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(signals)

			select {
			case <-cmd.Context().Done():
			case <-signals:
			}
			return nil
		},
	}
	return cmd
}
