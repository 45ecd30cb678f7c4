package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"phono/internal/logging"
	"phono/internal/repair"
)

// progressBucket throttles repair progress output to one line per this
// many files.
const progressBucket = 10

func newRepairCommand(ctx *commandContext) *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "repair",
		Short: "Recover durations for files in the problem directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if workers > 0 {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				cfg.Workers = workers
			}
			p, err := ctx.buildPipeline()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			var onProgress repair.ProgressFunc
			if stdoutIsTerminal() {
				// Large batches print one line per bucket instead of one
				// per file.
				sampler := logging.NewProgressSampler(progressBucket)
				onProgress = func(pr repair.Progress) {
					if !sampler.ShouldLog(pr.Current, pr.Total) {
						return
					}
					fmt.Fprintf(out, "[%d/%d] %s\n", pr.Current, pr.Total, pr.Path)
				}
			}

			successes, failures, err := p.pool.RepairAll(onProgress)
			if err != nil {
				return err
			}

			for _, f := range failures {
				fmt.Fprintf(out, "failed %s: %v\n", f.Path, f.Reason)
			}
			fmt.Fprintf(out, "Repaired %d files, %d failures\n", len(successes), len(failures))
			if len(successes) > 0 {
				fmt.Fprintln(out, "Repaired files moved to the import directory; run 'phono import' to catalog them.")
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "Override the configured repair pool size")
	return cmd
}
