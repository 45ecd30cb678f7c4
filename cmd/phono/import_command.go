package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import pending files from the import directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ctx.buildPipeline()
			if err != nil {
				return err
			}

			c, skipped, err := p.store.LoadCatalog()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, s := range skipped {
				fmt.Fprintf(out, "warning: manifest line %d skipped: %v\n", s.Line, s.Err)
			}

			results, err := p.importer.ImportAllPending(c)
			if err != nil {
				return err
			}
			if err := p.store.Save(c); err != nil {
				return err
			}

			var ok int
			for _, r := range results {
				if r.Err == nil {
					ok++
					if verbose {
						fmt.Fprintf(out, "imported %s -> %s\n", r.Source, r.Song.File.Path)
					}
					continue
				}
				fmt.Fprintf(out, "failed %s: %v\n", r.Source, r.Err)
			}
			fmt.Fprintf(out, "Imported %d of %d files\n", ok, len(results))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print each imported file")
	return cmd
}
