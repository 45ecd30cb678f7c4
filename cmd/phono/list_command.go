package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"phono/internal/catalog"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var showBooks bool
	var sortFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cataloged songs and audiobooks",
		RunE: func(cmd *cobra.Command, args []string) error {
			sortKey, ok := catalog.ParseSortKey(sortFlag)
			if !ok {
				return fmt.Errorf("invalid sort key %q (want artist, album, or title)", sortFlag)
			}
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

			if showBooks {
				books := c.Audiobooks()
				if len(books) == 0 {
					fmt.Fprintln(out, "No audiobooks cataloged.")
					return nil
				}
				rows := make([][]string, 0, len(books))
				for _, b := range books {
					rows = append(rows, []string{
						strconv.FormatUint(b.ID, 10),
						orPlaceholder(b.Author, "Unknown Author"),
						b.Title,
						strconv.Itoa(len(b.Chapters)),
						formatDuration(b.Duration),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Author", "Title", "Chapters", "Duration"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight},
				))
				return nil
			}

			songs := c.SongsBy(sortKey)
			if len(songs) == 0 {
				fmt.Fprintln(out, "No songs cataloged.")
				return nil
			}
			rows := make([][]string, 0, len(songs))
			for _, s := range songs {
				track := ""
				if s.TrackNumber > 0 {
					track = strconv.Itoa(s.TrackNumber)
				}
				rows = append(rows, []string{
					strconv.FormatUint(s.ID, 10),
					orPlaceholder(s.Artist, "Unknown Artist"),
					orPlaceholder(s.Album, "Unknown Album"),
					track,
					s.Title,
					formatDuration(s.Duration),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Artist", "Album", "#", "Title", "Duration"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&showBooks, "audiobooks", false, "List audiobooks instead of songs")
	cmd.Flags().StringVar(&sortFlag, "sort", "artist", "Song sort order: artist, album, or title")
	return cmd
}
