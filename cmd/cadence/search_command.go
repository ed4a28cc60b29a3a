package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the library by title, artist, or album",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, _, err := ctx.loadCatalog(cmd.Context(), ctx.logger())
			if err != nil {
				return err
			}

			query := strings.Join(args, " ")
			matches := cat.Search(query)

			if asJSON {
				results := make([]trackJSON, 0, len(matches))
				for _, track := range matches {
					results = append(results, toTrackJSON(track))
				}
				return writeJSON(cmd, results)
			}

			if len(matches) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No tracks matching %q\n", query)
				return nil
			}
			rows := make([][]string, 0, len(matches))
			for _, track := range matches {
				rows = append(rows, []string{
					track.DisplayTitle(),
					track.Artist,
					track.Album,
					formatSeconds(track.DurationSeconds),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Title", "Artist", "Album", "Length"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}
