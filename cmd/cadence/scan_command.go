package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cadence/internal/catalog"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan the library directory and list discovered tracks",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, result, err := ctx.loadCatalog(cmd.Context(), ctx.logger())
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, scanReport(cat, result))
			}

			rows := make([][]string, 0, cat.Len())
			for _, track := range cat.Tracks() {
				rows = append(rows, []string{
					track.DisplayTitle(),
					track.Artist,
					track.Album,
					formatSeconds(track.DurationSeconds),
					tagSourceLabel(track),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Title", "Artist", "Album", "Length", "Tags"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			fmt.Fprintf(out, "%d tracks, %d skipped\n", cat.Len(), result.Skipped)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

type trackJSON struct {
	Path            string `json:"path"`
	Title           string `json:"title"`
	Artist          string `json:"artist"`
	Album           string `json:"album"`
	DurationSeconds int    `json:"duration_seconds"`
	HasMetadata     bool   `json:"has_metadata"`
}

type scanJSON struct {
	Tracks  []trackJSON `json:"tracks"`
	Skipped int         `json:"skipped"`
}

func scanReport(cat *catalog.Catalog, result catalog.ScanResult) scanJSON {
	report := scanJSON{Skipped: result.Skipped, Tracks: make([]trackJSON, 0, cat.Len())}
	for _, track := range cat.Tracks() {
		report.Tracks = append(report.Tracks, toTrackJSON(track))
	}
	return report
}

func toTrackJSON(track catalog.Track) trackJSON {
	return trackJSON{
		Path:            track.Path,
		Title:           track.DisplayTitle(),
		Artist:          track.Artist,
		Album:           track.Album,
		DurationSeconds: track.DurationSeconds,
		HasMetadata:     track.HasMetadata(),
	}
}

func tagSourceLabel(track catalog.Track) string {
	if track.HasMetadata() {
		return "metadata"
	}
	return "filename"
}

func formatSeconds(seconds int) string {
	if seconds <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
