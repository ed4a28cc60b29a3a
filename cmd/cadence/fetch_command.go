package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cadence/internal/acquire"
	"cadence/internal/catalog"
	"cadence/internal/logging"
	"cadence/internal/notifications"
)

func newFetchCommand(ctx *commandContext) *cobra.Command {
	var playlistName string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "fetch <locator>",
		Short: "Fetch remote tracks and add them as a playlist",
		Long: `Fetch runs the configured acquisition command against the locator,
streams its output, scans the downloaded files, and links them into the
library as a new playlist.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.logger()
			locator := args[0]

			cat, _, err := ctx.loadCatalog(cmd.Context(), logger)
			if err != nil {
				return err
			}
			db, playlists, _, err := ctx.openPlaylists(cmd.Context(), cat)
			if err != nil {
				return err
			}
			defer db.Close()

			scanner := catalog.NewScanner(ctx.tagReader(), logger)
			manager := acquire.NewManager(cfg, scanner, logger)
			notifier := notifications.NewService(cfg)

			if err := notifier.NotifyAcquisitionStarted(cmd.Context(), locator); err != nil {
				logger.Warn("acquisition notification failed", logging.Error(err))
			}

			jobID, err := manager.Start(cmd.Context(), locator)
			if err != nil {
				return err
			}
			defer manager.Shutdown()

			out := cmd.OutOrStdout()
			for ev := range manager.Events() {
				if ev.JobID != jobID {
					continue
				}
				switch ev.Kind {
				case acquire.EventOutput:
					if !quiet {
						fmt.Fprintln(out, ev.Line)
					}
				case acquire.EventStatus:
					fmt.Fprintf(out, "-- %s\n", ev.Status)
				case acquire.EventProgress:
					if !quiet {
						fmt.Fprintf(out, "-- %d/%d\n", ev.Done, ev.Total)
					}
				case acquire.EventDone:
					if ev.Err != nil {
						if nerr := notifier.NotifyAcquisitionFailed(cmd.Context(), locator, ev.Err.Error()); nerr != nil {
							logger.Warn("acquisition notification failed", logging.Error(nerr))
						}
						return fmt.Errorf("fetch failed: %w", ev.Err)
					}

					name := strings.TrimSpace(playlistName)
					if name == "" {
						name = suggestPlaylistName(playlists.Len(), locator)
					}
					merged, err := acquire.MergeAndLink(cmd.Context(), cat, playlists, name, "acquired", ev.Tracks)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Fetched %d tracks (%d new) into playlist %q\n",
						len(ev.Tracks), merged, name)
					if nerr := notifier.NotifyAcquisitionCompleted(cmd.Context(), name, len(ev.Tracks)); nerr != nil {
						logger.Warn("acquisition notification failed", logging.Error(nerr))
					}
					return nil
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&playlistName, "name", "n", "", "Playlist name for the fetched tracks")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress raw fetch output")
	return cmd
}

// suggestPlaylistName derives a readable name from the locator tail.
func suggestPlaylistName(existing int, locator string) string {
	trimmed := strings.TrimRight(locator, "/")
	if idx := strings.LastIndexAny(trimmed, "/:"); idx >= 0 && idx+1 < len(trimmed) {
		trimmed = trimmed[idx+1:]
	}
	if trimmed == "" {
		return fmt.Sprintf("fetched-%d", existing+1)
	}
	return trimmed
}
