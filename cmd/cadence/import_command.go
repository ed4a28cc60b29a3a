package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"cadence/internal/acquire"
	"cadence/internal/catalog"
	"cadence/internal/config"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var playlistName string

	cmd := &cobra.Command{
		Use:   "import <dir>",
		Short: "Scan a directory outside the library and add its tracks as a playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := ctx.logger()

			dir, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve import dir: %w", err)
			}

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
			result, err := scanner.ScanDir(cmd.Context(), dir)
			if err != nil {
				return err
			}
			if len(result.Tracks) == 0 {
				return fmt.Errorf("no playable files under %s", dir)
			}

			name := strings.TrimSpace(playlistName)
			if name == "" {
				name = filepath.Base(dir)
			}
			merged, err := acquire.MergeAndLink(cmd.Context(), cat, playlists, name, "folder", result.Tracks)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tracks (%d new, %d skipped) into playlist %q\n",
				len(result.Tracks), merged, result.Skipped, name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&playlistName, "name", "n", "", "Playlist name (defaults to the directory name)")
	return cmd
}
