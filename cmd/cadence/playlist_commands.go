package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cadence/internal/catalog"
	"cadence/internal/playlist"
	"cadence/internal/store"
)

func newPlaylistCommand(ctx *commandContext) *cobra.Command {
	playlistCmd := &cobra.Command{
		Use:     "playlist",
		Aliases: []string{"pl"},
		Short:   "Manage playlists",
	}

	playlistCmd.AddCommand(newPlaylistListCommand(ctx))
	playlistCmd.AddCommand(newPlaylistShowCommand(ctx))
	playlistCmd.AddCommand(newPlaylistCreateCommand(ctx))
	playlistCmd.AddCommand(newPlaylistDeleteCommand(ctx))
	playlistCmd.AddCommand(newPlaylistRenameCommand(ctx))
	playlistCmd.AddCommand(newPlaylistAddCommand(ctx))
	playlistCmd.AddCommand(newPlaylistRemoveCommand(ctx))
	playlistCmd.AddCommand(newPlaylistMoveCommand(ctx))

	return playlistCmd
}

// withPlaylists loads the catalog and rehydrated playlists, runs fn, and
// closes the database.
func withPlaylists(cmdCtx context.Context, ctx *commandContext, fn func(*catalog.Catalog, *playlist.Store, *store.Store) error) error {
	cat, _, err := ctx.loadCatalog(cmdCtx, ctx.logger())
	if err != nil {
		return err
	}
	db, playlists, _, err := ctx.openPlaylists(cmdCtx, cat)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(cat, playlists, db)
}

func newPlaylistListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List playlists",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPlaylists(cmd.Context(), ctx, func(_ *catalog.Catalog, playlists *playlist.Store, _ *store.Store) error {
				all := playlists.All()
				if asJSON {
					type playlistJSON struct {
						Name       string `json:"name"`
						Songs      int    `json:"songs"`
						Created    string `json:"created"`
						Persistent bool   `json:"persistent"`
					}
					out := make([]playlistJSON, 0, len(all))
					for _, p := range all {
						out = append(out, playlistJSON{Name: p.Name, Songs: len(p.Songs), Created: p.Created, Persistent: p.Persistent})
					}
					return writeJSON(cmd, out)
				}
				rows := make([][]string, 0, len(all))
				for _, p := range all {
					rows = append(rows, []string{p.Name, strconv.Itoa(len(p.Songs)), p.Created, yesNo(p.Persistent)})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Name", "Songs", "Created", "Persistent"},
					rows,
					[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newPlaylistShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show a playlist's songs in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPlaylists(cmd.Context(), ctx, func(_ *catalog.Catalog, playlists *playlist.Store, _ *store.Store) error {
				p, exists := playlists.Get(args[0])
				if !exists {
					return fmt.Errorf("playlist %q: %w", args[0], playlist.ErrNotFound)
				}
				if asJSON {
					songs := make([]trackJSON, 0, len(p.Songs))
					for _, song := range p.Songs {
						songs = append(songs, toTrackJSON(song))
					}
					return writeJSON(cmd, songs)
				}
				rows := make([][]string, 0, len(p.Songs))
				for i, song := range p.Songs {
					rows = append(rows, []string{
						strconv.Itoa(i),
						song.DisplayTitle(),
						song.Artist,
						formatSeconds(song.DurationSeconds),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"#", "Title", "Artist", "Length"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newPlaylistCreateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create an empty playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPlaylists(cmd.Context(), ctx, func(_ *catalog.Catalog, playlists *playlist.Store, _ *store.Store) error {
				if _, err := playlists.Create(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created playlist %q\n", args[0])
				return nil
			})
		},
	}
}

func newPlaylistDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPlaylists(cmd.Context(), ctx, func(_ *catalog.Catalog, playlists *playlist.Store, _ *store.Store) error {
				if err := playlists.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted playlist %q\n", args[0])
				return nil
			})
		},
	}
}

func newPlaylistRenameCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a playlist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPlaylists(cmd.Context(), ctx, func(_ *catalog.Catalog, playlists *playlist.Store, _ *store.Store) error {
				if err := playlists.Rename(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Renamed %q to %q\n", args[0], args[1])
				return nil
			})
		},
	}
}

func newPlaylistAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <path>",
		Short: "Add a library track to a playlist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPlaylists(cmd.Context(), ctx, func(cat *catalog.Catalog, playlists *playlist.Store, _ *store.Store) error {
				track, found := cat.Get(args[1])
				if !found {
					return fmt.Errorf("track %q not in library", args[1])
				}
				added, err := playlists.AddSong(cmd.Context(), args[0], track)
				if err != nil {
					return err
				}
				if !added {
					fmt.Fprintf(cmd.OutOrStdout(), "%q is already in %q\n", track.DisplayTitle(), args[0])
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %q to %q\n", track.DisplayTitle(), args[0])
				return nil
			})
		},
	}
}

func newPlaylistRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name> <position|path>",
		Short: "Remove a song by position or path",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPlaylists(cmd.Context(), ctx, func(_ *catalog.Catalog, playlists *playlist.Store, _ *store.Store) error {
				if position, err := strconv.Atoi(args[1]); err == nil {
					if err := playlists.RemoveSong(cmd.Context(), args[0], position); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Removed song %d from %q\n", position, args[0])
					return nil
				}
				if err := playlists.RemoveSongByPath(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from %q\n", args[1], args[0])
				return nil
			})
		},
	}
}

func newPlaylistMoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "move <name> <from> <to>",
		Short: "Move a song to a new position",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid position %q", args[1])
			}
			to, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid position %q", args[2])
			}
			return withPlaylists(cmd.Context(), ctx, func(_ *catalog.Catalog, playlists *playlist.Store, _ *store.Store) error {
				p, exists := playlists.Get(args[0])
				if !exists {
					return fmt.Errorf("playlist %q: %w", args[0], playlist.ErrNotFound)
				}
				order, err := moveOrder(len(p.Songs), from, to)
				if err != nil {
					return err
				}
				if err := playlists.Reorder(cmd.Context(), args[0], order); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Moved song %d to position %d in %q\n", from, to, args[0])
				return nil
			})
		},
	}
}

// moveOrder builds the permutation that moves one element from -> to.
func moveOrder(length, from, to int) ([]int, error) {
	if from < 0 || from >= length || to < 0 || to >= length {
		return nil, fmt.Errorf("positions must be within 0..%d", length-1)
	}
	order := make([]int, 0, length)
	for i := 0; i < length; i++ {
		if i != from {
			order = append(order, i)
		}
	}
	order = append(order[:to], append([]int{from}, order[to:]...)...)
	return order, nil
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
