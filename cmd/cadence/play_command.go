package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"cadence/internal/catalog"
	"cadence/internal/ipc"
	"cadence/internal/logging"
	"cadence/internal/playback"
	"cadence/internal/player"
	"cadence/internal/playlist"
	"cadence/internal/store"
)

func newPlayCommand(ctx *commandContext) *cobra.Command {
	var playlistName string
	var shuffleFlag bool
	var startIndex int

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Start a playback session",
		Long: `Play scans the library, restores saved settings, and starts playing
either the full library or a named playlist. The session listens on a
Unix socket for ctl commands and watches the library for changes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.logger()

			lock := flock.New(cfg.LockPath())
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire session lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another playback session holds %s", cfg.LockPath())
			}
			defer func() { _ = lock.Unlock() }()

			cat, scanResult, err := ctx.loadCatalog(cmd.Context(), logger)
			if err != nil {
				return err
			}
			db, playlists, dropped, err := ctx.openPlaylists(cmd.Context(), cat)
			if err != nil {
				return err
			}
			defer db.Close()
			if dropped > 0 {
				logger.Info("dropped stale playlist paths", logging.Int("dropped", dropped))
			}

			settings, err := db.LoadSettings(cmd.Context())
			if err != nil {
				return err
			}

			list, source, err := resolveActiveList(cat, playlists, playlistName)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				return fmt.Errorf("nothing to play in %s", source)
			}

			audio := player.NewBeep(settings.Volume)
			sequencer := playback.New(audio, playback.WithLogger(logger))
			sequencer.SetShuffle(settings.Shuffle || shuffleFlag)
			sequencer.SetRepeat(playback.RepeatMode(settings.RepeatMode))
			sequencer.SelectActiveList(list)

			sess := newSession(sequencer, audio, source, logger)

			server, err := ipc.NewServer(cmd.Context(), ctx.socketPath(), sess, logger)
			if err != nil {
				return err
			}
			server.Serve()
			defer server.Close()

			watchCtx, cancelWatch := context.WithCancel(cmd.Context())
			defer cancelWatch()
			watcher, err := catalog.NewWatcher(cfg.Paths.LibraryDir, logger)
			if err != nil {
				logger.Warn("library watch unavailable", logging.Error(err))
			} else {
				go watcher.Run(watchCtx)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Playing %s (%d tracks, %d skipped)\n", source, len(list), scanResult.Skipped)
			if startIndex > 0 {
				sess.PlayIndex(startIndex)
			} else {
				sess.PlayPause()
			}

			runSession(cmd, ctx, cfg.Playback.PositionPollMS, sess, watcher, cat, db, playlistName)
			return nil
		},
	}

	cmd.Flags().StringVarP(&playlistName, "playlist", "p", "", "Play a named playlist instead of the library")
	cmd.Flags().BoolVar(&shuffleFlag, "shuffle", false, "Start with shuffle on")
	cmd.Flags().IntVar(&startIndex, "index", 0, "Start at this active-list index")
	return cmd
}

func resolveActiveList(cat *catalog.Catalog, playlists *playlist.Store, name string) ([]catalog.Track, string, error) {
	if name == "" {
		return cat.Tracks(), "library", nil
	}
	p, exists := playlists.Get(name)
	if !exists {
		return nil, "", fmt.Errorf("playlist %q: %w", name, playlist.ErrNotFound)
	}
	return p.Songs, "playlist " + name, nil
}

// runSession blocks until the session stops via signal or IPC.
func runSession(cmd *cobra.Command, ctx *commandContext, pollMS int, sess *session, watcher *catalog.Watcher, cat *catalog.Catalog, db *store.Store, playlistName string) {
	logger := sess.logger

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	if pollMS <= 0 {
		pollMS = 100
	}
	var progressC <-chan time.Time
	out := cmd.OutOrStdout()
	if shouldColorize(out) {
		progress := time.NewTicker(time.Duration(pollMS) * time.Millisecond)
		progressC = progress.C
		defer progress.Stop()
	}

	var changed <-chan struct{}
	if watcher != nil {
		changed = watcher.Changed()
	}

	for {
		select {
		case <-sess.audio.EndOfMedia():
			sess.OnEndOfMedia()
		case <-changed:
			refreshLibrary(cmd.Context(), ctx, sess, cat, playlistName)
		case <-progressC:
			printProgress(out, sess)
		case sig := <-signals:
			logger.Info("signal received", logging.String("signal", sig.String()))
			sess.Stop()
		case <-sess.Done():
			saveSessionState(cmd.Context(), db, sess)
			_ = sess.audio.Close()
			fmt.Fprintln(out)
			return
		}
	}
}

// refreshLibrary rescans after a filesystem change. Only the full-library
// source is refreshed; an explicit playlist keeps its snapshot.
func refreshLibrary(cmdCtx context.Context, ctx *commandContext, sess *session, cat *catalog.Catalog, playlistName string) {
	if playlistName != "" {
		return
	}
	fresh, result, err := ctx.loadCatalog(cmdCtx, sess.logger)
	if err != nil {
		return
	}
	*cat = *fresh
	sess.RefreshActiveList(cat.Tracks())
	sess.logger.Info("library rescanned",
		logging.Int("tracks", cat.Len()),
		logging.Int("skipped", result.Skipped))
}

func printProgress(out io.Writer, sess *session) {
	status := sess.Status()
	if status.Title == "" {
		return
	}
	state := "||"
	if status.Playing {
		state = ">"
	}
	fmt.Fprintf(out, "\r%s %s - %s  %s/%s   ",
		state, status.Artist, status.Title,
		formatMillis(status.PositionMS), formatMillis(status.DurationMS))
}

func formatMillis(ms int64) string {
	seconds := ms / 1000
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func saveSessionState(cmdCtx context.Context, db *store.Store, sess *session) {
	volume, shuffle, repeat := sess.Snapshot()
	settings, err := db.LoadSettings(cmdCtx)
	if err != nil {
		settings = store.DefaultSettings()
	}
	settings.Volume = volume
	settings.Shuffle = shuffle
	settings.RepeatMode = repeat
	if err := db.SaveSettings(cmdCtx, settings); err != nil {
		sess.logger.Warn("failed to save settings", logging.Error(err))
	}
}
