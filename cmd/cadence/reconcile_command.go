package main

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"cadence/internal/catalog"
	"cadence/internal/logging"
	"cadence/internal/manifest"
	"cadence/internal/notifications"
	"cadence/internal/playlist"
	"cadence/internal/reconcile"
)

func newReconcileCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	var importName string
	var doImport bool
	var suggestions int

	cmd := &cobra.Command{
		Use:   "reconcile <manifest.csv>",
		Short: "Match a manifest against the library",
		Long: `Reconcile scores each manifest row against the scanned library and
reports high-confidence, medium-confidence, and unmatched entries.
With --import, matched tracks become a persistent playlist.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.logger()

			loaded, err := manifest.Load(args[0])
			if err != nil {
				return err
			}

			cat, _, err := ctx.loadCatalog(cmd.Context(), logger)
			if err != nil {
				return err
			}

			var opts []reconcile.Option
			if strings.TrimSpace(cfg.Paths.OverridesPath) != "" {
				opts = append(opts, reconcile.WithOverrides(reconcile.NewOverrides(cfg.Paths.OverridesPath, logger)))
			}
			matcher := reconcile.NewMatcher(logger, opts...)
			results := matcher.Reconcile(loaded.Entries, cat.Tracks())

			high, medium, unmatched := tally(results)

			if asJSON {
				return writeJSON(cmd, reconcileReport(results, loaded.Skipped))
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			rows := make([][]string, 0, len(results))
			for _, result := range results {
				target := "-"
				if result.Track != nil {
					target = result.Track.Filename()
				}
				rows = append(rows, []string{
					result.Entry.TrackName,
					result.Entry.ArtistNames,
					tierLabel(result.Tier, colorize),
					formatScore(result.Score),
					target,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Manifest Track", "Artist(s)", "Tier", "Score", "Library File"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			fmt.Fprintf(out, "%d high, %d medium, %d unmatched (%d rows skipped)\n",
				high, medium, unmatched, loaded.Skipped)

			if suggestions > 0 {
				printSuggestions(cmd, results, cat.Tracks(), suggestions)
			}

			if doImport {
				name := strings.TrimSpace(importName)
				if name == "" {
					base := filepath.Base(args[0])
					name = cfg.Manifest.ImportedPlaylistPrefix + strings.TrimSuffix(base, filepath.Ext(base))
				}
				db, playlists, _, err := ctx.openPlaylists(cmd.Context(), cat)
				if err != nil {
					return err
				}
				defer db.Close()

				p := &playlist.Playlist{Name: name, Created: "imported", Persistent: true}
				for _, result := range results {
					if result.Track == nil {
						continue
					}
					p.Songs = append(p.Songs, *result.Track)
				}
				if err := playlists.Adopt(cmd.Context(), p); err != nil {
					return err
				}
				fmt.Fprintf(out, "Imported %d tracks into persistent playlist %q\n", len(p.Songs), name)
			}

			notifier := notifications.NewService(cfg)
			if err := notifier.NotifyReconcileCompleted(cmd.Context(), filepath.Base(args[0]), high, medium, unmatched); err != nil {
				logger.Warn("reconcile notification failed", logging.Error(err))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	cmd.Flags().BoolVar(&doImport, "import", false, "Create a persistent playlist from matched tracks")
	cmd.Flags().StringVar(&importName, "name", "", "Playlist name for --import (defaults to the manifest name)")
	cmd.Flags().IntVar(&suggestions, "suggest", 0, "Show up to N fuzzy suggestions per unmatched entry")
	return cmd
}

func tally(results []reconcile.Result) (high, medium, unmatched int) {
	for _, result := range results {
		switch result.Tier {
		case reconcile.TierHigh:
			high++
		case reconcile.TierMedium:
			medium++
		default:
			unmatched++
		}
	}
	return high, medium, unmatched
}

func tierLabel(tier reconcile.Tier, colorize bool) string {
	label := tier.String()
	if !colorize {
		return label
	}
	switch tier {
	case reconcile.TierHigh:
		return ansiGreen + label + ansiReset
	case reconcile.TierMedium:
		return ansiYellow + label + ansiReset
	default:
		return ansiRed + label + ansiReset
	}
}

type matchJSON struct {
	TrackName string  `json:"track_name"`
	Artists   string  `json:"artists"`
	Album     string  `json:"album"`
	Tier      string  `json:"tier"`
	Score     float64 `json:"score"`
	Override  bool    `json:"override,omitempty"`
	Path      string  `json:"path,omitempty"`
}

type reconcileJSON struct {
	Matches []matchJSON `json:"matches"`
	Skipped int         `json:"skipped_rows"`
}

func reconcileReport(results []reconcile.Result, skipped int) reconcileJSON {
	report := reconcileJSON{Skipped: skipped, Matches: make([]matchJSON, 0, len(results))}
	for _, result := range results {
		m := matchJSON{
			TrackName: result.Entry.TrackName,
			Artists:   result.Entry.ArtistNames,
			Album:     result.Entry.AlbumName,
			Tier:      result.Tier.String(),
			Score:     result.Score,
		}
		// Override matches carry an infinite score sentinel, which
		// encoding/json rejects. Flag them instead.
		if math.IsInf(result.Score, 1) {
			m.Score = 0
			m.Override = true
		}
		if result.Track != nil {
			m.Path = result.Track.Path
		}
		report.Matches = append(report.Matches, m)
	}
	return report
}

// formatScore renders a match score for the table; override matches have no
// meaningful numeric score.
func formatScore(score float64) string {
	if math.IsInf(score, 1) {
		return "override"
	}
	return fmt.Sprintf("%.1f", score)
}

func printSuggestions(cmd *cobra.Command, results []reconcile.Result, tracks []catalog.Track, n int) {
	out := cmd.OutOrStdout()
	for _, result := range results {
		if result.Track != nil {
			continue
		}
		candidates := reconcile.Suggest(result.Entry, tracks, n)
		if len(candidates) == 0 {
			continue
		}
		fmt.Fprintf(out, "Suggestions for %q:\n", result.Entry.TrackName)
		for _, candidate := range candidates {
			fmt.Fprintf(out, "  %.2f  %s (%s)\n",
				candidate.Similarity, candidate.Track.DisplayTitle(), candidate.Track.Filename())
		}
	}
}
