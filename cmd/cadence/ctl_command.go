package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cadence/internal/ipc"
)

func newCtlCommand(ctx *commandContext) *cobra.Command {
	ctlCmd := &cobra.Command{
		Use:   "ctl",
		Short: "Control a running playback session",
	}

	ctlCmd.AddCommand(newCtlStatusCommand(ctx))
	ctlCmd.AddCommand(newCtlToggleCommand(ctx))
	ctlCmd.AddCommand(newCtlNextCommand(ctx))
	ctlCmd.AddCommand(newCtlPreviousCommand(ctx))
	ctlCmd.AddCommand(newCtlShuffleCommand(ctx))
	ctlCmd.AddCommand(newCtlRepeatCommand(ctx))
	ctlCmd.AddCommand(newCtlEnqueueCommand(ctx))
	ctlCmd.AddCommand(newCtlVolumeCommand(ctx))
	ctlCmd.AddCommand(newCtlSeekCommand(ctx))
	ctlCmd.AddCommand(newCtlStopCommand(ctx))

	return ctlCmd
}

func newCtlStatusCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show what is playing",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				status, err := client.Status()
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, status)
				}
				out := cmd.OutOrStdout()
				if status.Title == "" {
					fmt.Fprintf(out, "Nothing playing (%s, %d tracks)\n", status.ActiveSource, status.ListLen)
					return nil
				}
				state := "paused"
				if status.Playing {
					state = "playing"
				}
				fmt.Fprintf(out, "%s: %s - %s\n", state, status.Artist, status.Title)
				fmt.Fprintf(out, "  %s / %s  [%d/%d in %s]\n",
					formatMillis(status.PositionMS), formatMillis(status.DurationMS),
					status.Index+1, status.ListLen, status.ActiveSource)
				fmt.Fprintf(out, "  volume %.0f%%  shuffle %s  repeat %s  queue %d\n",
					status.Volume*100, onOff(status.Shuffle), status.Repeat, status.QueueLen)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of text")
	return cmd
}

func newCtlToggleCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle",
		Short: "Toggle play/pause",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.PlayPause()
				if err != nil {
					return err
				}
				if resp.Playing {
					fmt.Fprintln(cmd.OutOrStdout(), "Playing")
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "Paused")
				}
				return nil
			})
		},
	}
}

func newCtlNextCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Skip to the next track",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Next()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Now playing [%d] %s\n", resp.Index, resp.Title)
				return nil
			})
		},
	}
}

func newCtlPreviousCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "previous",
		Aliases: []string{"prev"},
		Short:   "Step back one track",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Previous()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Now playing [%d] %s\n", resp.Index, resp.Title)
				return nil
			})
		},
	}
}

func newCtlShuffleCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "shuffle",
		Short: "Toggle shuffle",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Shuffle()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Shuffle %s\n", onOff(resp.Shuffle))
				return nil
			})
		},
	}
}

func newCtlRepeatCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "repeat",
		Short: "Cycle repeat mode (off, all, one)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Repeat()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Repeat %s\n", resp.Repeat)
				return nil
			})
		},
	}
}

func newCtlEnqueueCommand(ctx *commandContext) *cobra.Command {
	var playNext bool

	cmd := &cobra.Command{
		Use:   "enqueue <index>",
		Short: "Queue an active-list index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid index %q", args[0])
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Enqueue(index, playNext)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Queued index %d (%d pending)\n", index, resp.QueueLen)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&playNext, "next", false, "Insert at the front of the queue")
	return cmd
}

func newCtlVolumeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "volume <0..100>",
		Short: "Set the output volume",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			percent, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid volume %q", args[0])
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Volume(percent / 100)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Volume %.0f%%\n", resp.Level*100)
				return nil
			})
		},
	}
}

func newCtlSeekCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "seek <seconds>",
		Short: "Seek to an absolute position in the current track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seconds, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid position %q", args[0])
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Seek(int64(seconds * 1000))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Position %s\n", formatMillis(resp.PositionMS))
				return nil
			})
		},
	}
}

func newCtlStopCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the playback session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				if _, err := client.Stop(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Session stopped")
				return nil
			})
		},
	}
}

func onOff(value bool) string {
	if value {
		return "on"
	}
	return "off"
}
