package cmd

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/minminkikiki/kaia-sdk/client"
)

type (
	profileFunc func(ctx context.Context, file string, seconds int64) (json.RawMessage, error)
	writeFunc   func(ctx context.Context, file string) (json.RawMessage, error)
)

func debugCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "debug",
		Short: "debug namespace: profiling",
	}

	profile := func(use, short string, pick func(client.DebugAPI) profileFunc) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <file> <seconds>",
			Short: short,
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				seconds, err := parseInt("seconds", args[1])
				if err != nil {
					return err
				}
				return a.run(cmd, func(ctx context.Context, c *client.Client) (any, error) {
					return pick(c.Debug)(ctx, args[0], seconds)
				})
			},
		}
	}
	write := func(use, short string, pick func(client.DebugAPI) writeFunc) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <file>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.run(cmd, func(ctx context.Context, c *client.Client) (any, error) {
					return pick(c.Debug)(ctx, args[0])
				})
			},
		}
	}

	cmd.AddCommand(
		profile("mutex-profile", "collect a mutex profile on the node",
			func(d client.DebugAPI) profileFunc { return d.MutexProfile }),
		profile("block-profile", "collect a block profile on the node",
			func(d client.DebugAPI) profileFunc { return d.BlockProfile }),
		profile("cpu-profile", "collect a CPU profile on the node",
			func(d client.DebugAPI) profileFunc { return d.CPUProfile }),
		write("write-block-profile", "write the current block profile on the node",
			func(d client.DebugAPI) writeFunc { return d.WriteBlockProfile }),
		write("write-mutex-profile", "write the current mutex profile on the node",
			func(d client.DebugAPI) writeFunc { return d.WriteMutexProfile }),
		write("write-mem-profile", "write the current heap profile on the node",
			func(d client.DebugAPI) writeFunc { return d.WriteMemProfile }),
		&cobra.Command{
			Use:   "set-block-profile-rate <rate>",
			Short: "set the node's block profile rate",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				rate, err := parseInt("rate", args[0])
				if err != nil {
					return err
				}
				return a.run(cmd, func(ctx context.Context, c *client.Client) (any, error) {
					return nil, c.Debug.SetBlockProfileRate(ctx, rate)
				})
			},
		},
	)
	return cmd
}
