package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/minminkikiki/kaia-sdk/client"
	"github.com/minminkikiki/kaia-sdk/types"
)

func ethCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eth",
		Short: "eth namespace: filters and chain state",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "new-block-filter",
			Short: "install a new block filter",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.run(cmd, func(ctx context.Context, c *client.Client) (any, error) {
					return c.Eth.NewBlockFilter(ctx)
				})
			},
		},
		&cobra.Command{
			Use:   "new-pending-transaction-filter",
			Short: "install a new pending transaction filter",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.run(cmd, func(ctx context.Context, c *client.Client) (any, error) {
					return c.Eth.NewPendingTransactionFilter(ctx)
				})
			},
		},
		&cobra.Command{
			Use:   "get-filter-changes <filter-id>",
			Short: "poll a filter",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.run(cmd, func(ctx context.Context, c *client.Client) (any, error) {
					return c.Eth.GetFilterChanges(ctx, types.FilterID(args[0]))
				})
			},
		},
		&cobra.Command{
			Use:   "uninstall-filter <filter-id>",
			Short: "remove a filter",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.run(cmd, func(ctx context.Context, c *client.Client) (any, error) {
					return c.Eth.UninstallFilter(ctx, types.FilterID(args[0]))
				})
			},
		},
		&cobra.Command{
			Use:   "syncing",
			Short: "report sync progress",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.run(cmd, func(ctx context.Context, c *client.Client) (any, error) {
					return c.Eth.Syncing(ctx)
				})
			},
		},
		&cobra.Command{
			Use:   "block-number",
			Short: "latest block height",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.run(cmd, func(ctx context.Context, c *client.Client) (any, error) {
					return c.Eth.BlockNumber(ctx)
				})
			},
		},
		&cobra.Command{
			Use:   "chain-id",
			Short: "chain id",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.run(cmd, func(ctx context.Context, c *client.Client) (any, error) {
					return c.Eth.ChainID(ctx)
				})
			},
		},
	)
	return cmd
}
