package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/minminkikiki/kaia-sdk/client"
	"github.com/minminkikiki/kaia-sdk/types"
)

// chainCmd serves the klay and kaia namespaces, which share one method set.
func chainCmd(a *app, ns string) *cobra.Command {
	pick := func(c *client.Client) client.ChainAPI {
		if ns == "kaia" {
			return c.Kaia
		}
		return c.Klay
	}

	cmd := &cobra.Command{
		Use:   ns,
		Short: ns + " namespace: chain state and governance",
	}

	var block string
	blockFlag := func(c *cobra.Command) *cobra.Command {
		c.Flags().StringVar(&block, "block", "latest", "block height or tag")
		return c
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get-params <block>",
			Short: "governance parameters at a block height",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := parseInt("block", args[0])
				if err != nil {
					return err
				}
				return a.run(cmd, func(ctx context.Context, c *client.Client) (any, error) {
					return pick(c).GetParams(ctx, n)
				})
			},
		},
		&cobra.Command{
			Use:   "syncing",
			Short: "report sync progress",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.run(cmd, func(ctx context.Context, c *client.Client) (any, error) {
					return pick(c).Syncing(ctx)
				})
			},
		},
		&cobra.Command{
			Use:   "block-number",
			Short: "latest block height",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.run(cmd, func(ctx context.Context, c *client.Client) (any, error) {
					return pick(c).BlockNumber(ctx)
				})
			},
		},
		blockFlag(&cobra.Command{
			Use:   "get-account <address>",
			Short: "account state at a block",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				bn, err := parseBlock(block)
				if err != nil {
					return err
				}
				return a.run(cmd, func(ctx context.Context, c *client.Client) (any, error) {
					return pick(c).GetAccount(ctx, args[0], bn)
				})
			},
		}),
		blockFlag(&cobra.Command{
			Use:   "get-council",
			Short: "council members at a block",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				bn, err := parseBlock(block)
				if err != nil {
					return err
				}
				return a.run(cmd, func(ctx context.Context, c *client.Client) (any, error) {
					return pick(c).GetCouncil(ctx, bn)
				})
			},
		}),
		blockFlag(&cobra.Command{
			Use:   "create-access-list <call-json>",
			Short: "access list a call would touch",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				bn, err := parseBlock(block)
				if err != nil {
					return err
				}
				var call types.CallObject
				if err := jsonAPI.Unmarshal([]byte(args[0]), &call); err != nil {
					return fmt.Errorf("call object: %w", err)
				}
				return a.run(cmd, func(ctx context.Context, c *client.Client) (any, error) {
					return pick(c).CreateAccessList(ctx, call, bn)
				})
			},
		}),
		&cobra.Command{
			Use:   "pending-transactions",
			Short: "transactions in the node's pool",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.run(cmd, func(ctx context.Context, c *client.Client) (any, error) {
					return pick(c).PendingTransactions(ctx)
				})
			},
		},
		&cobra.Command{
			Use:   "new-block-filter",
			Short: "install a new block filter",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.run(cmd, func(ctx context.Context, c *client.Client) (any, error) {
					return pick(c).NewBlockFilter(ctx)
				})
			},
		},
	)
	return cmd
}
