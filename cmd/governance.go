package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/minminkikiki/kaia-sdk/client"
)

func governanceCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "governance",
		Short: "governance namespace",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "idx-cache",
			Short: "block heights with governance changes, from memory",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.run(cmd, func(ctx context.Context, c *client.Client) (any, error) {
					return c.Governance.IdxCache(ctx)
				})
			},
		},
		&cobra.Command{
			Use:   "idx-cache-from-db",
			Short: "block heights with governance changes, from the database",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.run(cmd, func(ctx context.Context, c *client.Client) (any, error) {
					return c.Governance.IdxCacheFromDb(ctx)
				})
			},
		},
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
					return c.Governance.GetParams(ctx, n)
				})
			},
		},
	)
	return cmd
}
