package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/minminkikiki/kaia-sdk/client"
)

func adminCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "admin namespace: spam throttler",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "whitelist",
			Short: "addresses exempt from spam throttling",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.run(cmd, func(ctx context.Context, c *client.Client) (any, error) {
					return c.Admin.GetSpamThrottlerWhiteList(ctx)
				})
			},
		},
		&cobra.Command{
			Use:   "candidates",
			Short: "addresses the spam throttler is tracking",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.run(cmd, func(ctx context.Context, c *client.Client) (any, error) {
					return c.Admin.GetSpamThrottlerCandidateList(ctx)
				})
			},
		},
	)
	return cmd
}
