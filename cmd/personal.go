package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/minminkikiki/kaia-sdk/client"
)

func personalCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "personal",
		Short: "personal namespace: node-held accounts",
	}
	a.v.SetDefault("passphrase", "")

	var seconds int64
	unlock := &cobra.Command{
		Use:   "unlock-account <address>",
		Short: "unlock an account held by the node",
		Long: `
Unlock an account held by the node. The passphrase is read from
--passphrase or KAIA_PASSPHRASE.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pass := a.v.GetString("passphrase")
			if pass == "" {
				return fmt.Errorf("passphrase is required")
			}
			return a.run(cmd, func(ctx context.Context, c *client.Client) (any, error) {
				return c.Personal.UnlockAccount(ctx, args[0], pass, seconds)
			})
		},
	}
	unlock.Flags().String("passphrase", "", "account passphrase")
	unlock.Flags().Int64Var(&seconds, "duration", 300, "seconds to stay unlocked, 0 for until locked")
	_ = a.v.BindPFlag("passphrase", unlock.Flags().Lookup("passphrase"))

	cmd.AddCommand(
		unlock,
		&cobra.Command{
			Use:   "lock-account <address>",
			Short: "lock an unlocked account",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.run(cmd, func(ctx context.Context, c *client.Client) (any, error) {
					return c.Personal.LockAccount(ctx, args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "list-accounts",
			Short: "accounts held by the node",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.run(cmd, func(ctx context.Context, c *client.Client) (any, error) {
					return c.Personal.ListAccounts(ctx)
				})
			},
		},
	)
	return cmd
}
