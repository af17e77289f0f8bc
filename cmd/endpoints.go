package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/minminkikiki/kaia-sdk/registry"
	"github.com/minminkikiki/kaia-sdk/transport"
)

func endpointsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "endpoints",
		Short: "manage named node endpoints in etcd",
	}

	withRegistry := func(cmd *cobra.Command, fn func(ctx context.Context, r registry.Registry) (any, error)) error {
		ctx := commandContext(cmd)
		r, err := a.registry()
		if err != nil {
			return err
		}
		defer r.Close()
		out, err := fn(ctx, r)
		if err != nil {
			return err
		}
		if out == nil {
			return nil
		}
		return printJSON(cmd.OutOrStdout(), out)
	}

	var (
		kind    string
		chainID uint64
		ttl     int64
	)
	register := &cobra.Command{
		Use:   "register <name> <url>",
		Short: "register or replace a named endpoint",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ep := registry.Endpoint{
				Name:      args[0],
				URL:       args[1],
				Transport: transport.Kind(kind),
				ChainID:   chainID,
			}
			if err := ep.Config().Validate(); err != nil {
				return fmt.Errorf("endpoint %s: %w", ep.Name, err)
			}
			return withRegistry(cmd, func(ctx context.Context, r registry.Registry) (any, error) {
				return ep, r.Register(ctx, ep, ttl)
			})
		},
	}
	register.Flags().StringVar(&kind, "transport", "", "http or ws; derived from the URL when empty")
	register.Flags().Uint64Var(&chainID, "chain-id", 0, "chain id served by the endpoint")
	register.Flags().Int64Var(&ttl, "ttl", 0, "lease seconds; 0 registers permanently")

	cmd.AddCommand(
		register,
		&cobra.Command{
			Use:   "list",
			Short: "list registered endpoints",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withRegistry(cmd, func(ctx context.Context, r registry.Registry) (any, error) {
					return r.List(ctx)
				})
			},
		},
		&cobra.Command{
			Use:   "watch <name>",
			Short: "print a named endpoint each time it changes",
			Long: `
Print a named endpoint each time it is registered or replaced, one JSON
object per change, until interrupted. A removal prints the empty endpoint.`,
			Args: cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
				defer stop()
				return withRegistry(cmd, func(_ context.Context, r registry.Registry) (any, error) {
					for ep := range r.Watch(ctx, args[0]) {
						if err := printJSON(cmd.OutOrStdout(), ep); err != nil {
							return nil, err
						}
					}
					return nil, nil
				})
			},
		},
		&cobra.Command{
			Use:   "remove <name>",
			Short: "remove a named endpoint",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withRegistry(cmd, func(ctx context.Context, r registry.Registry) (any, error) {
					return nil, r.Deregister(ctx, args[0])
				})
			},
		},
	)
	return cmd
}
