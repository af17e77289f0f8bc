package cmd

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/minminkikiki/kaia-sdk/client"
)

func callCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "call <method> [param...]",
		Short: "call any method",
		Long: `
Call any method by its full name, e.g. "klay_blockNumber". Each param is
sent as JSON when it parses as JSON, otherwise as a string.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := make([]any, 0, len(args)-1)
			for _, arg := range args[1:] {
				params = append(params, rawParam(arg))
			}
			return a.run(cmd, func(ctx context.Context, c *client.Client) (any, error) {
				var result json.RawMessage
				if err := c.Call(ctx, &result, args[0], params...); err != nil {
					return nil, err
				}
				return result, nil
			})
		},
	}
}

func rawParam(arg string) any {
	if jsonAPI.Valid([]byte(arg)) {
		return json.RawMessage(arg)
	}
	return arg
}
