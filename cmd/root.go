// Package cmd is the kaiarpc command line: one subcommand per node
// namespace, printing results as JSON.
package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/minminkikiki/kaia-sdk/client"
	"github.com/minminkikiki/kaia-sdk/config"
	"github.com/minminkikiki/kaia-sdk/log"
	"github.com/minminkikiki/kaia-sdk/middleware"
	"github.com/minminkikiki/kaia-sdk/registry"
	"github.com/minminkikiki/kaia-sdk/types"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// app carries what the subcommands share.
type app struct {
	v       *viper.Viper
	node    string
	etcd    []string
	retries int
	timeout time.Duration
}

func NewRootCmd() *cobra.Command {
	_ = godotenv.Load()
	a := &app{v: config.NewViper()}

	cmd := &cobra.Command{
		Use:   "kaiarpc",
		Short: "Call a Kaia node over JSON-RPC",
		Long: `
Call a Kaia node over JSON-RPC.

The endpoint comes from --endpoint, KAIA_ENDPOINT, or a name registered in
etcd (--node with --etcd). Every other setting can also be given as a KAIA_*
environment variable or in a .env file.`,
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.String("endpoint", "", "node URL (http, https, ws or wss)")
	flags.String("transport", "", "http or ws; derived from the endpoint when empty")
	flags.Int64("timeout-ms", config.DefaultTimeoutMs, "per call timeout in milliseconds")
	flags.Bool("tls-verify", true, "verify the node's TLS certificate")
	flags.String("auth-token", "", "value of the auth header")
	flags.String("log-level", config.DefaultLogLevel, "debug, info, warn or error")
	flags.String("log-format", config.DefaultLogFormat, "json or plain")
	for key, flag := range map[string]string{
		"endpoint":   "endpoint",
		"transport":  "transport",
		"timeout_ms": "timeout-ms",
		"tls_verify": "tls-verify",
		"auth_token": "auth-token",
		"log_level":  "log-level",
		"log_format": "log-format",
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}
	flags.StringVar(&a.node, "node", "", "resolve the endpoint by name from etcd")
	flags.DurationVar(&a.timeout, "call-timeout", 0, "deadline for a whole call, retries included; 0 for none")
	flags.IntVar(&a.retries, "retries", 0, "retry timed out or refused calls this many times")
	flags.StringSliceVar(&a.etcd, "etcd", []string{"127.0.0.1:2379"}, "etcd endpoints for --node and the endpoints command")

	cmd.AddCommand(debugCmd(a))
	cmd.AddCommand(ethCmd(a))
	cmd.AddCommand(chainCmd(a, "klay"))
	cmd.AddCommand(chainCmd(a, "kaia"))
	cmd.AddCommand(personalCmd(a))
	cmd.AddCommand(adminCmd(a))
	cmd.AddCommand(governanceCmd(a))
	cmd.AddCommand(callCmd(a))
	cmd.AddCommand(endpointsCmd(a))

	return cmd
}

func (a *app) registry() (*registry.EtcdRegistry, error) {
	return registry.NewEtcdRegistry(a.etcd, 5*time.Second)
}

// client builds a Client from flags and environment. The caller closes it.
func (a *app) client(ctx context.Context) (*client.Client, error) {
	if a.node != "" {
		reg, err := a.registry()
		if err != nil {
			return nil, err
		}
		defer reg.Close()
		ep, err := reg.Resolve(ctx, a.node)
		if err != nil {
			return nil, err
		}
		a.v.Set("endpoint", ep.URL)
		if ep.Transport != "" {
			a.v.Set("transport", string(ep.Transport))
		}
	}

	cfg, err := config.FromViper(a.v)
	if err != nil {
		return nil, err
	}
	logger := log.NewLogger(cfg)
	opts := []client.Option{client.WithLogger(logger)}
	if a.timeout > 0 {
		opts = append(opts, client.WithMiddleware(middleware.Timeout(a.timeout)))
	}
	if a.retries > 0 {
		opts = append(opts, client.WithMiddleware(middleware.Retry(a.retries, 200*time.Millisecond, logger)))
	}
	return client.New(ctx, cfg, opts...)
}

// run opens a client, calls fn and prints its result.
func (a *app) run(cmd *cobra.Command, fn func(ctx context.Context, c *client.Client) (any, error)) error {
	ctx := commandContext(cmd)
	c, err := a.client(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	out, err := fn(ctx, c)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), out)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func printJSON(w io.Writer, v any) error {
	data, err := jsonAPI.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// parseBlock accepts a decimal or hex height or a block tag.
func parseBlock(s string) (types.BlockNumber, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("block %q must not be negative", s)
		}
		return types.BlockNumber(n), nil
	}
	var bn types.BlockNumber
	if err := bn.UnmarshalJSON([]byte(strconv.Quote(strings.ToLower(s)))); err != nil {
		return 0, fmt.Errorf("block %q: %w", s, err)
	}
	return bn, nil
}

func parseInt(name, s string) (int64, error) {
	n, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q is not an integer", name, s)
	}
	return n, nil
}
