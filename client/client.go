// Package client is the entry point of the SDK: a Client owns one node
// connection and exposes one typed client per node namespace.
//
//	c, err := client.New(ctx, config.Default("https://public-en.node.kaia.io"))
//	status, err := c.Klay.Syncing(ctx)
//
// Every call flows through the same pipeline:
//
//	namespace client (validate) → middleware chain → codec.EncodeRequest
//	  → transport.RoundTrip → codec.DecodeResponse → codec.Match → result
//
// A Client is safe for concurrent use. Request ids come from an atomic
// counter and are unique while outstanding. Nothing is retried and nothing
// is logged unless the caller installs middleware that does.
package client

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/minminkikiki/kaia-sdk/codec"
	"github.com/minminkikiki/kaia-sdk/config"
	"github.com/minminkikiki/kaia-sdk/message"
	"github.com/minminkikiki/kaia-sdk/metrics"
	"github.com/minminkikiki/kaia-sdk/middleware"
	"github.com/minminkikiki/kaia-sdk/protocol"
	"github.com/minminkikiki/kaia-sdk/transport"
)

type Client struct {
	Debug      DebugAPI
	Eth        EthAPI
	Klay       ChainAPI
	Kaia       ChainAPI
	Personal   PersonalAPI
	Admin      AdminAPI
	Governance GovernanceAPI

	transport   transport.Transport
	codec       codec.Codec
	middlewares []middleware.Middleware
	logger      *slog.Logger
	metrics     *metrics.RPCMetrics
	handler     middleware.HandlerFunc
	seq         atomic.Int64
}

type Option func(*Client)

// WithMiddleware appends caller middlewares. They run outside the ones
// derived from the config, in the order given.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(c *Client) {
		c.middlewares = append(c.middlewares, mws...)
	}
}

func WithCodec(cdc codec.Codec) Option {
	return func(c *Client) {
		c.codec = cdc
	}
}

// WithLogger installs the logging middleware.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics installs the metrics middleware. Registering m is up to the
// caller.
func WithMetrics(m *metrics.RPCMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// New validates cfg, builds its transport (dialing when it is a websocket)
// and returns a ready Client.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	kind, err := cfg.TransportKind()
	if err != nil {
		return nil, err
	}
	topts, err := cfg.TransportOptions()
	if err != nil {
		return nil, err
	}
	t, err := transport.New(ctx, kind, topts)
	if err != nil {
		return nil, err
	}
	return build(t, cfg, opts), nil
}

// NewWithTransport wraps an existing transport. No config-derived
// middleware is installed.
func NewWithTransport(t transport.Transport, opts ...Option) *Client {
	return build(t, nil, opts)
}

func build(t transport.Transport, cfg *config.Config, opts []Option) *Client {
	c := &Client{
		transport: t,
		codec:     &codec.JSONCodec{},
	}
	for _, opt := range opts {
		opt(c)
	}

	mws := append([]middleware.Middleware(nil), c.middlewares...)
	if c.logger != nil {
		mws = append(mws, middleware.Logging(c.logger))
	}
	if c.metrics != nil {
		mws = append(mws, middleware.Metrics(c.metrics))
	}
	if cfg != nil {
		if cfg.CacheSize > 0 {
			mws = append(mws, middleware.Cache(cfg.CacheSize, middleware.DefaultCacheableMethods, c.metrics))
		}
		if cfg.RateLimit > 0 {
			burst := cfg.RateBurst
			if burst == 0 {
				burst = 1
			}
			mws = append(mws, middleware.RateLimit(cfg.RateLimit, burst))
		}
		if cfg.MaxConcurrent > 0 {
			mws = append(mws, middleware.MaxConcurrent(cfg.MaxConcurrent))
		}
	}
	c.handler = middleware.Chain(mws...)(c.roundTrip)

	c.Debug = &debugClient{c}
	c.Eth = &ethClient{c}
	c.Klay = &chainClient{c: c, ns: protocol.Klay}
	c.Kaia = &chainClient{c: c, ns: protocol.Kaia}
	c.Personal = &personalClient{c}
	c.Admin = &adminClient{c}
	c.Governance = &governanceClient{c}
	return c
}

// Call invokes any method by its wire name and decodes the result into
// result, which may be nil or a *json.RawMessage.
func (c *Client) Call(ctx context.Context, result any, method string, params ...any) error {
	return c.CallWithID(ctx, message.NumberID(c.seq.Add(1)), result, method, params...)
}

// CallWithID is Call with a caller-chosen id. The caller keeps it unique
// among its outstanding calls.
func (c *Client) CallWithID(ctx context.Context, id message.ID, result any, method string, params ...any) error {
	if _, _, err := protocol.SplitMethod(method); err != nil {
		return &codec.EncodingError{Method: method, Param: -1, Reason: "invalid method name", Cause: err}
	}
	if !id.Valid() {
		return &codec.EncodingError{Method: method, Param: -1, Reason: "request id is required"}
	}

	resp, err := c.handler(ctx, message.NewRequest(id, method, params...))
	if err != nil {
		return err
	}
	if err := codec.ResponseError(resp); err != nil {
		return err
	}
	return codec.DecodeResult(resp, result)
}

// roundTrip is the innermost handler.
func (c *Client) roundTrip(ctx context.Context, req *message.Request) (*message.Response, error) {
	payload, err := c.codec.EncodeRequest(req)
	if err != nil {
		return nil, err
	}
	data, err := c.transport.RoundTrip(ctx, payload)
	if err != nil {
		return nil, err
	}
	resp, err := c.codec.DecodeResponse(data)
	if err != nil {
		return nil, err
	}
	if err := codec.Match(req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Close releases the transport. Pending websocket calls fail.
func (c *Client) Close() error {
	return c.transport.Close()
}
