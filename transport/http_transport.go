package transport

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/buger/jsonparser"
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

// HTTPTransport sends each request as its own POST. Every request goes
// through one fasthttp.HostClient, which keeps the node's connections alive
// between calls.
type HTTPTransport struct {
	client *fiber.Client
	host   *fasthttp.HostClient
	err    error
	opts   Options
	closed atomic.Bool
}

// idleConnDuration bounds how long an unused keep-alive connection stays open.
const idleConnDuration = 10 * time.Second

func NewHTTPTransport(opts Options) *HTTPTransport {
	t := &HTTPTransport{
		client: fiber.AcquireClient(),
		opts:   opts,
	}
	t.host, t.err = newHostClient(opts)
	return t
}

func newHostClient(opts Options) (*fasthttp.HostClient, error) {
	uri := fasthttp.AcquireURI()
	defer fasthttp.ReleaseURI(uri)
	if err := uri.Parse(nil, []byte(opts.URL)); err != nil {
		return nil, err
	}
	var isTLS bool
	switch scheme := string(uri.Scheme()); scheme {
	case "https":
		isTLS = true
	case "http":
	default:
		return nil, fmt.Errorf("unsupported scheme %q", scheme)
	}
	return &fasthttp.HostClient{
		Addr:                fasthttp.AddMissingPort(string(uri.Host()), isTLS),
		Name:                "kaia-sdk",
		IsTLS:               isTLS,
		TLSConfig:           opts.TLSConfig,
		MaxIdleConnDuration: idleConnDuration,
	}, nil
}

type httpResult struct {
	code int
	body []byte
	errs []error
}

func (t *HTTPTransport) RoundTrip(ctx context.Context, payload []byte) ([]byte, error) {
	if t.closed.Load() {
		return nil, &TransportError{Kind: ErrOther, Op: "send", URL: t.opts.URL, Cause: ErrClosed}
	}
	if t.err != nil {
		return nil, &TransportError{Kind: ErrOther, Op: "send", URL: t.opts.URL, Cause: t.err}
	}
	if err := ctx.Err(); err != nil {
		return nil, contextError("send", t.opts.URL, err)
	}
	timeout := effectiveTimeout(ctx, t.opts.timeout())
	if timeout <= 0 {
		return nil, contextError("send", t.opts.URL, context.DeadlineExceeded)
	}

	req := t.client.Post(t.opts.URL)
	req.HostClient = t.host
	req.Body(payload).ContentType(fiber.MIMEApplicationJSON)
	for key, value := range t.opts.Header {
		req.Set(key, value)
	}
	req.Timeout(timeout)

	// fasthttp has no context support; the caller is released on cancel and
	// the agent finishes on its own timeout.
	done := make(chan httpResult, 1)
	go func() {
		code, body, errs := req.Bytes()
		if t.closed.Load() {
			t.host.CloseIdleConnections()
		}
		done <- httpResult{code: code, body: body, errs: errs}
	}()

	var res httpResult
	select {
	case res = <-done:
	case <-ctx.Done():
		return nil, contextError("receive", t.opts.URL, ctx.Err())
	}

	if err := errors.Join(res.errs...); err != nil {
		return nil, newError("send", t.opts.URL, err)
	}
	if res.code == fiber.StatusOK {
		return res.body, nil
	}

	// Some nodes answer JSON-RPC errors with a non-200 status.
	if _, dataType, _, _ := jsonparser.Get(res.body, "jsonrpc"); dataType != jsonparser.NotExist {
		return res.body, nil
	}
	return nil, &TransportError{
		Kind:       ErrOther,
		Op:         "receive",
		URL:        t.opts.URL,
		StatusCode: res.code,
		Cause:      fmt.Errorf("body: %s", truncate(res.body, 256)),
	}
}

// Close closes idle connections. Calls still in flight finish, and their
// connections are closed when they turn idle.
func (t *HTTPTransport) Close() error {
	if !t.closed.CompareAndSwap(false, true) {
		return nil
	}
	if t.host != nil {
		t.host.CloseIdleConnections()
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
