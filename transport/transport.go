// Package transport moves encoded JSON-RPC requests to a Kaia node and brings
// back the raw response bytes.
//
// Two transports exist. HTTP performs one POST per call and shares nothing
// between calls but the fiber client. WebSocket multiplexes every call over a
// single connection:
//
//	goroutine-1 ──RoundTrip(id=1)──┐
//	goroutine-2 ──RoundTrip(id=2)──┼──→ one websocket conn ──→ node
//	goroutine-3 ──RoundTrip(id=3)──┘
//
//	recvLoop: ←── {"id":2,...} → pending["n:2"] → goroutine-2 wakes up
//
// Neither transport retries. Failures below the JSON-RPC layer are reported
// as *TransportError.
package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"
)

// Kind selects the transport implementation.
type Kind string

const (
	HTTP      Kind = "http"
	WebSocket Kind = "ws"
)

const (
	DefaultTimeout      = 30 * time.Second
	DefaultPingInterval = 30 * time.Second
)

// Transport performs one request/response exchange. Implementations are safe
// for concurrent use.
type Transport interface {
	RoundTrip(ctx context.Context, payload []byte) ([]byte, error)
	Close() error
}

type Options struct {
	URL       string
	Timeout   time.Duration // per exchange; 0 means DefaultTimeout
	TLSConfig *tls.Config   // nil uses the system roots
	Header    map[string]string

	// PingInterval is the websocket keepalive period; 0 means
	// DefaultPingInterval and a negative value disables pings.
	PingInterval time.Duration
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}

// New builds the transport for kind. WebSocket transports dial immediately.
func New(ctx context.Context, kind Kind, opts Options) (Transport, error) {
	switch kind {
	case HTTP:
		return NewHTTPTransport(opts), nil
	case WebSocket:
		return DialWebSocket(ctx, opts)
	default:
		return nil, fmt.Errorf("unknown transport kind %q", kind)
	}
}

// effectiveTimeout is the smaller of the configured timeout and the time
// left before the context deadline.
func effectiveTimeout(ctx context.Context, configured time.Duration) time.Duration {
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < configured {
			if left < 0 {
				return 0
			}
			return left
		}
	}
	return configured
}
