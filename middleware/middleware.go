// Package middleware wraps a client call in interceptors.
//
// Chain(A, B, C)(call) builds the onion A(B(C(call))):
//
//	A.before → B.before → C.before → call → C.after → B.after → A.after
//
// The innermost HandlerFunc encodes the request, performs the exchange and
// decodes the response. A node-reported error travels back as a Response
// with Error set and a nil error; a non-nil error means no usable response
// exists.
package middleware

import (
	"context"
	"errors"

	"github.com/minminkikiki/kaia-sdk/codec"
	"github.com/minminkikiki/kaia-sdk/message"
	"github.com/minminkikiki/kaia-sdk/metrics"
	"github.com/minminkikiki/kaia-sdk/transport"
)

type HandlerFunc func(ctx context.Context, req *message.Request) (*message.Response, error)

type Middleware func(next HandlerFunc) HandlerFunc

// Chain composes middlewares so that the first one is the outermost.
func Chain(middlewares ...Middleware) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}

// Outcome classifies the result of a call for logs and metrics.
func Outcome(resp *message.Response, err error) string {
	var (
		te     *transport.TransportError
		decErr *codec.DecodingError
		encErr *codec.EncodingError
	)
	switch {
	case err == nil && resp != nil && resp.Error != nil:
		return metrics.OutcomeRPCError
	case err == nil:
		return metrics.OutcomeSuccess
	case transport.IsTimeout(err), errors.Is(err, context.DeadlineExceeded):
		return metrics.OutcomeTimeout
	case errors.As(err, &te):
		return metrics.OutcomeTransportError
	case errors.As(err, &decErr):
		return metrics.OutcomeDecodingError
	case errors.As(err, &encErr):
		return metrics.OutcomeEncodingError
	}
	if _, ok := codec.IsRPCError(err); ok {
		return metrics.OutcomeRPCError
	}
	return metrics.OutcomeTransportError
}

// waitError turns a failed wait for a local resource into a TransportError.
func waitError(ctx context.Context, op string, err error) error {
	kind := transport.ErrTimeout
	if errors.Is(ctx.Err(), context.Canceled) {
		kind = transport.ErrOther
	}
	return &transport.TransportError{Kind: kind, Op: op, Cause: err}
}
