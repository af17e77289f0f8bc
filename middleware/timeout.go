package middleware

import (
	"context"
	"time"

	"github.com/minminkikiki/kaia-sdk/message"
	"github.com/minminkikiki/kaia-sdk/transport"
)

type callResult struct {
	resp *message.Response
	err  error
}

// Timeout bounds a whole call, including time spent waiting in inner
// middlewares. The inner call keeps the derived context and stops on its own.
func Timeout(timeout time.Duration) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *message.Request) (*message.Response, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			done := make(chan callResult, 1)
			go func() {
				resp, err := next(ctx, req)
				done <- callResult{resp, err}
			}()

			select {
			case res := <-done:
				return res.resp, res.err
			case <-ctx.Done():
				return nil, &transport.TransportError{
					Kind:  transport.ErrTimeout,
					Op:    "call " + req.Method,
					Cause: ctx.Err(),
				}
			}
		}
	}
}
