package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/minminkikiki/kaia-sdk/message"
	"github.com/minminkikiki/kaia-sdk/transport"
)

// Retry re-sends a call that failed with a timeout or a refused connection,
// waiting baseDelay, 2*baseDelay, 4*baseDelay... in between. Other failures
// and node-reported errors are returned at once. A nil logger is silent.
func Retry(maxRetries int, baseDelay time.Duration, logger *slog.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *message.Request) (*message.Response, error) {
			resp, err := next(ctx, req)
			for i := 0; i < maxRetries && retryable(err); i++ {
				if logger != nil {
					logger.InfoContext(ctx, "retrying rpc call",
						slog.String("method", req.Method), slog.Int("attempt", i+1), slog.Any("error", err))
				}
				select {
				case <-time.After(baseDelay * time.Duration(1<<i)):
				case <-ctx.Done():
					return resp, err
				}
				resp, err = next(ctx, req)
			}
			return resp, err
		}
	}
}

func retryable(err error) bool {
	var te *transport.TransportError
	if !errors.As(err, &te) {
		return false
	}
	return te.Kind == transport.ErrTimeout || te.Kind == transport.ErrConnectionRefused
}
