package middleware

import (
	"context"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/minminkikiki/kaia-sdk/message"
)

// RateLimit holds calls back to r per second with the given burst. A call
// whose context ends while waiting fails with a TransportError.
func RateLimit(r float64, burst int) Middleware {
	limiter := rate.NewLimiter(rate.Limit(r), burst)
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *message.Request) (*message.Response, error) {
			if err := limiter.Wait(ctx); err != nil {
				return nil, waitError(ctx, "rate limit", err)
			}
			return next(ctx, req)
		}
	}
}

// MaxConcurrent lets at most n calls be in flight at once.
func MaxConcurrent(n int64) Middleware {
	sem := semaphore.NewWeighted(n)
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *message.Request) (*message.Response, error) {
			if err := sem.Acquire(ctx, 1); err != nil {
				return nil, waitError(ctx, "concurrency limit", err)
			}
			defer sem.Release(1)
			return next(ctx, req)
		}
	}
}
