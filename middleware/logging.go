package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/minminkikiki/kaia-sdk/message"
)

// Logging logs every call: debug on success, warn on failure.
func Logging(logger *slog.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *message.Request) (*message.Response, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			attrs := []any{
				slog.String("method", req.Method),
				slog.String("id", req.ID.String()),
				slog.Duration("duration", time.Since(start)),
				slog.String("outcome", Outcome(resp, err)),
			}
			switch {
			case err != nil:
				logger.WarnContext(ctx, "rpc call failed", append(attrs, slog.Any("error", err))...)
			case resp.Error != nil:
				logger.WarnContext(ctx, "rpc error response",
					append(attrs, slog.Int("code", resp.Error.Code), slog.String("message", resp.Error.Message))...)
			default:
				logger.DebugContext(ctx, "rpc call", attrs...)
			}
			return resp, err
		}
	}
}
