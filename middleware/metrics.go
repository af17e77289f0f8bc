package middleware

import (
	"context"
	"time"

	"github.com/minminkikiki/kaia-sdk/message"
	"github.com/minminkikiki/kaia-sdk/metrics"
)

// Metrics records count, latency and in-flight calls.
func Metrics(m *metrics.RPCMetrics) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *message.Request) (*message.Response, error) {
			start := time.Now()
			m.InFlight.Inc()
			defer m.InFlight.Dec()

			resp, err := next(ctx, req)
			m.Latency.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())
			m.RequestsTotal.WithLabelValues(req.Method, Outcome(resp, err)).Inc()
			return resp, err
		}
	}
}
