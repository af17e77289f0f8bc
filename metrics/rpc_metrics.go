// Package metrics holds the Prometheus metrics recorded by the client's
// metrics middleware. Nothing is registered globally; callers register a
// group with the registry they expose.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var LatencyBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// Outcome label values.
const (
	OutcomeSuccess        = "success"
	OutcomeRPCError       = "rpc_error"
	OutcomeTimeout        = "timeout"
	OutcomeTransportError = "transport_error"
	OutcomeDecodingError  = "decoding_error"
	OutcomeEncodingError  = "encoding_error"
)

// RPCMetrics groups node call metrics
type RPCMetrics struct {
	RequestsTotal *prometheus.CounterVec
	Latency       *prometheus.HistogramVec
	InFlight      prometheus.Gauge
	CacheHits     *prometheus.CounterVec
}

// NewRPCMetrics creates and returns node call metrics
func NewRPCMetrics() *RPCMetrics {
	return &RPCMetrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kaia_sdk_rpc_requests_total",
				Help: "Total number of JSON-RPC calls by method and outcome",
			},
			[]string{"method", "outcome"},
		),
		Latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kaia_sdk_rpc_latency_seconds",
				Help:    "JSON-RPC call latency in seconds",
				Buckets: LatencyBuckets,
			},
			[]string{"method"},
		),
		InFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "kaia_sdk_rpc_in_flight",
				Help: "Number of JSON-RPC calls waiting for a response",
			},
		),
		CacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kaia_sdk_rpc_cache_hits_total",
				Help: "Total number of calls answered from the response cache",
			},
			[]string{"method"},
		),
	}
}

// Register registers all node call metrics with the given registry
func (m *RPCMetrics) Register(reg prometheus.Registerer) {
	reg.MustRegister(
		m.RequestsTotal,
		m.Latency,
		m.InFlight,
		m.CacheHits,
	)
}
