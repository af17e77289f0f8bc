package registry

import (
	"context"
	"errors"

	"github.com/minminkikiki/kaia-sdk/config"
	"github.com/minminkikiki/kaia-sdk/transport"
)

// ErrNotFound is returned by Resolve for a name nobody registered.
var ErrNotFound = errors.New("endpoint not registered")

// Endpoint is a named Kaia node, e.g. "kairos" → https://public-en-kairos.node.kaia.io.
type Endpoint struct {
	Name      string         `json:"name"`
	URL       string         `json:"url"`
	Transport transport.Kind `json:"transport,omitempty"`
	ChainID   uint64         `json:"chainId,omitempty"`
}

// Config returns a default client config for the endpoint.
func (e Endpoint) Config() *config.Config {
	cfg := config.Default(e.URL)
	cfg.Transport = e.Transport
	return cfg
}

// Registry is a directory of node endpoints shared between processes.
type Registry interface {
	Register(ctx context.Context, ep Endpoint, ttl int64) error
	Deregister(ctx context.Context, name string) error
	Resolve(ctx context.Context, name string) (Endpoint, error)
	List(ctx context.Context) ([]Endpoint, error)
	Watch(ctx context.Context, name string) <-chan Endpoint
	Close() error
}
