// Package registry keeps a directory of named Kaia node endpoints in etcd, so
// that tools resolve "kairos" or "mainnet-archive" instead of hard-coding URLs.
//
//	Key:   /kaia-sdk/endpoints/{Name}
//	Value: JSON-encoded Endpoint
//
// Entries may carry a TTL lease: if the publisher goes away, the lease
// expires and the entry disappears.
package registry

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	clientv3 "go.etcd.io/etcd/client/v3"
)

const keyPrefix = "/kaia-sdk/endpoints/"

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// EtcdRegistry implements Registry on etcd v3.
type EtcdRegistry struct {
	client *clientv3.Client // safe for concurrent use
}

// NewEtcdRegistry creates a registry connected to the given etcd endpoints.
func NewEtcdRegistry(endpoints []string, dialTimeout time.Duration) (*EtcdRegistry, error) {
	c, err := clientv3.New(clientv3.Config{
		Endpoints:   endpoints,
		DialTimeout: dialTimeout,
	})
	if err != nil {
		return nil, err
	}
	return &EtcdRegistry{client: c}, nil
}

func key(name string) string {
	return keyPrefix + name
}

// Register stores ep under its name. With ttl > 0 the entry is bound to a
// lease that is renewed until ctx ends; ttl <= 0 stores it permanently.
func (r *EtcdRegistry) Register(ctx context.Context, ep Endpoint, ttl int64) error {
	if ep.Name == "" || ep.URL == "" {
		return fmt.Errorf("register endpoint: name and url are required")
	}
	if err := ep.Config().Validate(); err != nil {
		return fmt.Errorf("register endpoint %s: %w", ep.Name, err)
	}
	val, err := jsonAPI.Marshal(ep)
	if err != nil {
		return err
	}

	if ttl <= 0 {
		_, err = r.client.Put(ctx, key(ep.Name), string(val))
		return err
	}

	lease, err := r.client.Grant(ctx, ttl)
	if err != nil {
		return err
	}
	if _, err := r.client.Put(ctx, key(ep.Name), string(val), clientv3.WithLease(lease.ID)); err != nil {
		return err
	}

	// leaseID stays local so one registry can publish many endpoints.
	ch, err := r.client.KeepAlive(ctx, lease.ID)
	if err != nil {
		return err
	}
	go func() {
		for range ch {
		}
	}()
	return nil
}

func (r *EtcdRegistry) Deregister(ctx context.Context, name string) error {
	_, err := r.client.Delete(ctx, key(name))
	return err
}

func (r *EtcdRegistry) Resolve(ctx context.Context, name string) (Endpoint, error) {
	resp, err := r.client.Get(ctx, key(name))
	if err != nil {
		return Endpoint{}, err
	}
	if len(resp.Kvs) == 0 {
		return Endpoint{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	var ep Endpoint
	if err := jsonAPI.Unmarshal(resp.Kvs[0].Value, &ep); err != nil {
		return Endpoint{}, fmt.Errorf("endpoint %s: %w", name, err)
	}
	return ep, nil
}

// List returns every registered endpoint ordered by name. Malformed entries
// are skipped.
func (r *EtcdRegistry) List(ctx context.Context) ([]Endpoint, error) {
	resp, err := r.client.Get(ctx, keyPrefix, clientv3.WithPrefix(), clientv3.WithSort(clientv3.SortByKey, clientv3.SortAscend))
	if err != nil {
		return nil, err
	}
	endpoints := make([]Endpoint, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		var ep Endpoint
		if err := jsonAPI.Unmarshal(kv.Value, &ep); err != nil {
			continue
		}
		endpoints = append(endpoints, ep)
	}
	return endpoints, nil
}

// Watch emits the endpoint registered under name each time it is put. A
// deletion emits the zero Endpoint. The channel closes when ctx ends.
func (r *EtcdRegistry) Watch(ctx context.Context, name string) <-chan Endpoint {
	ch := make(chan Endpoint, 1)
	go func() {
		defer close(ch)
		for wresp := range r.client.Watch(ctx, key(name)) {
			for _, ev := range wresp.Events {
				var ep Endpoint
				if ev.Type == clientv3.EventTypePut {
					if err := jsonAPI.Unmarshal(ev.Kv.Value, &ep); err != nil {
						continue
					}
				}
				select {
				case ch <- ep:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch
}

func (r *EtcdRegistry) Close() error {
	return r.client.Close()
}
