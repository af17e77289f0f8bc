package middleware

import (
	"bytes"
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	jsoniter "github.com/json-iterator/go"

	"github.com/minminkikiki/kaia-sdk/message"
	"github.com/minminkikiki/kaia-sdk/metrics"
)

// DefaultCacheableMethods answer the same way forever for a fixed block.
var DefaultCacheableMethods = []string{
	"klay_getParams",
	"kaia_getParams",
	"governance_getParams",
	"klay_getCouncil",
	"kaia_getCouncil",
}

// Block tags whose meaning moves with the chain head.
var movingTags = [][]byte{
	[]byte(`"latest"`),
	[]byte(`"pending"`),
	[]byte(`"safe"`),
	[]byte(`"finalized"`),
}

// Cache keeps the results of the listed methods in an LRU of the given size.
// A call is cached only when it has parameters and none of them is a moving
// block tag. Node-reported errors are never cached. hits may be nil.
func Cache(size int, methods []string, hits *metrics.RPCMetrics) Middleware {
	store, err := lru.New[string, *message.Response](size)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize response cache: %s", err.Error()))
	}
	cacheable := make(map[string]bool, len(methods))
	for _, m := range methods {
		cacheable[m] = true
	}

	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *message.Request) (*message.Response, error) {
			if !cacheable[req.Method] {
				return next(ctx, req)
			}
			key, ok := cacheKey(req)
			if !ok {
				return next(ctx, req)
			}

			if cached, found := store.Get(key); found {
				if hits != nil {
					hits.CacheHits.WithLabelValues(req.Method).Inc()
				}
				resp := *cached
				resp.ID = req.ID
				return &resp, nil
			}

			resp, err := next(ctx, req)
			if err == nil && resp.Error == nil {
				stored := *resp
				stored.Result = append([]byte(nil), resp.Result...)
				store.Add(key, &stored)
			}
			return resp, err
		}
	}
}

func cacheKey(req *message.Request) (string, bool) {
	if len(req.Params) == 0 {
		return "", false
	}
	params, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(req.Params)
	if err != nil {
		return "", false
	}
	for _, tag := range movingTags {
		if bytes.Contains(params, tag) {
			return "", false
		}
	}
	return req.Method + string(params), true
}
