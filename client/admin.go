package client

import (
	"context"

	"github.com/minminkikiki/kaia-sdk/protocol"
)

// AdminAPI exposes the node's spam throttler state. Entries are IP
// addresses or CIDR ranges.
type AdminAPI interface {
	GetSpamThrottlerWhiteList(ctx context.Context) ([]string, error)
	// GetSpamThrottlerCandidateList maps each candidate IP to the number of
	// failed transactions seen from it.
	GetSpamThrottlerCandidateList(ctx context.Context) (map[string]int, error)
}

type adminClient struct {
	c *Client
}

func (a *adminClient) GetSpamThrottlerWhiteList(ctx context.Context) ([]string, error) {
	var list []string
	if err := a.c.Call(ctx, &list, protocol.Admin.Method("getSpamThrottlerWhiteList")); err != nil {
		return nil, err
	}
	return list, nil
}

func (a *adminClient) GetSpamThrottlerCandidateList(ctx context.Context) (map[string]int, error) {
	var candidates map[string]int
	if err := a.c.Call(ctx, &candidates, protocol.Admin.Method("getSpamThrottlerCandidateList")); err != nil {
		return nil, err
	}
	return candidates, nil
}
