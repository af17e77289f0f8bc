package client

import (
	"context"

	"github.com/minminkikiki/kaia-sdk/protocol"
	"github.com/minminkikiki/kaia-sdk/types"
)

// GovernanceAPI reads the node's governance state.
type GovernanceAPI interface {
	// IdxCache lists the block numbers whose parameter changes are cached in
	// memory.
	IdxCache(ctx context.Context) ([]uint64, error)
	// IdxCacheFromDb is IdxCache as persisted in the node's database.
	IdxCacheFromDb(ctx context.Context) ([]uint64, error)
	GetParams(ctx context.Context, blockNumber int64) (types.Params, error)
}

type governanceClient struct {
	c *Client
}

func (g *governanceClient) IdxCache(ctx context.Context) ([]uint64, error) {
	return g.blocks(ctx, "idxCache")
}

func (g *governanceClient) IdxCacheFromDb(ctx context.Context) ([]uint64, error) {
	return g.blocks(ctx, "idxCacheFromDb")
}

func (g *governanceClient) GetParams(ctx context.Context, blockNumber int64) (types.Params, error) {
	return getParams(ctx, g.c, protocol.Governance.Method("getParams"), blockNumber)
}

func (g *governanceClient) blocks(ctx context.Context, name string) ([]uint64, error) {
	var blocks []uint64
	if err := g.c.Call(ctx, &blocks, protocol.Governance.Method(name)); err != nil {
		return nil, err
	}
	return blocks, nil
}
