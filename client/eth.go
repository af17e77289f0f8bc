package client

import (
	"context"
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/minminkikiki/kaia-sdk/codec"
	"github.com/minminkikiki/kaia-sdk/protocol"
	"github.com/minminkikiki/kaia-sdk/types"
)

// EthAPI is the Ethereum-compatible namespace.
type EthAPI interface {
	NewBlockFilter(ctx context.Context) (types.FilterID, error)
	NewPendingTransactionFilter(ctx context.Context) (types.FilterID, error)
	GetFilterChanges(ctx context.Context, id types.FilterID) ([]json.RawMessage, error)
	UninstallFilter(ctx context.Context, id types.FilterID) (bool, error)
	Syncing(ctx context.Context) (*types.SyncStatus, error)
	BlockNumber(ctx context.Context) (uint64, error)
	ChainID(ctx context.Context) (*big.Int, error)
}

type ethClient struct {
	c *Client
}

func (e *ethClient) NewBlockFilter(ctx context.Context) (types.FilterID, error) {
	return newFilter(ctx, e.c, protocol.Eth.Method("newBlockFilter"))
}

func (e *ethClient) NewPendingTransactionFilter(ctx context.Context) (types.FilterID, error) {
	return newFilter(ctx, e.c, protocol.Eth.Method("newPendingTransactionFilter"))
}

// GetFilterChanges returns what happened since the last poll: block hashes,
// transaction hashes or logs depending on the filter kind.
func (e *ethClient) GetFilterChanges(ctx context.Context, id types.FilterID) ([]json.RawMessage, error) {
	method := protocol.Eth.Method("getFilterChanges")
	if err := id.Validate(); err != nil {
		return nil, codec.InvalidParam(method, 0, "id", err.Error())
	}
	var out []json.RawMessage
	if err := e.c.Call(ctx, &out, method, id); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *ethClient) UninstallFilter(ctx context.Context, id types.FilterID) (bool, error) {
	method := protocol.Eth.Method("uninstallFilter")
	if err := id.Validate(); err != nil {
		return false, codec.InvalidParam(method, 0, "id", err.Error())
	}
	var ok bool
	err := e.c.Call(ctx, &ok, method, id)
	return ok, err
}

func (e *ethClient) Syncing(ctx context.Context) (*types.SyncStatus, error) {
	return syncing(ctx, e.c, protocol.Eth.Method("syncing"))
}

func (e *ethClient) BlockNumber(ctx context.Context) (uint64, error) {
	return blockNumber(ctx, e.c, protocol.Eth.Method("blockNumber"))
}

func (e *ethClient) ChainID(ctx context.Context) (*big.Int, error) {
	var id hexutil.Big
	if err := e.c.Call(ctx, &id, protocol.Eth.Method("chainId")); err != nil {
		return nil, err
	}
	return id.ToInt(), nil
}

// Helpers shared by the namespaces that expose the same method.

func newFilter(ctx context.Context, c *Client, method string) (types.FilterID, error) {
	var id types.FilterID
	if err := c.Call(ctx, &id, method); err != nil {
		return "", err
	}
	return id, nil
}

func syncing(ctx context.Context, c *Client, method string) (*types.SyncStatus, error) {
	var status types.SyncStatus
	if err := c.Call(ctx, &status, method); err != nil {
		return nil, err
	}
	return &status, nil
}

func blockNumber(ctx context.Context, c *Client, method string) (uint64, error) {
	var n hexutil.Uint64
	if err := c.Call(ctx, &n, method); err != nil {
		return 0, err
	}
	return uint64(n), nil
}
