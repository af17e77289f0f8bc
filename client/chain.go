package client

import (
	"context"
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/minminkikiki/kaia-sdk/protocol"
	"github.com/minminkikiki/kaia-sdk/types"
)

// ChainAPI is the Kaia chain namespace. The node serves the same methods
// under both the legacy "klay" prefix and the current "kaia" prefix.
type ChainAPI interface {
	// GetParams returns the governance parameters in force at blockNumber.
	GetParams(ctx context.Context, blockNumber int64) (types.Params, error)
	Syncing(ctx context.Context) (*types.SyncStatus, error)
	BlockNumber(ctx context.Context) (uint64, error)
	GetAccount(ctx context.Context, address string, block types.BlockNumber) (*types.Account, error)
	GetCouncil(ctx context.Context, block types.BlockNumber) ([]common.Address, error)
	CreateAccessList(ctx context.Context, call types.CallObject, block types.BlockNumber) (*types.AccessListResult, error)
	PendingTransactions(ctx context.Context) ([]json.RawMessage, error)
	NewBlockFilter(ctx context.Context) (types.FilterID, error)
}

type chainClient struct {
	c  *Client
	ns protocol.Namespace
}

func (k *chainClient) GetParams(ctx context.Context, blockNumber int64) (types.Params, error) {
	return getParams(ctx, k.c, k.ns.Method("getParams"), blockNumber)
}

func (k *chainClient) Syncing(ctx context.Context) (*types.SyncStatus, error) {
	return syncing(ctx, k.c, k.ns.Method("syncing"))
}

func (k *chainClient) BlockNumber(ctx context.Context) (uint64, error) {
	return blockNumber(ctx, k.c, k.ns.Method("blockNumber"))
}

func (k *chainClient) GetAccount(ctx context.Context, address string, block types.BlockNumber) (*types.Account, error) {
	method := k.ns.Method("getAccount")
	addr, err := requireAddress(method, 0, "address", address)
	if err != nil {
		return nil, err
	}
	if err := requireBlock(method, 1, block); err != nil {
		return nil, err
	}
	var account types.Account
	if err := k.c.Call(ctx, &account, method, addr, block); err != nil {
		return nil, err
	}
	return &account, nil
}

func (k *chainClient) GetCouncil(ctx context.Context, block types.BlockNumber) ([]common.Address, error) {
	method := k.ns.Method("getCouncil")
	if err := requireBlock(method, 0, block); err != nil {
		return nil, err
	}
	var council []common.Address
	if err := k.c.Call(ctx, &council, method, block); err != nil {
		return nil, err
	}
	return council, nil
}

func (k *chainClient) CreateAccessList(ctx context.Context, call types.CallObject, block types.BlockNumber) (*types.AccessListResult, error) {
	method := k.ns.Method("createAccessList")
	if err := requireBlock(method, 1, block); err != nil {
		return nil, err
	}
	var result types.AccessListResult
	if err := k.c.Call(ctx, &result, method, call, block); err != nil {
		return nil, err
	}
	return &result, nil
}

func (k *chainClient) PendingTransactions(ctx context.Context) ([]json.RawMessage, error) {
	var txs []json.RawMessage
	if err := k.c.Call(ctx, &txs, k.ns.Method("pendingTransactions")); err != nil {
		return nil, err
	}
	return txs, nil
}

func (k *chainClient) NewBlockFilter(ctx context.Context) (types.FilterID, error) {
	return newFilter(ctx, k.c, k.ns.Method("newBlockFilter"))
}

// getParams sends the block as a hex quantity; 0 stays "0x0".
func getParams(ctx context.Context, c *Client, method string, blockNumber int64) (types.Params, error) {
	if err := requireNonNegative(method, 0, "blockNumber", blockNumber); err != nil {
		return nil, err
	}
	var params types.Params
	if err := c.Call(ctx, &params, method, hexutil.Uint64(blockNumber)); err != nil {
		return nil, err
	}
	return params, nil
}
