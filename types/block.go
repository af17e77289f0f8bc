// Package types holds the typed results and arguments of Kaia node methods,
// built on go-ethereum value types.
package types

import (
	"github.com/ethereum/go-ethereum/rpc"
)

// BlockNumber is a block height or a tag. It marshals as a hex quantity or
// as "latest", "pending", "earliest", "safe" or "finalized".
type BlockNumber = rpc.BlockNumber

const (
	Latest    = rpc.LatestBlockNumber
	Pending   = rpc.PendingBlockNumber
	Earliest  = rpc.EarliestBlockNumber
	Safe      = rpc.SafeBlockNumber
	Finalized = rpc.FinalizedBlockNumber
)
