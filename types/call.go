package types

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// CallObject describes a message call that is simulated, not sent.
type CallObject struct {
	From     *common.Address `json:"from,omitempty"`
	To       *common.Address `json:"to,omitempty"`
	Gas      *hexutil.Uint64 `json:"gas,omitempty"`
	GasPrice *hexutil.Big    `json:"gasPrice,omitempty"`
	Value    *hexutil.Big    `json:"value,omitempty"`
	Input    hexutil.Bytes   `json:"input,omitempty"`
}

// AccessListResult is the result of *_createAccessList.
type AccessListResult struct {
	AccessList ethtypes.AccessList `json:"accessList"`
	Error      string              `json:"error,omitempty"`
	GasUsed    hexutil.Uint64      `json:"gasUsed"`
}
