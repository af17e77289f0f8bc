package client

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/minminkikiki/kaia-sdk/codec"
	"github.com/minminkikiki/kaia-sdk/types"
)

func requireString(method string, index int, field, value string) error {
	if value == "" {
		return codec.InvalidParam(method, index, field, "must not be empty")
	}
	return nil
}

func requireNonNegative(method string, index int, field string, value int64) error {
	if value < 0 {
		return codec.InvalidParam(method, index, field, "must not be negative")
	}
	return nil
}

func requireAddress(method string, index int, field, value string) (common.Address, error) {
	if !common.IsHexAddress(value) {
		return common.Address{}, codec.InvalidParam(method, index, field, "not a hex address: "+value)
	}
	return common.HexToAddress(value), nil
}

func requireBlock(method string, index int, block types.BlockNumber) error {
	if block < types.Safe {
		return codec.InvalidParam(method, index, "block", "not a block number or tag")
	}
	return nil
}
