package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Governance parameter names as returned by *_getParams.
const (
	ParamGovernanceMode     = "governance.governancemode"
	ParamGoverningNode      = "governance.governingnode"
	ParamUnitPrice          = "governance.unitprice"
	ParamEpoch              = "istanbul.epoch"
	ParamCommitteeSize      = "istanbul.committeesize"
	ParamProposerPolicy     = "istanbul.policy"
	ParamMintingAmount      = "reward.mintingamount"
	ParamRatio              = "reward.ratio"
	ParamUseGiniCoeff       = "reward.useginicoeff"
	ParamDeferredTxFee      = "reward.deferredtxfee"
	ParamMinimumStake       = "reward.minimumstake"
	ParamLowerBoundBaseFee  = "kip71.lowerboundbasefee"
	ParamUpperBoundBaseFee  = "kip71.upperboundbasefee"
	ParamGasTarget          = "kip71.gastarget"
	ParamMaxBlockGasUsed    = "kip71.maxblockgasusedforbasefee"
	ParamBaseFeeDenominator = "kip71.basefeedenominator"
)

// ErrParamNotFound is returned by the Params accessors for a missing name.
var ErrParamNotFound = errors.New("governance parameter not found")

// Params is the governance parameter set in force at a block. Values are
// kept raw since their JSON types differ per parameter and per node version.
type Params map[string]json.RawMessage

func (p Params) raw(name string) (json.RawMessage, error) {
	v, ok := p[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrParamNotFound, name)
	}
	return v, nil
}

// String returns a string parameter. Numbers and booleans are returned in
// their JSON spelling.
func (p Params) String(name string) (string, error) {
	v, err := p.raw(name)
	if err != nil {
		return "", err
	}
	var s string
	if err := jsonAPI.Unmarshal(v, &s); err == nil {
		return s, nil
	}
	return string(v), nil
}

// BigInt accepts a JSON number, a decimal string or a 0x-prefixed hex string.
func (p Params) BigInt(name string) (*big.Int, error) {
	s, err := p.String(name)
	if err != nil {
		return nil, err
	}
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		n, err := hexutil.DecodeBig(s)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", name, err)
		}
		return n, nil
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("parameter %s: %q is not an integer", name, s)
	}
	return n, nil
}

func (p Params) Uint64(name string) (uint64, error) {
	n, err := p.BigInt(name)
	if err != nil {
		return 0, err
	}
	if n.Sign() < 0 || !n.IsUint64() {
		return 0, fmt.Errorf("parameter %s: %s does not fit uint64", name, n)
	}
	return n.Uint64(), nil
}

func (p Params) Bool(name string) (bool, error) {
	s, err := p.String(name)
	if err != nil {
		return false, err
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("parameter %s: %w", name, err)
	}
	return b, nil
}

func (p Params) Address(name string) (common.Address, error) {
	s, err := p.String(name)
	if err != nil {
		return common.Address{}, err
	}
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("parameter %s: %q is not an address", name, s)
	}
	return common.HexToAddress(s), nil
}
