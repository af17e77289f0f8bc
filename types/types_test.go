package types

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncStatus(t *testing.T) {
	var s SyncStatus
	require.NoError(t, json.Unmarshal([]byte(`false`), &s))
	assert.False(t, s.Syncing)
	assert.Nil(t, s.Progress)

	require.NoError(t, json.Unmarshal([]byte(`{"startingBlock":"0x0","currentBlock":"0x10","highestBlock":"0x20","pulledStates":"0x5","knownStates":"0x9"}`), &s))
	assert.True(t, s.Syncing)
	require.NotNil(t, s.Progress)
	assert.Equal(t, hexutil.Uint64(0x10), s.Progress.CurrentBlock)
	assert.Equal(t, hexutil.Uint64(0x20), s.Progress.HighestBlock)

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"currentBlock":"0x10"`)

	out, err = json.Marshal(SyncStatus{})
	require.NoError(t, err)
	assert.Equal(t, `false`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`"yes"`), &s))
}

func TestParams(t *testing.T) {
	var p Params
	require.NoError(t, json.Unmarshal([]byte(`{
		"governance.governancemode": "single",
		"governance.governingnode": "0x52d41ca72af615a1ac3301b0a93efa222ecc7541",
		"governance.unitprice": 25000000000,
		"istanbul.epoch": 604800,
		"reward.mintingamount": "9600000000000000000",
		"reward.useginicoeff": true,
		"kip71.lowerboundbasefee": "0x5d21dba00"
	}`), &p))

	mode, err := p.String(ParamGovernanceMode)
	require.NoError(t, err)
	assert.Equal(t, "single", mode)

	node, err := p.Address(ParamGoverningNode)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x52d41ca72af615a1ac3301b0a93efa222ecc7541"), node)

	price, err := p.Uint64(ParamUnitPrice)
	require.NoError(t, err)
	assert.Equal(t, uint64(25000000000), price)

	epoch, err := p.Uint64(ParamEpoch)
	require.NoError(t, err)
	assert.Equal(t, uint64(604800), epoch)

	minting, err := p.BigInt(ParamMintingAmount)
	require.NoError(t, err)
	want, _ := new(big.Int).SetString("9600000000000000000", 10)
	assert.Equal(t, 0, want.Cmp(minting))

	gini, err := p.Bool(ParamUseGiniCoeff)
	require.NoError(t, err)
	assert.True(t, gini)

	lower, err := p.Uint64(ParamLowerBoundBaseFee)
	require.NoError(t, err)
	assert.Equal(t, uint64(25000000000), lower)

	_, err = p.String(ParamRatio)
	assert.ErrorIs(t, err, ErrParamNotFound)
	_, err = p.Uint64(ParamGovernanceMode)
	assert.Error(t, err)
	_, err = p.Address(ParamGovernanceMode)
	assert.Error(t, err)
}

func TestFilterID(t *testing.T) {
	assert.NoError(t, FilterID("0x1407bf28e80aebf04cf757812428b076").Validate())
	assert.NoError(t, FilterID("0x1").Validate())
	assert.Error(t, FilterID("").Validate())
	assert.Error(t, FilterID("0x").Validate())
	assert.Error(t, FilterID("1407bf").Validate())
	assert.Error(t, FilterID("0xzz").Validate())
}

func TestAccount(t *testing.T) {
	var eoa Account
	require.NoError(t, json.Unmarshal([]byte(`{"accType":1,"account":{"nonce":3,"balance":"0xde0b6b3a7640000","humanReadable":false,"key":{"keyType":1,"key":{}}}}`), &eoa))
	assert.False(t, eoa.IsContract())
	assert.Equal(t, uint64(3), eoa.Account.Nonce)
	assert.Equal(t, "1000000000000000000", eoa.Account.Balance.ToInt().String())
	assert.Equal(t, 1, eoa.Account.Key.KeyType)

	var sca Account
	require.NoError(t, json.Unmarshal([]byte(`{"accType":2,"account":{"nonce":1,"balance":"0x0","humanReadable":false,"key":{"keyType":3,"key":{}},"storageRoot":"0x56e81f171bcc55a6ff8345e692c0f86e5b48e01b996cadc001622fb5e363b421","codeHash":"xdJGAYb3IzySfn2y3McDwOUAtlPKgic7e/rYBF2FpHA=","codeFormat":0,"vmVersion":1}}`), &sca))
	assert.True(t, sca.IsContract())
	require.NotNil(t, sca.Account.StorageRoot)
	assert.Len(t, sca.Account.CodeHash, 32)
	assert.Equal(t, uint8(1), sca.Account.VMVersion)
}

func TestCallObject(t *testing.T) {
	from := common.HexToAddress("0x3bc5885c2941c5cda454bdb4a8c88aa7f248e312")
	to := common.HexToAddress("0x00f5f5f3a25f142fafd0af24a754fafa340f32c7")
	gas := hexutil.Uint64(0x3d0900)
	call := CallObject{
		From:     &from,
		To:       &to,
		Gas:      &gas,
		GasPrice: (*hexutil.Big)(big.NewInt(0x3b9aca00)),
		Input:    hexutil.MustDecode("0x20965255"),
	}
	out, err := json.Marshal(call)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"from":"0x3bc5885c2941c5cda454bdb4a8c88aa7f248e312",
		"to":"0x00f5f5f3a25f142fafd0af24a754fafa340f32c7",
		"gas":"0x3d0900",
		"gasPrice":"0x3b9aca00",
		"input":"0x20965255"
	}`, string(out))
}

func TestBlockNumber(t *testing.T) {
	for bn, want := range map[BlockNumber]string{
		Latest:             `"latest"`,
		Pending:            `"pending"`,
		Finalized:          `"finalized"`,
		BlockNumber(0x1b4): `"0x1b4"`,
	} {
		out, err := json.Marshal(bn)
		require.NoError(t, err)
		assert.Equal(t, want, string(out))
	}
}
