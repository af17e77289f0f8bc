package types

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Account types reported in Account.AccType.
const (
	AccTypeLegacy = 0
	AccTypeEOA    = 1
	AccTypeSCA    = 2
)

// Account is the result of *_getAccount.
type Account struct {
	AccType int           `json:"accType"`
	Account AccountDetail `json:"account"`
}

// AccountDetail holds the fields common to every account type plus the
// contract-only fields, which are empty for externally owned accounts.
type AccountDetail struct {
	Nonce         uint64       `json:"nonce"`
	Balance       *hexutil.Big `json:"balance"`
	HumanReadable bool         `json:"humanReadable"`
	Key           AccountKey   `json:"key"`

	StorageRoot *common.Hash `json:"storageRoot,omitempty"`
	CodeHash    []byte       `json:"codeHash,omitempty"`
	CodeFormat  uint8        `json:"codeFormat,omitempty"`
	VMVersion   uint8        `json:"vmVersion,omitempty"`
}

// AccountKey is kept raw past its type since each key type has its own
// shape.
type AccountKey struct {
	KeyType int             `json:"keyType"`
	Key     json.RawMessage `json:"key"`
}

// IsContract reports whether the account is a smart contract account.
func (a *Account) IsContract() bool {
	return a.AccType == AccTypeSCA
}
