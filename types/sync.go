package types

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	jsoniter "github.com/json-iterator/go"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// SyncStatus is the result of klay_syncing, kaia_syncing and eth_syncing:
// the literal false when the node is synced, a progress object otherwise.
type SyncStatus struct {
	Syncing  bool
	Progress *SyncProgress // nil when Syncing is false
}

type SyncProgress struct {
	StartingBlock hexutil.Uint64 `json:"startingBlock"`
	CurrentBlock  hexutil.Uint64 `json:"currentBlock"`
	HighestBlock  hexutil.Uint64 `json:"highestBlock"`
	PulledStates  hexutil.Uint64 `json:"pulledStates"`
	KnownStates   hexutil.Uint64 `json:"knownStates"`
}

func (s SyncStatus) MarshalJSON() ([]byte, error) {
	if !s.Syncing || s.Progress == nil {
		return []byte("false"), nil
	}
	return jsonAPI.Marshal(s.Progress)
}

func (s *SyncStatus) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("false")):
		*s = SyncStatus{}
		return nil
	case bytes.Equal(data, []byte("true")):
		*s = SyncStatus{Syncing: true}
		return nil
	case len(data) > 0 && data[0] == '{':
		var p SyncProgress
		if err := jsonAPI.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("sync progress: %w", err)
		}
		*s = SyncStatus{Syncing: true, Progress: &p}
		return nil
	}
	return fmt.Errorf("sync status must be false or an object, got %s", data)
}
