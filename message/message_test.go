package message

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequest(t *testing.T) {
	req := NewRequest(NumberID(3), "klay_getParams", "0x59")

	assert.Equal(t, "2.0", req.Version)
	assert.Equal(t, "klay_getParams", req.Method)
	assert.Equal(t, []any{"0x59"}, req.Params)
	assert.Equal(t, NumberID(3), req.ID)
}

func TestIDJSON(t *testing.T) {
	cases := []struct {
		name string
		id   ID
		want string
	}{
		{"number", NumberID(42), `42`},
		{"negative", NumberID(-1), `-1`},
		{"string", StringID("req-1"), `"req-1"`},
		{"escaped", StringID(`a"b`), `"a\"b"`},
		{"null", ID{}, `null`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := json.Marshal(tc.id)
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(data))

			var back ID
			require.NoError(t, json.Unmarshal(data, &back))
			assert.Equal(t, tc.id, back)
		})
	}
}

func TestIDKeyDistinguishesKinds(t *testing.T) {
	assert.NotEqual(t, NumberID(7).Key(), StringID("7").Key())
	assert.Equal(t, NumberID(7).Key(), NumberID(7).Key())
	assert.False(t, ID{}.Valid())
}

func TestIDRejectsFractions(t *testing.T) {
	var id ID
	assert.Error(t, json.Unmarshal([]byte(`1.5`), &id))
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &id))
}

func TestPeekID(t *testing.T) {
	id, err := PeekID([]byte(`{"jsonrpc":"2.0","id":12,"result":true}`))
	require.NoError(t, err)
	assert.Equal(t, NumberID(12), id)

	id, err = PeekID([]byte(`{"id":"abc","method":"eth_blockNumber"}`))
	require.NoError(t, err)
	assert.Equal(t, StringID("abc"), id)

	id, err = PeekID([]byte(`{"jsonrpc":"2.0","id":null,"error":{"code":-32700,"message":"parse error"}}`))
	require.NoError(t, err)
	assert.False(t, id.Valid())

	_, err = PeekID([]byte(`{"jsonrpc":"2.0","method":"klay_subscription","params":{}}`))
	assert.ErrorIs(t, err, ErrNoID)
}
