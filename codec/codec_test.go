package codec

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minminkikiki/kaia-sdk/message"
)

func TestEncodeRequest(t *testing.T) {
	c := &JSONCodec{}

	data, err := c.EncodeRequest(message.NewRequest(message.NumberID(1), "debug_mutexProfile", "mutex.profile", 10))
	require.NoError(t, err)
	assert.Equal(t, `{"jsonrpc":"2.0","method":"debug_mutexProfile","params":["mutex.profile",10],"id":1}`, string(data))

	data, err = c.EncodeRequest(message.NewRequest(message.StringID("a1"), "klay_syncing"))
	require.NoError(t, err)
	assert.Equal(t, `{"jsonrpc":"2.0","method":"klay_syncing","params":[],"id":"a1"}`, string(data))
}

func TestEncodeRequestRejectsBadInput(t *testing.T) {
	c := &JSONCodec{}

	tests := []struct {
		name  string
		req   *message.Request
		param int
	}{
		{"channel", message.NewRequest(message.NumberID(1), "eth_call", "ok", make(chan int)), 1},
		{"function", message.NewRequest(message.NumberID(1), "eth_call", func() {}), 0},
		{"infinity", message.NewRequest(message.NumberID(1), "eth_call", 1, 2, math.Inf(1)), 2},
		{"invalid raw", message.NewRequest(message.NumberID(1), "klay_call", json.RawMessage(`{"to":"0xabc"`), "latest"), 0},
		{"empty raw", message.NewRequest(message.NumberID(1), "klay_call", "latest", json.RawMessage{}), 1},
		{"no id", message.NewRequest(message.ID{}, "eth_call"), -1},
		{"no method", message.NewRequest(message.NumberID(1), ""), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.EncodeRequest(tt.req)
			var encErr *EncodingError
			require.ErrorAs(t, err, &encErr)
			assert.Equal(t, tt.param, encErr.Param)
		})
	}
}

func TestDecodeResponse(t *testing.T) {
	c := &JSONCodec{}

	resp, err := c.DecodeResponse([]byte(`{"jsonrpc":"2.0","id":7,"result":false}`))
	require.NoError(t, err)
	assert.Equal(t, message.NumberID(7), resp.ID)
	assert.JSONEq(t, `false`, string(resp.Result))
	assert.Nil(t, resp.Error)

	resp, err = c.DecodeResponse([]byte(`{"jsonrpc":"2.0","id":"x","result":null}`))
	require.NoError(t, err)
	assert.Equal(t, "null", string(resp.Result))

	resp, err = c.DecodeResponse([]byte(`{"jsonrpc":"2.0","id":3,"error":{"code":-32601,"message":"the method foo_bar does not exist","data":{"m":"foo_bar"}}}`))
	require.NoError(t, err)
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32601, resp.Error.Code)

	rpcErr, ok := IsRPCError(ResponseError(resp))
	require.True(t, ok)
	assert.Equal(t, -32601, rpcErr.Code())
	assert.Equal(t, "the method foo_bar does not exist", rpcErr.Message())
	assert.JSONEq(t, `{"m":"foo_bar"}`, string(rpcErr.Data()))
	assert.Contains(t, rpcErr.Error(), "method not found")
}

func TestDecodeResponseRejectsMalformed(t *testing.T) {
	c := &JSONCodec{}

	tests := map[string]string{
		"not json":          `{"jsonrpc":`,
		"array":             `[{"jsonrpc":"2.0","id":1,"result":1}]`,
		"missing version":   `{"id":1,"result":1}`,
		"wrong version":     `{"jsonrpc":"1.0","id":1,"result":1}`,
		"both":              `{"jsonrpc":"2.0","id":1,"result":1,"error":{"code":1,"message":"x"}}`,
		"both with null":    `{"jsonrpc":"2.0","id":1,"result":null,"error":null}`,
		"neither":           `{"jsonrpc":"2.0","id":1}`,
		"missing id":        `{"jsonrpc":"2.0","result":1}`,
		"fractional id":     `{"jsonrpc":"2.0","id":1.5,"result":1}`,
		"error not object":  `{"jsonrpc":"2.0","id":1,"error":"boom"}`,
		"error code string": `{"jsonrpc":"2.0","id":1,"error":{"code":"x","message":"y"}}`,
		"error code absent": `{"jsonrpc":"2.0","id":1,"error":{"message":"y"}}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := c.DecodeResponse([]byte(body))
			var decErr *DecodingError
			assert.ErrorAs(t, err, &decErr)
		})
	}
}

func TestMatch(t *testing.T) {
	req := message.NewRequest(message.NumberID(5), "eth_blockNumber")

	assert.NoError(t, Match(req, &message.Response{ID: message.NumberID(5)}))

	err := Match(req, &message.Response{ID: message.NumberID(6)})
	var decErr *DecodingError
	require.ErrorAs(t, err, &decErr)
	assert.Contains(t, decErr.Error(), "id mismatch")

	assert.Error(t, Match(req, &message.Response{ID: message.StringID("5")}))
	assert.Error(t, Match(req, &message.Response{}))
}

func TestRoundTrip(t *testing.T) {
	c := &JSONCodec{}
	req := message.NewRequest(message.NumberID(42), "eth_getFilterChanges", "0x16")

	data, err := c.EncodeRequest(req)
	require.NoError(t, err)

	// A node echoing the id back.
	id, err := message.PeekID(data)
	require.NoError(t, err)
	reply, err := message.ID.MarshalJSON(id)
	require.NoError(t, err)

	resp, err := c.DecodeResponse([]byte(`{"jsonrpc":"2.0","id":` + string(reply) + `,"result":["0xabc"]}`))
	require.NoError(t, err)
	require.NoError(t, Match(req, resp))

	var hashes []string
	require.NoError(t, DecodeResult(resp, &hashes))
	assert.Equal(t, []string{"0xabc"}, hashes)
}

func TestDecodeResultMismatch(t *testing.T) {
	resp := &message.Response{Result: []byte(`"0x1"`)}
	var n int
	err := DecodeResult(resp, &n)
	var decErr *DecodingError
	assert.True(t, errors.As(err, &decErr))
	assert.NoError(t, DecodeResult(resp, nil))
}

func TestRPCErrorDataIsCopied(t *testing.T) {
	err := ResponseError(&message.Response{Error: &message.ErrorObject{Code: 1, Message: "m", Data: []byte(`[1]`)}})
	rpcErr, ok := IsRPCError(err)
	require.True(t, ok)

	data := rpcErr.Data()
	data[0] = '{'
	assert.Equal(t, `[1]`, string(rpcErr.Data()))

	assert.Nil(t, ResponseError(&message.Response{Result: []byte(`1`)}))
}

func TestDecodeResultRaw(t *testing.T) {
	var raw json.RawMessage
	require.NoError(t, DecodeResult(&message.Response{Result: []byte(`null`)}, &raw))
	assert.Equal(t, "null", string(raw))
}

func BenchmarkCodecJSON(b *testing.B) {
	c := &JSONCodec{}
	req := message.NewRequest(message.NumberID(1), "debug_mutexProfile", "mutex.profile", 10)
	reply := []byte(`{"jsonrpc":"2.0","id":1,"result":null}`)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.EncodeRequest(req); err != nil {
			b.Fatal(err)
		}
		if _, err := c.DecodeResponse(reply); err != nil {
			b.Fatal(err)
		}
	}
}

func TestRPCErrorNullData(t *testing.T) {
	c := &JSONCodec{}
	for _, body := range []string{
		`{"jsonrpc":"2.0","id":1,"error":{"code":-32000,"message":"m","data":null}}`,
		`{"jsonrpc":"2.0","id":1,"error":{"code":-32000,"message":"m"}}`,
	} {
		resp, err := c.DecodeResponse([]byte(body))
		require.NoError(t, err)
		rpcErr, ok := IsRPCError(ResponseError(resp))
		require.True(t, ok)
		assert.Nil(t, rpcErr.Data(), body)
	}
}
