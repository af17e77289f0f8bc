// Package message defines the JSON-RPC 2.0 envelopes exchanged with a Kaia node.
//
// A Request is built once per call and discarded after it has been sent. A
// Response carries either a result or an error object, never both; the codec
// enforces that before a Response reaches anyone else.
//
//	--> {"jsonrpc":"2.0","method":"klay_syncing","params":[],"id":7}
//	<-- {"jsonrpc":"2.0","id":7,"result":false}
package message

import (
	"encoding/json"

	"github.com/minminkikiki/kaia-sdk/protocol"
)

// Request is a single outgoing call.
//
//   - Method is the wire name, e.g. "debug_mutexProfile".
//   - Params are marshalled in order into the "params" array; nil means [].
//   - ID is echoed back by the node and correlates the Response.
type Request struct {
	Version string
	Method  string
	Params  []any
	ID      ID
}

// NewRequest builds a version 2.0 request.
func NewRequest(id ID, method string, params ...any) *Request {
	return &Request{
		Version: protocol.Version,
		Method:  method,
		Params:  params,
		ID:      id,
	}
}

// Response is a decoded reply. Exactly one of Result and Error is set.
// A JSON null result is kept as the literal "null".
type Response struct {
	Version string          `json:"jsonrpc"`
	ID      ID              `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *ErrorObject    `json:"error,omitempty"`
}

// ErrorObject is the wire form of a node-reported failure.
type ErrorObject struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}
