// Package codec turns requests into JSON-RPC 2.0 bytes and response bytes back
// into validated responses.
//
// Decoding is strict. A response is rejected with a DecodingError when it is
// not a JSON object, when "jsonrpc" is missing or not "2.0", when "id" is
// missing, when both or neither of "result" and "error" are present, or when
// its id differs from the request it answers (see Match). Node-reported
// failures become an RPCError, which only this package constructs.
package codec

import (
	"encoding/json"

	"github.com/minminkikiki/kaia-sdk/message"
)

type Codec interface {
	EncodeRequest(req *message.Request) ([]byte, error)
	DecodeResponse(data []byte) (*message.Response, error)
}

// Match rejects a response whose id is not the id of the request it is
// supposed to answer.
func Match(req *message.Request, resp *message.Response) error {
	if req.ID != resp.ID {
		return &DecodingError{
			Reason: "id mismatch: sent " + req.ID.String() + ", got " + resp.ID.String(),
		}
	}
	return nil
}

// ResponseError returns the node-reported failure carried by resp as an
// *RPCError, or nil when resp holds a result.
func ResponseError(resp *message.Response) error {
	if resp.Error == nil {
		return nil
	}
	return newRPCError(resp.Error)
}

// DecodeResult unmarshals the result of a successful response into out.
// A nil out discards the result; a *json.RawMessage receives it verbatim.
func DecodeResult(resp *message.Response, out any) error {
	if out == nil {
		return nil
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = append(json.RawMessage(nil), resp.Result...)
		return nil
	}
	if err := jsonAPI.Unmarshal(resp.Result, out); err != nil {
		return &DecodingError{Reason: "cannot decode result", Cause: err}
	}
	return nil
}
