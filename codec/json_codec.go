package codec

import (
	"encoding/json"

	"github.com/buger/jsonparser"
	jsoniter "github.com/json-iterator/go"

	"github.com/minminkikiki/kaia-sdk/message"
	"github.com/minminkikiki/kaia-sdk/protocol"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONCodec is the JSON-RPC 2.0 text codec.
type JSONCodec struct{}

// wireRequest fixes the member order: jsonrpc, method, params, id.
type wireRequest struct {
	Version string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
	ID      message.ID        `json:"id"`
}

func (c *JSONCodec) EncodeRequest(req *message.Request) ([]byte, error) {
	if req.Method == "" {
		return nil, &EncodingError{Method: "<empty>", Param: -1, Reason: "method name is required"}
	}
	if !req.ID.Valid() {
		return nil, &EncodingError{Method: req.Method, Param: -1, Reason: "request id is required"}
	}

	// Marshal parameters one by one so a failure names the offending index.
	params := make([]json.RawMessage, 0, len(req.Params))
	for i, p := range req.Params {
		raw, err := jsonAPI.Marshal(p)
		if err != nil {
			return nil, &EncodingError{Method: req.Method, Param: i, Reason: "not serializable", Cause: err}
		}
		// Marshalers and json.RawMessage values are copied through unchecked.
		if !jsonAPI.Valid(raw) {
			return nil, &EncodingError{Method: req.Method, Param: i, Reason: "not valid JSON"}
		}
		params = append(params, raw)
	}

	version := req.Version
	if version == "" {
		version = protocol.Version
	}
	data, err := jsonAPI.Marshal(&wireRequest{
		Version: version,
		Method:  req.Method,
		Params:  params,
		ID:      req.ID,
	})
	if err != nil {
		return nil, &EncodingError{Method: req.Method, Param: -1, Reason: "not serializable", Cause: err}
	}
	return data, nil
}

func (c *JSONCodec) DecodeResponse(data []byte) (*message.Response, error) {
	if !jsonAPI.Valid(data) {
		return nil, &DecodingError{Reason: "malformed JSON"}
	}
	if _, dataType, _, _ := jsonparser.Get(data); dataType != jsonparser.Object {
		return nil, &DecodingError{Reason: "response is not a JSON object"}
	}

	version, err := jsonparser.GetString(data, "jsonrpc")
	if err != nil {
		return nil, &DecodingError{Reason: `missing "jsonrpc" member`}
	}
	if version != protocol.Version {
		return nil, &DecodingError{Reason: `unsupported "jsonrpc" version ` + version}
	}

	// Presence, not value: "result": null is a valid result.
	_, resultType, _, _ := jsonparser.Get(data, "result")
	_, errorType, _, _ := jsonparser.Get(data, "error")
	hasResult := resultType != jsonparser.NotExist
	hasError := errorType != jsonparser.NotExist
	switch {
	case hasResult && hasError:
		return nil, &DecodingError{Reason: `both "result" and "error" are present`}
	case !hasResult && !hasError:
		return nil, &DecodingError{Reason: `neither "result" nor "error" is present`}
	}

	id, err := message.PeekID(data)
	if err != nil {
		return nil, &DecodingError{Reason: `invalid "id" member`, Cause: err}
	}

	resp := &message.Response{Version: version, ID: id}
	if hasError {
		if errorType != jsonparser.Object {
			return nil, &DecodingError{Reason: `"error" is not an object`}
		}
		if _, codeType, _, _ := jsonparser.Get(data, "error", "code"); codeType != jsonparser.Number {
			return nil, &DecodingError{Reason: `"error.code" is missing or not a number`}
		}
		var obj message.ErrorObject
		if err := jsonAPI.Unmarshal(mustGet(data, "error"), &obj); err != nil {
			return nil, &DecodingError{Reason: `cannot decode "error"`, Cause: err}
		}
		resp.Error = &obj
		return resp, nil
	}

	var wire struct {
		Result json.RawMessage `json:"result"`
	}
	if err := jsonAPI.Unmarshal(data, &wire); err != nil {
		return nil, &DecodingError{Reason: `cannot decode "result"`, Cause: err}
	}
	resp.Result = wire.Result
	if len(resp.Result) == 0 {
		resp.Result = json.RawMessage("null")
	}
	return resp, nil
}

// mustGet returns the raw bytes of an object member already known to exist.
func mustGet(data []byte, keys ...string) []byte {
	value, _, _, _ := jsonparser.Get(data, keys...)
	return value
}
