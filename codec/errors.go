package codec

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/minminkikiki/kaia-sdk/message"
	"github.com/minminkikiki/kaia-sdk/protocol"
)

// EncodingError reports invalid local input: a parameter that failed
// validation or cannot be serialized. Nothing was sent.
type EncodingError struct {
	Method string
	Param  int    // index into params, -1 when the error is not about one parameter
	Field  string // parameter name, if known
	Reason string
	Cause  error
}

func (e *EncodingError) Error() string {
	msg := "encode " + e.Method
	if e.Param >= 0 {
		msg += fmt.Sprintf(": param %d", e.Param)
		if e.Field != "" {
			msg += " (" + e.Field + ")"
		}
	}
	msg += ": " + e.Reason
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *EncodingError) Unwrap() error {
	return e.Cause
}

// InvalidParam reports a parameter rejected by validation before encoding.
func InvalidParam(method string, index int, field, reason string) error {
	return &EncodingError{Method: method, Param: index, Field: field, Reason: reason}
}

// DecodingError reports a malformed or mismatched response from the node.
type DecodingError struct {
	Reason string
	Cause  error
}

func (e *DecodingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("decode response: %s: %v", e.Reason, e.Cause)
	}
	return "decode response: " + e.Reason
}

func (e *DecodingError) Unwrap() error {
	return e.Cause
}

// RPCError is a failure reported by the node. It is immutable.
type RPCError struct {
	code    int
	message string
	data    json.RawMessage
}

func newRPCError(obj *message.ErrorObject) *RPCError {
	e := &RPCError{code: obj.Code, message: obj.Message}
	if len(obj.Data) > 0 {
		e.data = append(json.RawMessage(nil), obj.Data...)
	}
	return e
}

func (e *RPCError) Code() int { return e.code }

func (e *RPCError) Message() string { return e.message }

// Data returns a copy of the auxiliary data. It is nil both when the error
// object has no "data" member and when "data" is null.
func (e *RPCError) Data() json.RawMessage {
	if e.data == nil {
		return nil
	}
	return append(json.RawMessage(nil), e.data...)
}

func (e *RPCError) Error() string {
	msg := fmt.Sprintf("rpc error %d", e.code)
	if text := protocol.CodeText(e.code); text != "" {
		msg += " (" + text + ")"
	}
	return msg + ": " + e.message
}

// IsRPCError reports whether err is or wraps an *RPCError and returns it.
func IsRPCError(err error) (*RPCError, bool) {
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr, true
	}
	return nil, false
}
