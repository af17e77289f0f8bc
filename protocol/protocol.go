// Package protocol holds the JSON-RPC 2.0 wire constants and the naming rule
// a Kaia node uses for its methods.
//
// Every method on the wire is "{namespace}_{method}", the namespace in lower
// case and the method in lower camel case, exactly as the node registers it.
// Casing is significant: the node rejects "debug_MutexProfile".
//
//	namespace    method                wire name
//	debug      + mutexProfile       -> debug_mutexProfile
//	eth        + newBlockFilter     -> eth_newBlockFilter
//	klay       + getParams          -> klay_getParams
//	personal   + unlockAccount      -> personal_unlockAccount
package protocol

import (
	"fmt"
	"strings"
)

// Version is the only protocol version tag accepted in either direction.
const Version = "2.0"

// Reserved error codes, JSON-RPC 2.0 section 5.1.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603

	// Implementation-defined server errors occupy this range.
	CodeServerErrorMin = -32099
	CodeServerErrorMax = -32000
)

// CodeText returns a short description of a reserved error code, or "" for
// application-defined codes.
func CodeText(code int) string {
	switch code {
	case CodeParseError:
		return "parse error"
	case CodeInvalidRequest:
		return "invalid request"
	case CodeMethodNotFound:
		return "method not found"
	case CodeInvalidParams:
		return "invalid params"
	case CodeInternalError:
		return "internal error"
	}
	if code >= CodeServerErrorMin && code <= CodeServerErrorMax {
		return "server error"
	}
	return ""
}

// Namespace is the prefix shared by a group of node methods.
type Namespace string

const (
	Debug      Namespace = "debug"
	Eth        Namespace = "eth"
	Klay       Namespace = "klay"
	Kaia       Namespace = "kaia"
	Personal   Namespace = "personal"
	Admin      Namespace = "admin"
	Governance Namespace = "governance"
)

// Method joins the namespace and a method name into the wire name.
func (ns Namespace) Method(name string) string {
	return string(ns) + "_" + name
}

// SplitMethod checks that a wire name has the "{namespace}_{method}" shape and
// returns its two halves. The namespace is not checked against the known list
// so that callers can reach namespaces this package does not declare.
func SplitMethod(method string) (Namespace, string, error) {
	if method == "" {
		return "", "", fmt.Errorf("empty method name")
	}
	ns, name, ok := strings.Cut(method, "_")
	if !ok || ns == "" || name == "" {
		return "", "", fmt.Errorf("method %q is not of the form namespace_method", method)
	}
	if ns != strings.ToLower(ns) {
		return "", "", fmt.Errorf("method %q: namespace must be lower case", method)
	}
	if strings.ContainsAny(method, " \t\r\n") {
		return "", "", fmt.Errorf("method %q contains whitespace", method)
	}
	return Namespace(ns), name, nil
}
