// Package nodetest runs a stub Kaia node that speaks JSON-RPC 2.0 over HTTP
// and WebSocket on a loopback port, for tests.
//
// Request processing:
//
//	HTTP POST   → serveHTTP → dispatch → write reply
//	WS upgrade  → serveWS (single reader per conn)
//	              → for each frame: go dispatch (parallel)
//	              → write reply under the per-connection write lock
package nodetest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"

	"github.com/minminkikiki/kaia-sdk/protocol"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// HandlerFunc answers one method. Returning an *Error produces a JSON-RPC
// error object; any other error becomes code -32000.
type HandlerFunc func(ctx context.Context, params []json.RawMessage) (any, error)

// Error is a JSON-RPC error object returned by a handler.
type Error struct {
	Code    int
	Message string
	Data    any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

// Request is a call as the node received it.
type Request struct {
	Method string
	Params []json.RawMessage
	ID     json.RawMessage
	Header http.Header
}

type route struct {
	handler HandlerFunc
	status  int
	raw     string
	silent  bool
}

// Node is a stub JSON-RPC node.
type Node struct {
	server   *httptest.Server
	upgrader websocket.Upgrader

	mu       sync.Mutex
	routes   map[string]route
	requests []Request
	conns    map[*websocket.Conn]struct{}

	done      chan struct{}
	closeOnce sync.Once
}

// New starts a node on a loopback port.
func New() *Node {
	n := &Node{
		routes: make(map[string]route),
		conns:  make(map[*websocket.Conn]struct{}),
		done:   make(chan struct{}),
	}
	n.server = httptest.NewServer(http.HandlerFunc(n.serve))
	return n
}

// URL is the HTTP endpoint.
func (n *Node) URL() string {
	return n.server.URL
}

// WSURL is the WebSocket endpoint.
func (n *Node) WSURL() string {
	return "ws" + strings.TrimPrefix(n.server.URL, "http")
}

// Handle registers h for method.
func (n *Node) Handle(method string, h HandlerFunc) {
	n.setRoute(method, route{handler: h})
}

// HandleResult makes method always return result.
func (n *Node) HandleResult(method string, result any) {
	n.Handle(method, func(context.Context, []json.RawMessage) (any, error) {
		return result, nil
	})
}

// HandleRaw makes method answer with body verbatim. status applies to HTTP
// only; 0 means 200.
func (n *Node) HandleRaw(method string, status int, body string) {
	if status == 0 {
		status = http.StatusOK
	}
	n.setRoute(method, route{status: status, raw: body})
}

// Silence makes method never answer.
func (n *Node) Silence(method string) {
	n.setRoute(method, route{silent: true})
}

// Requests returns the calls received so far, in arrival order.
func (n *Node) Requests() []Request {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Request(nil), n.requests...)
}

// DropConnections closes every open WebSocket connection without a close
// frame, as a crashed node would.
func (n *Node) DropConnections() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for conn := range n.conns {
		conn.Close()
		delete(n.conns, conn)
	}
}

// Close stops the node. Silenced calls are released first.
func (n *Node) Close() {
	n.closeOnce.Do(func() {
		close(n.done)
		n.DropConnections()
		n.server.Close()
	})
}

func (n *Node) setRoute(method string, r route) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.routes[method] = r
}

func (n *Node) serve(w http.ResponseWriter, r *http.Request) {
	if websocket.IsWebSocketUpgrade(r) {
		n.serveWS(w, r)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	status, reply, ok := n.dispatch(r.Context(), body, r.Header)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(reply)
}

func (n *Node) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := n.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	n.mu.Lock()
	n.conns[conn] = struct{}{}
	n.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer func() {
		n.mu.Lock()
		delete(n.conns, conn)
		n.mu.Unlock()
		conn.Close()
	}()

	writeMu := &sync.Mutex{}
	header := r.Header.Clone()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		go func() {
			_, reply, ok := n.dispatch(ctx, data, header)
			if !ok {
				return
			}
			writeMu.Lock()
			defer writeMu.Unlock()
			conn.WriteMessage(websocket.TextMessage, reply)
		}()
	}
}

// dispatch decodes one request, records it and runs its route. ok is false
// when nothing must be written back.
func (n *Node) dispatch(ctx context.Context, data []byte, header http.Header) (status int, reply []byte, ok bool) {
	var req struct {
		Version string            `json:"jsonrpc"`
		Method  string            `json:"method"`
		Params  []json.RawMessage `json:"params"`
		ID      json.RawMessage   `json:"id"`
	}
	if err := jsonAPI.Unmarshal(data, &req); err != nil {
		return http.StatusOK, errorReply(nil, &Error{Code: protocol.CodeParseError, Message: err.Error()}), true
	}

	n.mu.Lock()
	n.requests = append(n.requests, Request{Method: req.Method, Params: req.Params, ID: req.ID, Header: header})
	rt, found := n.routes[req.Method]
	n.mu.Unlock()

	switch {
	case !found:
		return http.StatusOK, errorReply(req.ID, &Error{
			Code:    protocol.CodeMethodNotFound,
			Message: fmt.Sprintf("the method %s does not exist/is not available", req.Method),
		}), true
	case rt.silent:
		select {
		case <-ctx.Done():
		case <-n.done:
		}
		return 0, nil, false
	case rt.handler == nil:
		return rt.status, []byte(rt.raw), true
	}

	result, err := rt.handler(ctx, req.Params)
	if err != nil {
		rpcErr, isRPC := err.(*Error)
		if !isRPC {
			rpcErr = &Error{Code: protocol.CodeServerErrorMax, Message: err.Error()}
		}
		return http.StatusOK, errorReply(req.ID, rpcErr), true
	}
	raw, err := jsonAPI.Marshal(result)
	if err != nil {
		return http.StatusOK, errorReply(req.ID, &Error{Code: protocol.CodeInternalError, Message: err.Error()}), true
	}
	out, _ := jsonAPI.Marshal(struct {
		Version string          `json:"jsonrpc"`
		ID      json.RawMessage `json:"id"`
		Result  json.RawMessage `json:"result"`
	}{protocol.Version, idOrNull(req.ID), raw})
	return http.StatusOK, out, true
}

func errorReply(id json.RawMessage, e *Error) []byte {
	type errorObject struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Data    any    `json:"data,omitempty"`
	}
	out, _ := jsonAPI.Marshal(struct {
		Version string          `json:"jsonrpc"`
		ID      json.RawMessage `json:"id"`
		Error   errorObject     `json:"error"`
	}{protocol.Version, idOrNull(id), errorObject{e.Code, e.Message, e.Data}})
	return out
}

func idOrNull(id json.RawMessage) json.RawMessage {
	if len(id) == 0 {
		return json.RawMessage("null")
	}
	return id
}
