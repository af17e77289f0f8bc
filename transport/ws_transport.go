package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/minminkikiki/kaia-sdk/message"
)

// WSTransport multiplexes concurrent calls over one websocket connection.
type WSTransport struct {
	conn    *websocket.Conn
	opts    Options
	pending sync.Map   // map[string]chan wsResult keyed by message.ID.Key()
	sending sync.Mutex // gorilla allows one concurrent writer

	closed    chan struct{}
	closeOnce sync.Once
	errMu     sync.Mutex
	err       error // why the connection ended
}

type wsResult struct {
	data []byte
	err  error
}

// DialWebSocket connects to opts.URL and starts the read and ping loops.
func DialWebSocket(ctx context.Context, opts Options) (*WSTransport, error) {
	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: opts.timeout(),
		TLSClientConfig:  opts.TLSConfig,
	}
	header := http.Header{}
	for key, value := range opts.Header {
		header.Set(key, value)
	}

	conn, _, err := dialer.DialContext(ctx, opts.URL, header)
	if err != nil {
		return nil, newError("dial", opts.URL, err)
	}

	t := &WSTransport{
		conn:   conn,
		opts:   opts,
		closed: make(chan struct{}),
	}
	go t.recvLoop()
	if interval := opts.PingInterval; interval >= 0 {
		if interval == 0 {
			interval = DefaultPingInterval
		}
		go t.pingLoop(interval)
	}
	return t, nil
}

// RoundTrip writes payload and waits for the response carrying the same id.
func (t *WSTransport) RoundTrip(ctx context.Context, payload []byte) ([]byte, error) {
	id, err := message.PeekID(payload)
	if err != nil || !id.Valid() {
		return nil, &TransportError{Kind: ErrOther, Op: "send", URL: t.opts.URL,
			Cause: fmt.Errorf("request has no usable id: %v", err)}
	}
	key := id.Key()

	select {
	case <-t.closed:
		return nil, t.closedError("send")
	default:
	}
	if err := ctx.Err(); err != nil {
		return nil, contextError("send", t.opts.URL, err)
	}

	// Register before writing so the read loop cannot miss a fast response.
	respChan := make(chan wsResult, 1)
	if _, loaded := t.pending.LoadOrStore(key, respChan); loaded {
		return nil, &TransportError{Kind: ErrOther, Op: "send", URL: t.opts.URL,
			Cause: fmt.Errorf("id %s is already in flight", id)}
	}

	timeout := effectiveTimeout(ctx, t.opts.timeout())
	if timeout <= 0 {
		t.pending.Delete(key)
		return nil, contextError("send", t.opts.URL, context.DeadlineExceeded)
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	t.sending.Lock()
	_ = t.conn.SetWriteDeadline(time.Now().Add(timeout))
	err = t.conn.WriteMessage(websocket.TextMessage, payload)
	t.sending.Unlock()
	if err != nil {
		t.pending.Delete(key)
		return nil, newError("send", t.opts.URL, err)
	}

	select {
	case res := <-respChan:
		return res.data, res.err
	case <-timer.C:
		t.pending.Delete(key)
		return nil, &TransportError{Kind: ErrTimeout, Op: "receive", URL: t.opts.URL,
			Cause: fmt.Errorf("no response after %s", timeout)}
	case <-ctx.Done():
		t.pending.Delete(key)
		return nil, contextError("receive", t.opts.URL, ctx.Err())
	case <-t.closed:
		// The read loop may have delivered just before closing.
		select {
		case res := <-respChan:
			return res.data, res.err
		default:
		}
		t.pending.Delete(key)
		return nil, t.closedError("receive")
	}
}

// recvLoop is the only reader of the connection. Frames without an id and
// frames for ids nobody waits on are dropped.
func (t *WSTransport) recvLoop() {
	for {
		_, data, err := t.conn.ReadMessage()
		if err != nil {
			t.shutdown(err)
			return
		}

		id, err := message.PeekID(data)
		if err != nil || !id.Valid() {
			continue
		}
		if channel, ok := t.pending.LoadAndDelete(id.Key()); ok {
			channel.(chan wsResult) <- wsResult{data: data}
		}
	}
}

func (t *WSTransport) pingLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-t.closed:
			return
		case <-ticker.C:
			t.sending.Lock()
			err := t.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(t.opts.timeout()))
			t.sending.Unlock()
			if err != nil {
				t.shutdown(err)
				return
			}
		}
	}
}

// Close sends a close frame, releases the connection and fails every
// pending call.
func (t *WSTransport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		t.setErr(ErrClosed)
		close(t.closed)

		t.sending.Lock()
		_ = t.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		t.sending.Unlock()

		err = t.conn.Close()
		t.closeAllPending(t.closedError("receive"))
	})
	return err
}

// shutdown ends the transport after the connection broke.
func (t *WSTransport) shutdown(cause error) {
	t.closeOnce.Do(func() {
		t.setErr(cause)
		close(t.closed)
		_ = t.conn.Close()
		t.closeAllPending(t.closedError("receive"))
	})
}

// closeAllPending wakes every waiting caller so none blocks until its timeout.
func (t *WSTransport) closeAllPending(err error) {
	t.pending.Range(func(key, value any) bool {
		if _, ok := t.pending.LoadAndDelete(key); ok {
			value.(chan wsResult) <- wsResult{err: err}
		}
		return true
	})
}

func (t *WSTransport) setErr(err error) {
	t.errMu.Lock()
	defer t.errMu.Unlock()
	if t.err == nil {
		t.err = err
	}
}

func (t *WSTransport) closedError(op string) *TransportError {
	t.errMu.Lock()
	cause := t.err
	t.errMu.Unlock()
	if cause == nil {
		cause = ErrClosed
	}
	if errors.Is(cause, ErrClosed) {
		return &TransportError{Kind: ErrOther, Op: op, URL: t.opts.URL, Cause: cause}
	}
	return newError(op, t.opts.URL, cause)
}
