package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/buger/jsonparser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/minminkikiki/kaia-sdk/nodetest"
)

func payload(id int, method string) []byte {
	return []byte(fmt.Sprintf(`{"jsonrpc":"2.0","method":%q,"params":[],"id":%d}`, method, id))
}

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestHTTPRoundTrip(t *testing.T) {
	node := nodetest.New()
	defer node.Close()
	node.HandleResult("klay_syncing", false)

	tr := NewHTTPTransport(Options{
		URL:    node.URL(),
		Header: map[string]string{"Authorization": "Bearer secret"},
	})
	defer tr.Close()

	body, err := tr.RoundTrip(context.Background(), payload(1, "klay_syncing"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":1,"result":false}`, string(body))

	reqs := node.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "klay_syncing", reqs[0].Method)
	assert.Equal(t, "application/json", reqs[0].Header.Get("Content-Type"))
	assert.Equal(t, "Bearer secret", reqs[0].Header.Get("Authorization"))
}

func TestHTTPTimeout(t *testing.T) {
	node := nodetest.New()
	defer node.Close()
	node.Silence("eth_blockNumber")

	tr := NewHTTPTransport(Options{URL: node.URL(), Timeout: 50 * time.Millisecond})
	start := time.Now()
	_, err := tr.RoundTrip(context.Background(), payload(1, "eth_blockNumber"))
	require.Error(t, err)
	assert.True(t, IsTimeout(err), "got %v", err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestHTTPContextDeadlineWins(t *testing.T) {
	node := nodetest.New()
	defer node.Close()
	node.Silence("eth_blockNumber")

	tr := NewHTTPTransport(Options{URL: node.URL(), Timeout: time.Minute})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := tr.RoundTrip(ctx, payload(1, "eth_blockNumber"))
	assert.True(t, IsTimeout(err), "got %v", err)
}

func TestHTTPConnectionRefused(t *testing.T) {
	tr := NewHTTPTransport(Options{URL: "http://" + freeAddr(t), Timeout: time.Second})
	_, err := tr.RoundTrip(context.Background(), payload(1, "eth_blockNumber"))

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, ErrConnectionRefused, te.Kind)
}

func TestHTTPStatus(t *testing.T) {
	node := nodetest.New()
	defer node.Close()
	node.HandleRaw("eth_blockNumber", http.StatusBadGateway, "upstream unavailable")
	node.HandleRaw("eth_chainId", http.StatusInternalServerError,
		`{"jsonrpc":"2.0","id":1,"error":{"code":-32603,"message":"boom"}}`)

	tr := NewHTTPTransport(Options{URL: node.URL()})

	_, err := tr.RoundTrip(context.Background(), payload(1, "eth_blockNumber"))
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, ErrOther, te.Kind)
	assert.Equal(t, http.StatusBadGateway, te.StatusCode)

	body, err := tr.RoundTrip(context.Background(), payload(1, "eth_chainId"))
	require.NoError(t, err)
	assert.Contains(t, string(body), "boom")
}

func TestHTTPTLS(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":"0x1"}`))
	}))
	defer srv.Close()

	_, err := NewHTTPTransport(Options{URL: srv.URL}).RoundTrip(context.Background(), payload(1, "eth_chainId"))
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, ErrTLS, te.Kind)

	insecure := NewHTTPTransport(Options{URL: srv.URL, TLSConfig: &tls.Config{InsecureSkipVerify: true}})
	body, err := insecure.RoundTrip(context.Background(), payload(1, "eth_chainId"))
	require.NoError(t, err)
	assert.Contains(t, string(body), "0x1")
}

func TestHTTPClosed(t *testing.T) {
	tr := NewHTTPTransport(Options{URL: "http://127.0.0.1:1"})
	require.NoError(t, tr.Close())
	_, err := tr.RoundTrip(context.Background(), payload(1, "eth_chainId"))
	assert.ErrorIs(t, err, ErrClosed)
}

// countingServer answers every POST with a fixed result and tracks the TCP
// connections it has accepted and still holds open.
func countingServer(t *testing.T) (srv *httptest.Server, accepted, open *atomic.Int64) {
	t.Helper()
	accepted, open = new(atomic.Int64), new(atomic.Int64)
	srv = httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":"0x1"}`))
	}))
	srv.Config.ConnState = func(_ net.Conn, state http.ConnState) {
		switch state {
		case http.StateNew:
			accepted.Add(1)
			open.Add(1)
		case http.StateClosed, http.StateHijacked:
			open.Add(-1)
		}
	}
	srv.Start()
	t.Cleanup(srv.Close)
	return srv, accepted, open
}

func TestHTTPReusesConnection(t *testing.T) {
	srv, accepted, _ := countingServer(t)

	tr := NewHTTPTransport(Options{URL: srv.URL})
	defer tr.Close()
	for i := 0; i < 50; i++ {
		_, err := tr.RoundTrip(context.Background(), payload(1, "eth_chainId"))
		require.NoError(t, err)
	}
	assert.Equal(t, int64(1), accepted.Load())
}

func TestHTTPCloseReleasesConnections(t *testing.T) {
	srv, _, open := countingServer(t)

	tr := NewHTTPTransport(Options{URL: srv.URL})
	g := new(errgroup.Group)
	for i := 0; i < 20; i++ {
		g.Go(func() error {
			_, err := tr.RoundTrip(context.Background(), payload(1, "eth_chainId"))
			return err
		})
	}
	require.NoError(t, g.Wait())
	require.Positive(t, open.Load())

	require.NoError(t, tr.Close())
	assert.Eventually(t, func() bool { return open.Load() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHTTPBadURL(t *testing.T) {
	_, err := NewHTTPTransport(Options{URL: "ftp://node.example"}).RoundTrip(context.Background(), payload(1, "eth_chainId"))
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, ErrOther, te.Kind)
}

func TestWebSocketConcurrent(t *testing.T) {
	node := nodetest.New()
	defer node.Close()
	node.HandleResult("eth_blockNumber", "0x10")

	tr, err := DialWebSocket(context.Background(), Options{URL: node.WSURL()})
	require.NoError(t, err)
	defer tr.Close()

	var g errgroup.Group
	for i := 1; i <= 50; i++ {
		g.Go(func() error {
			body, err := tr.RoundTrip(context.Background(), payload(i, "eth_blockNumber"))
			if err != nil {
				return err
			}
			id, err := jsonparser.GetInt(body, "id")
			if err != nil {
				return err
			}
			if int(id) != i {
				return fmt.Errorf("call %d got response for %d", i, id)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Len(t, node.Requests(), 50)
}

func TestWebSocketCancelledContextSendsNothing(t *testing.T) {
	node := nodetest.New()
	defer node.Close()
	node.HandleResult("eth_chainId", "0x3e9")

	tr, err := DialWebSocket(context.Background(), Options{URL: node.WSURL()})
	require.NoError(t, err)
	defer tr.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = tr.RoundTrip(ctx, payload(1, "eth_chainId"))
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, IsTimeout(err))

	// The id was never registered.
	_, err = tr.RoundTrip(context.Background(), payload(1, "eth_chainId"))
	require.NoError(t, err)
	assert.Len(t, node.Requests(), 1)
}

func TestWebSocketTimeoutRemovesPending(t *testing.T) {
	node := nodetest.New()
	defer node.Close()
	node.Silence("eth_blockNumber")
	node.HandleResult("eth_chainId", "0x3e9")

	tr, err := DialWebSocket(context.Background(), Options{URL: node.WSURL(), Timeout: 50 * time.Millisecond})
	require.NoError(t, err)
	defer tr.Close()

	_, err = tr.RoundTrip(context.Background(), payload(1, "eth_blockNumber"))
	assert.True(t, IsTimeout(err), "got %v", err)

	// The abandoned id is free again.
	body, err := tr.RoundTrip(context.Background(), payload(1, "eth_chainId"))
	require.NoError(t, err)
	assert.Contains(t, string(body), "0x3e9")
}

func TestWebSocketCloseFailsPending(t *testing.T) {
	node := nodetest.New()
	defer node.Close()
	node.Silence("eth_blockNumber")

	tr, err := DialWebSocket(context.Background(), Options{URL: node.WSURL(), Timeout: 10 * time.Second})
	require.NoError(t, err)

	errs := make(chan error, 1)
	go func() {
		_, err := tr.RoundTrip(context.Background(), payload(1, "eth_blockNumber"))
		errs <- err
	}()

	require.Eventually(t, func() bool { return len(node.Requests()) == 1 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, tr.Close())

	select {
	case err := <-errs:
		var te *TransportError
		require.ErrorAs(t, err, &te)
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("pending call not released by Close")
	}

	_, err = tr.RoundTrip(context.Background(), payload(2, "eth_blockNumber"))
	assert.ErrorIs(t, err, ErrClosed)
}

func TestWebSocketBrokenConnection(t *testing.T) {
	node := nodetest.New()
	defer node.Close()
	node.Silence("eth_blockNumber")

	tr, err := DialWebSocket(context.Background(), Options{URL: node.WSURL(), Timeout: 10 * time.Second})
	require.NoError(t, err)
	defer tr.Close()

	errs := make(chan error, 1)
	go func() {
		_, err := tr.RoundTrip(context.Background(), payload(1, "eth_blockNumber"))
		errs <- err
	}()
	require.Eventually(t, func() bool { return len(node.Requests()) == 1 }, 2*time.Second, 10*time.Millisecond)
	node.DropConnections()

	select {
	case err := <-errs:
		var te *TransportError
		assert.ErrorAs(t, err, &te)
	case <-time.After(2 * time.Second):
		t.Fatal("pending call not released after the connection broke")
	}
}

func TestDialWebSocketRefused(t *testing.T) {
	_, err := DialWebSocket(context.Background(), Options{URL: "ws://" + freeAddr(t), Timeout: time.Second})
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, ErrConnectionRefused, te.Kind)
	assert.Equal(t, "dial", te.Op)
}

func TestNewUnknownKind(t *testing.T) {
	_, err := New(context.Background(), Kind("grpc"), Options{URL: "grpc://x"})
	assert.Error(t, err)
}

func TestEffectiveTimeout(t *testing.T) {
	assert.Equal(t, time.Second, effectiveTimeout(context.Background(), time.Second))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	got := effectiveTimeout(ctx, time.Minute)
	assert.LessOrEqual(t, got, 100*time.Millisecond)
	assert.Greater(t, got, time.Duration(0))

	expired, cancel2 := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel2()
	assert.Equal(t, time.Duration(0), effectiveTimeout(expired, time.Minute))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorKind
	}{
		{context.DeadlineExceeded, ErrTimeout},
		{fmt.Errorf("dial: %w", &net.OpError{Op: "dial", Err: errors.New("connect: connection refused")}), ErrConnectionRefused},
		{errors.New("tls: handshake failure"), ErrTLS},
		{errors.New("x509: certificate signed by unknown authority"), ErrTLS},
		{errors.New("i/o timeout"), ErrTimeout},
		{errors.New("unexpected EOF"), ErrOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classify(tt.err), tt.err.Error())
	}
}
