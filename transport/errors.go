package transport

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"

	"github.com/valyala/fasthttp"
)

// ErrorKind classifies a failed exchange.
type ErrorKind string

const (
	ErrTimeout           ErrorKind = "TIMEOUT"
	ErrConnectionRefused ErrorKind = "CONNECTION_REFUSED"
	ErrTLS               ErrorKind = "TLS_ERROR"
	ErrOther             ErrorKind = "NETWORK_ERROR"
)

// ErrClosed is the cause of every failure after Close.
var ErrClosed = errors.New("transport closed")

// TransportError reports that an exchange with the node failed below the
// JSON-RPC layer. The request may or may not have reached the node.
type TransportError struct {
	Kind       ErrorKind
	Op         string // "dial", "send", "receive"
	URL        string
	StatusCode int // HTTP status, 0 when not applicable
	Cause      error
}

func (e *TransportError) Error() string {
	msg := fmt.Sprintf("[%s] %s %s", e.Kind, e.Op, e.URL)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": http status %d", e.StatusCode)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// IsTimeout reports whether err is a TransportError of kind ErrTimeout.
func IsTimeout(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Kind == ErrTimeout
}

func newError(op, url string, err error) *TransportError {
	return &TransportError{Kind: classify(err), Op: op, URL: url, Cause: err}
}

// contextError reports an exchange abandoned because of its context.
func contextError(op, url string, err error) *TransportError {
	kind := ErrOther
	if errors.Is(err, context.DeadlineExceeded) {
		kind = ErrTimeout
	}
	return &TransportError{Kind: kind, Op: op, URL: url, Cause: err}
}

// classify maps a dial, write or read failure onto an ErrorKind.
func classify(err error) ErrorKind {
	if err == nil {
		return ErrOther
	}

	var (
		netErr      net.Error
		recordErr   tls.RecordHeaderError
		certErr     *tls.CertificateVerificationError
		unknownAuth x509.UnknownAuthorityError
		hostErr     x509.HostnameError
		invalidErr  x509.CertificateInvalidError
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, fasthttp.ErrTimeout),
		errors.Is(err, fasthttp.ErrDialTimeout):
		return ErrTimeout
	case errors.Is(err, syscall.ECONNREFUSED):
		return ErrConnectionRefused
	case errors.As(err, &certErr), errors.As(err, &unknownAuth),
		errors.As(err, &hostErr), errors.As(err, &invalidErr),
		errors.As(err, &recordErr):
		return ErrTLS
	case errors.As(err, &netErr) && netErr.Timeout():
		return ErrTimeout
	}

	// fasthttp and the websocket dialer do not always keep the chain intact.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return ErrConnectionRefused
	case strings.Contains(msg, "tls:"), strings.Contains(msg, "x509:"):
		return ErrTLS
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "timed out"):
		return ErrTimeout
	}
	return ErrOther
}
