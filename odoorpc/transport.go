package odoorpc

import (
	"context"
	"io"
	"net/http"
	"time"
)

// timeoutTransport applies the configured overall request timeout to
// every RPC round trip. The XML-RPC codec owns the request lifecycle,
// so the deadline is attached at the transport layer.
type timeoutTransport struct {
	base    http.RoundTripper
	timeout time.Duration
}

func newTimeoutTransport(timeout time.Duration) http.RoundTripper {
	if timeout <= 0 {
		return http.DefaultTransport
	}
	return &timeoutTransport{
		base:    http.DefaultTransport,
		timeout: timeout,
	}
}

func (t *timeoutTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(req.Context(), t.timeout)
	resp, err := t.base.RoundTrip(req.WithContext(ctx))
	if err != nil {
		cancel()
		return nil, err
	}
	// the deadline must survive until the response body is drained
	resp.Body = &cancelBody{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

type cancelBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelBody) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}
