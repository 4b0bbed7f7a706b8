package httpclient

import (
	"context"
	"net/http"
	"time"
)

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
	Header() http.Header
}

// Request describes one outbound call. URL is absolute; Query is merged into any query the
// URL already carries.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Query   map[string]string
	Body    []byte
	// Timeout bounds this call only. Zero leaves the transport default in place.
	Timeout time.Duration
}

// Transport abstracts HTTP calls so callers can inject mocks or different transports.
// Implementations never follow redirects: a 3xx is returned as a regular response.
type Transport interface {
	Do(ctx context.Context, req Request) (Response, error)
}
