package restclient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/restclient/pkg/httpclient"
)

// Client speaks JSON to a single REST endpoint. It is safe for concurrent use.
type Client struct {
	cfg       Config
	transport httpclient.Transport
	codec     Codec
	log       Logger
}

// New builds a Client. Token and endpoint fall back to REST_CLIENT_TOKEN and
// REST_CLIENT_ENDPOINT; a *ConfigurationError is returned when either is missing.
func New(opts ...Option) (*Client, error) {
	var s settings
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	if s.lookup == nil {
		s.lookup = EnvLookup()
	}

	token, err := resolveRequired(s.cfg.Token, EnvToken, s.lookup)
	if err != nil {
		return nil, err
	}
	endpoint, err := resolveRequired(s.cfg.Endpoint, EnvEndpoint, s.lookup)
	if err != nil {
		return nil, err
	}

	identifier := strings.TrimSpace(s.cfg.Identifier)
	if identifier == "" {
		identifier = DefaultIdentifier
	}
	if s.hostname == nil {
		s.hostname = LocalFQDN
	}
	if s.transport == nil {
		s.transport = httpclient.NewRestyClient(0)
	}
	switch {
	case s.codec != nil && s.preprocess != nil:
		return nil, ErrConflictingCodec
	case s.codec == nil:
		s.codec = JSONCodec{Preprocess: s.preprocess}
	}

	return &Client{
		cfg: Config{
			Token:      token,
			Endpoint:   endpoint,
			Headers:    mergeHeaders(defaultHeaders(token, s.hostname(), identifier), s.cfg.Headers),
			Identifier: identifier,
		},
		transport: s.transport,
		codec:     s.codec,
		log:       ensureLogger(s.log),
	}, nil
}

// Config returns a copy of the client configuration.
func (c *Client) Config() Config {
	return c.cfg.clone()
}

// Request sends data to path with the given method and returns the decoded JSON body.
// With WithRawResponse the httpclient.Response is returned instead, unchecked and undecoded.
// Any other status outside 2xx yields an *HTTPError. Transport errors are returned as-is.
func (c *Client) Request(ctx context.Context, method Method, path string, data any, opts ...RequestOption) (any, error) {
	if !method.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedMethod, int(method))
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ro := buildRequestOptions(opts)

	url := ResolveURL(c.cfg.Endpoint, path)
	body, err := c.codec.Encode(data)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.transport.Do(ctx, httpclient.Request{
		Method:  method.String(),
		URL:     url,
		Headers: mergeHeaders(c.cfg.Headers, ro.headers),
		Query:   ro.query,
		Body:    body,
		Timeout: ro.timeout,
	})
	if err != nil {
		c.log.DebugObj("request failed", "request", map[string]any{
			"method": method.String(),
			"url":    url,
			"error":  err.Error(),
		})
		return nil, err
	}

	status := resp.StatusCode()
	c.log.DebugObj("request completed", "request", map[string]any{
		"method":     method.String(),
		"url":        url,
		"status":     status,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})

	if ro.raw {
		return resp, nil
	}
	if status < 200 || status > 299 {
		return nil, &HTTPError{StatusCode: status, Method: method.String(), URL: url, Body: resp.Body()}
	}
	return c.codec.Decode(status, resp.Body())
}

// Raw is Request with WithRawResponse applied.
func (c *Client) Raw(ctx context.Context, method Method, path string, data any, opts ...RequestOption) (httpclient.Response, error) {
	// Copy so the caller's backing array is never written to.
	all := make([]RequestOption, 0, len(opts)+1)
	all = append(append(all, opts...), WithRawResponse())
	out, err := c.Request(ctx, method, path, data, all...)
	if err != nil {
		return nil, err
	}
	resp, ok := out.(httpclient.Response)
	if !ok {
		return nil, fmt.Errorf("restclient: unexpected raw response type %T", out)
	}
	return resp, nil
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (any, error) {
	return c.Request(ctx, MethodGet, path, nil, opts...)
}

// Post issues a POST request with data as the JSON body.
func (c *Client) Post(ctx context.Context, path string, data any, opts ...RequestOption) (any, error) {
	return c.Request(ctx, MethodPost, path, data, opts...)
}

// Put issues a PUT request with data as the JSON body.
func (c *Client) Put(ctx context.Context, path string, data any, opts ...RequestOption) (any, error) {
	return c.Request(ctx, MethodPut, path, data, opts...)
}

// Patch issues a PATCH request with data as the JSON body.
func (c *Client) Patch(ctx context.Context, path string, data any, opts ...RequestOption) (any, error) {
	return c.Request(ctx, MethodPatch, path, data, opts...)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) (any, error) {
	return c.Request(ctx, MethodDelete, path, nil, opts...)
}
