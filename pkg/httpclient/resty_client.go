package httpclient

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// RestyClient adapts resty.Client to the httpclient.Transport interface.
type RestyClient struct {
	client *resty.Client
}

// NewRestyClient creates a new RestyClient with the specified timeout.
// A zero timeout means no client-wide deadline.
func NewRestyClient(timeout time.Duration) *RestyClient {
	return &RestyClient{client: newRestyBaseClient(timeout)}
}

// newRestyBaseClient creates a new resty.Client with the specified timeout, redirects
// disabled and request payloads allowed on every verb.
func newRestyBaseClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	c.SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}))
	c.SetAllowGetMethodPayload(true)
	c.SetDisableWarn(true)
	return c
}

// Do performs the request described by req.
func (r *RestyClient) Do(ctx context.Context, req Request) (Response, error) {
	if r == nil || r.client == nil {
		return nil, errors.New("resty client is not initialized")
	}
	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		return nil, errors.New("request method is empty")
	}

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	rr := r.client.R().SetContext(ctx)
	if len(req.Headers) > 0 {
		rr.SetHeaders(req.Headers)
	}
	if len(req.Query) > 0 {
		rr.SetQueryParams(req.Query)
	}
	if req.Body != nil {
		rr.SetBody(req.Body)
	}

	resp, err := rr.Execute(method, req.URL)
	if err != nil {
		return nil, err
	}
	return &restyResponseAdapter{resp: resp}, nil
}

// restyResponseAdapter adapts resty.Response to the httpclient.Response interface.
type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte        { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int     { return r.resp.StatusCode() }
func (r *restyResponseAdapter) Header() http.Header { return r.resp.Header() }

// StaticResponse is an in-memory Response, handy for fakes and recorded replies.
type StaticResponse struct {
	Status  int
	Headers http.Header
	Payload []byte
}

// NewStaticResponse builds a StaticResponse with the given status and body.
func NewStaticResponse(status int, body []byte) *StaticResponse {
	return &StaticResponse{Status: status, Headers: http.Header{}, Payload: body}
}

func (s *StaticResponse) Body() []byte    { return s.Payload }
func (s *StaticResponse) StatusCode() int { return s.Status }

func (s *StaticResponse) Header() http.Header {
	if s.Headers == nil {
		return http.Header{}
	}
	return s.Headers
}
