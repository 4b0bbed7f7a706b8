package restclient

import (
	"strings"
	"time"

	"github.com/samvad-hq/restclient/pkg/httpclient"
)

// Option configures a Client at construction.
type Option func(*settings)

type settings struct {
	cfg        Config
	transport  httpclient.Transport
	codec      Codec
	preprocess PreprocessFunc
	lookup     LookupFunc
	log        Logger
	hostname   func() string
}

// WithToken sets the token explicitly, skipping the REST_CLIENT_TOKEN lookup.
func WithToken(token string) Option {
	return func(s *settings) { s.cfg.Token = token }
}

// WithEndpoint sets the base URL explicitly, skipping the REST_CLIENT_ENDPOINT lookup.
func WithEndpoint(endpoint string) Option {
	return func(s *settings) { s.cfg.Endpoint = endpoint }
}

// WithHeaders adds headers on top of the defaults. Repeated calls accumulate.
func WithHeaders(headers map[string]string) Option {
	return func(s *settings) {
		if s.cfg.Headers == nil {
			s.cfg.Headers = make(map[string]string, len(headers))
		}
		for k, v := range headers {
			s.cfg.Headers[k] = v
		}
	}
}

// WithIdentifier sets the User-Agent suffix.
func WithIdentifier(identifier string) Option {
	return func(s *settings) { s.cfg.Identifier = identifier }
}

// WithTransport replaces the default resty transport.
func WithTransport(t httpclient.Transport) Option {
	return func(s *settings) { s.transport = t }
}

// WithCodec replaces the default JSONCodec.
func WithCodec(c Codec) Option {
	return func(s *settings) { s.codec = c }
}

// WithPreprocess installs a payload hook on the default JSONCodec. It cannot be combined
// with WithCodec; New reports ErrConflictingCodec.
func WithPreprocess(fn PreprocessFunc) Option {
	return func(s *settings) { s.preprocess = fn }
}

// WithLookup replaces the environment lookup used for missing token or endpoint.
func WithLookup(lookup LookupFunc) Option {
	return func(s *settings) { s.lookup = lookup }
}

// WithLogger sets the logger.
func WithLogger(log Logger) Option {
	return func(s *settings) { s.log = log }
}

// WithHostname overrides the host name used in the User-Agent.
func WithHostname(host string) Option {
	return func(s *settings) {
		host = strings.TrimSpace(host)
		if host == "" {
			return
		}
		s.hostname = func() string { return host }
	}
}

// RequestOption carries passthrough settings for a single call.
type RequestOption func(*requestOptions)

type requestOptions struct {
	query   map[string]string
	headers map[string]string
	raw     bool
	timeout time.Duration
}

func buildRequestOptions(opts []RequestOption) requestOptions {
	var ro requestOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&ro)
		}
	}
	return ro
}

// WithQuery adds query parameters. They are handed to the transport untouched.
func WithQuery(params map[string]string) RequestOption {
	return func(r *requestOptions) {
		if r.query == nil {
			r.query = make(map[string]string, len(params))
		}
		for k, v := range params {
			r.query[k] = v
		}
	}
}

// WithQueryParam adds a single query parameter.
func WithQueryParam(key, value string) RequestOption {
	return WithQuery(map[string]string{key: value})
}

// WithHeader adds a header for this call only.
func WithHeader(key, value string) RequestOption {
	return func(r *requestOptions) {
		if r.headers == nil {
			r.headers = make(map[string]string)
		}
		r.headers[key] = value
	}
}

// WithRawResponse makes Request return the transport response as-is, with no status check
// and no decoding.
func WithRawResponse() RequestOption {
	return func(r *requestOptions) { r.raw = true }
}

// WithTimeout bounds this call. The transport enforces it.
func WithTimeout(d time.Duration) RequestOption {
	return func(r *requestOptions) { r.timeout = d }
}
