package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/samvad-hq/restclient/internal/config"
	"github.com/samvad-hq/restclient/internal/logger"
	"github.com/samvad-hq/restclient/internal/storage"
	"github.com/samvad-hq/restclient/pkg/httpclient"
	"github.com/samvad-hq/restclient/pkg/restclient"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Options carries the per-invocation settings that do not come from config.
type Options struct {
	Headers map[string]string
	Output  io.Writer
	Format  string
	// Transport overrides the resty transport built from config.
	Transport httpclient.Transport
}

// Call is one request issued by the CLI.
type Call struct {
	Method restclient.Method
	Path   string
	Data   any
	Query  map[string]string
	Raw    bool
}

// Runner wires together config, the REST client, the response cache and the output writer.
type Runner struct {
	cfg    *config.Config
	client *restclient.Client
	store  storage.Store
	out    io.Writer
	format string
}

// NewRunner builds a runner from config. The client logs through the package logger set by
// logger.Init; without it logging is disabled.
func NewRunner(cfg *config.Config, opts Options) (*Runner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}

	format, err := normalizeFormat(opts.Format)
	if err != nil {
		return nil, err
	}
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	transport := opts.Transport
	if transport == nil {
		transport = httpclient.NewRestyClient(cfg.RequestTimeout)
	}

	client, err := restclient.New(
		restclient.WithLookup(cfg.Lookup()),
		restclient.WithIdentifier(cfg.Identifier),
		restclient.WithHeaders(opts.Headers),
		restclient.WithTransport(transport),
		restclient.WithLogger(logger.FromSugar(logger.S)),
	)
	if err != nil {
		return nil, fmt.Errorf("init client: %w", err)
	}

	storeType := "none"
	if cfg.CacheEnabled() {
		storeType = cfg.CacheType
	}
	store, err := storage.NewStore(storeType, cfg.CachePath, storage.Options{
		TTL:             cfg.CacheTTL,
		CleanupInterval: cfg.CacheCleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	clientCfg := client.Config()
	logger.DebugObj("client initialized", "client_config", map[string]any{
		"endpoint":          clientCfg.Endpoint,
		"identifier":        clientCfg.Identifier,
		"user_agent":        clientCfg.Headers["User-Agent"],
		"timeout_seconds":   int(cfg.RequestTimeout.Seconds()),
		"cache_type":        storeType,
		"cache_ttl_seconds": int(cfg.CacheTTL.Seconds()),
	})

	return &Runner{
		cfg:    cfg,
		client: client,
		store:  store,
		out:    out,
		format: format,
	}, nil
}

// Run executes call and writes the result.
func (r *Runner) Run(ctx context.Context, call Call) error {
	if r == nil || r.client == nil {
		return fmt.Errorf("runner is not initialized")
	}

	var opts []restclient.RequestOption
	if len(call.Query) > 0 {
		opts = append(opts, restclient.WithQuery(call.Query))
	}

	if call.Raw {
		resp, err := r.client.Raw(ctx, call.Method, call.Path, call.Data, opts...)
		if err != nil {
			return err
		}
		logger.InfoObj("raw response", "response_meta", map[string]any{
			"status": resp.StatusCode(),
			"bytes":  len(resp.Body()),
		})
		_, err = r.out.Write(resp.Body())
		return err
	}

	key := ""
	if call.Method == restclient.MethodGet {
		clientCfg := r.client.Config()
		key = cacheKey(clientCfg.Endpoint, clientCfg.Headers, call)
		if value, ok := r.cached(key); ok {
			return r.write(value)
		}
	}

	value, err := r.client.Request(ctx, call.Method, call.Path, call.Data, opts...)
	if err != nil {
		return err
	}

	if key != "" {
		r.remember(key, value)
	}
	return r.write(value)
}

// Close releases the response cache.
func (r *Runner) Close() error {
	if r == nil || r.store == nil {
		return nil
	}
	return r.store.Close()
}

func (r *Runner) cached(key string) (any, bool) {
	raw, ok, err := r.store.Get(key)
	if err != nil {
		logger.WarnObj("cache read failed", "error", err.Error())
		return nil, false
	}
	if !ok {
		logger.DebugObj("cache miss", "cache_key", key)
		return nil, false
	}
	value, err := restclient.JSONCodec{}.Decode(200, raw)
	if err != nil {
		logger.WarnObj("cache entry unreadable", "error", err.Error())
		return nil, false
	}
	logger.DebugObj("cache hit", "cache_key", key)
	return value, true
}

func (r *Runner) remember(key string, value any) {
	raw, err := json.Marshal(value)
	if err == nil {
		err = r.store.Put(key, raw)
	}
	if err != nil {
		logger.WarnObj("cache write failed", "error", err.Error())
	}
}

func (r *Runner) write(value any) error {
	var (
		raw []byte
		err error
	)
	switch r.format {
	case FormatYAML:
		raw, err = yaml.Marshal(value)
	default:
		raw, err = json.MarshalIndent(value, "", "  ")
		raw = append(raw, '\n')
	}
	if err != nil {
		return fmt.Errorf("render %s output: %w", r.format, err)
	}
	_, err = r.out.Write(raw)
	return err
}

// cacheKey identifies a GET by its resolved URL, sorted query parameters and a digest of the
// headers it is sent with, so entries are never shared between tokens.
func cacheKey(endpoint string, headers map[string]string, call Call) string {
	key := call.Method.String() + " " + restclient.ResolveURL(endpoint, call.Path)
	if len(call.Query) > 0 {
		q := make(url.Values, len(call.Query))
		for k, v := range call.Query {
			q.Set(k, v)
		}
		key += " " + q.Encode()
	}
	return key + " " + headerDigest(headers)
}

// headerDigest hashes headers in sorted key order. Keys are expected in canonical form.
func headerDigest(headers map[string]string) string {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{0})
		h.Write([]byte(headers[k]))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func normalizeFormat(format string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (expected json or yaml)", format)
	}
}
