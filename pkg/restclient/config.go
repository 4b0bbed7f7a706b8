package restclient

import (
	"net"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

const (
	// EnvToken names the environment variable consulted when no token is passed.
	EnvToken = "REST_CLIENT_TOKEN"
	// EnvEndpoint names the environment variable consulted when no endpoint is passed.
	EnvEndpoint = "REST_CLIENT_ENDPOINT"
	// DefaultIdentifier is the User-Agent suffix used when none is configured.
	DefaultIdentifier = "restclient"

	contentTypeJSON = "application/json"
)

// Config is the resolved, immutable client configuration.
type Config struct {
	Token      string
	Endpoint   string
	Headers    map[string]string
	Identifier string
}

func (c Config) clone() Config {
	c.Headers = copyHeaders(c.Headers)
	return c
}

// LookupFunc resolves a configuration key, reporting whether a non-empty value was found.
type LookupFunc func(key string) (string, bool)

// EnvLookup returns a LookupFunc reading the process environment.
func EnvLookup() LookupFunc {
	v := viper.New()
	v.AutomaticEnv()
	return func(key string) (string, bool) {
		if !v.IsSet(key) {
			return "", false
		}
		val := strings.TrimSpace(v.GetString(key))
		return val, val != ""
	}
}

// MapLookup returns a LookupFunc backed by a fixed map.
func MapLookup(values map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		val := strings.TrimSpace(values[key])
		return val, val != ""
	}
}

// resolveRequired returns explicit when set, otherwise the value found under variable.
func resolveRequired(explicit, variable string, lookup LookupFunc) (string, error) {
	if v := strings.TrimSpace(explicit); v != "" {
		return v, nil
	}
	if lookup != nil {
		if v, ok := lookup(variable); ok {
			return v, nil
		}
	}
	return "", &ConfigurationError{Variable: variable}
}

// defaultHeaders builds the headers every request carries.
func defaultHeaders(token, host, identifier string) map[string]string {
	return map[string]string{
		"Authorization": "Token " + token,
		"Content-Type":  contentTypeJSON,
		"Accept":        contentTypeJSON,
		"User-Agent":    host + ":" + identifier,
	}
}

// mergeHeaders layers extra on top of base. Keys are canonicalized; empty values are skipped
// so a default can be overridden but never removed.
func mergeHeaders(base, extra map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		out[http.CanonicalHeaderKey(k)] = v
	}
	for k, v := range extra {
		key := strings.TrimSpace(k)
		val := strings.TrimSpace(v)
		if key == "" || val == "" {
			continue
		}
		out[http.CanonicalHeaderKey(key)] = val
	}
	return out
}

func copyHeaders(h map[string]string) map[string]string {
	if h == nil {
		return nil
	}
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}

var localFQDN = sync.OnceValue(lookupFQDN)

// LocalFQDN returns the fully-qualified name of the local host, falling back to the bare
// hostname and then to "localhost".
func LocalFQDN() string {
	return localFQDN()
}

func lookupFQDN() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "localhost"
	}
	if strings.Contains(host, ".") {
		return host
	}
	if cname, err := net.LookupCNAME(host); err == nil {
		if name := strings.TrimSuffix(cname, "."); name != "" {
			return name
		}
	}
	return host
}
