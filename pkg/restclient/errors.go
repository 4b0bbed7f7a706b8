package restclient

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"
)

var (
	// ErrMissingConfig is matched by every *ConfigurationError.
	ErrMissingConfig = errors.New("restclient: required configuration missing")
	// ErrUnsupportedMethod is returned for a Method outside the supported set.
	ErrUnsupportedMethod = errors.New("restclient: unsupported method")
	// ErrConflictingCodec is returned by New when WithPreprocess is combined with WithCodec.
	ErrConflictingCodec = errors.New("restclient: WithPreprocess cannot be combined with WithCodec")
)

// ConfigurationError reports a required setting that was neither passed explicitly nor
// found under its environment variable.
type ConfigurationError struct {
	// Variable is the environment variable that was consulted.
	Variable string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("restclient: environment variable %s is not properly configured", e.Variable)
}

// Is lets errors.Is(err, ErrMissingConfig) match.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrMissingConfig
}

// HTTPError is returned for any response status outside 200-299, redirects included.
type HTTPError struct {
	StatusCode int
	Method     string
	URL        string
	// Body is the raw response body.
	Body []byte
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("restclient: %s %s: HTTP %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	if snippet := bodySnippet(e.Body); snippet != "" {
		msg += ": " + snippet
	}
	return msg
}

// DecodeError reports a success response whose body is not valid JSON.
type DecodeError struct {
	StatusCode int
	Body       []byte
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("restclient: decode response (HTTP %d): %v", e.StatusCode, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError reports a payload that could not be preprocessed or serialized.
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("restclient: encode payload: %v", e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// StatusCode returns the status carried by an *HTTPError in err's chain, or 0.
func StatusCode(err error) int {
	var e *HTTPError
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

// IsNotFound checks if err is a 404 HTTPError.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsRedirect checks if err is a 3xx HTTPError.
func IsRedirect(err error) bool {
	code := StatusCode(err)
	return code >= 300 && code < 400
}

// IsClientError checks if err is a 4xx HTTPError.
func IsClientError(err error) bool {
	code := StatusCode(err)
	return code >= 400 && code < 500
}

// IsServerError checks if err is a 5xx HTTPError.
func IsServerError(err error) bool {
	return StatusCode(err) >= 500
}

const maxSnippetBytes = 512

func bodySnippet(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if len(body) > maxSnippetBytes {
		cut := maxSnippetBytes
		for cut > 0 && !utf8.RuneStart(body[cut]) {
			cut--
		}
		body = body[:cut]
	}
	return strings.TrimSpace(string(body))
}
