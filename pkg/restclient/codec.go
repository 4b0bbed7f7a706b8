package restclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

// Codec turns request payloads into bytes and response bodies into values.
type Codec interface {
	Encode(data any) ([]byte, error)
	Decode(statusCode int, body []byte) (any, error)
}

// PreprocessFunc transforms a payload before it is serialized.
type PreprocessFunc func(data any) (any, error)

// JSONCodec is the default Codec.
type JSONCodec struct {
	// Preprocess, when set, runs on every payload before encoding, nil payloads included.
	Preprocess PreprocessFunc
}

var emptyObject = []byte("{}")

// Encode serializes data as JSON. A nil payload encodes as an empty object.
func (c JSONCodec) Encode(data any) ([]byte, error) {
	if c.Preprocess != nil {
		var err error
		data, err = c.Preprocess(data)
		if err != nil {
			return nil, &EncodeError{Err: fmt.Errorf("preprocess: %w", err)}
		}
	}
	if data == nil {
		return append([]byte(nil), emptyObject...), nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, &EncodeError{Err: err}
	}
	return raw, nil
}

// Decode parses body as JSON. A 204 always yields nil, and so does an empty body.
func (c JSONCodec) Decode(statusCode int, body []byte) (any, error) {
	if statusCode == http.StatusNoContent {
		return nil, nil
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, &DecodeError{StatusCode: statusCode, Body: body, Err: err}
	}
	return v, nil
}

// DecodeInto converts a decoded value (as returned by Client.Request) into out, which must
// be a non-nil pointer.
func DecodeInto(value any, out any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("restclient: re-encode value: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("restclient: decode into %T: %w", out, err)
	}
	return nil
}
