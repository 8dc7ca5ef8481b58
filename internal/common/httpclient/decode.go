package httpclient

import (
	"bytes"
	"encoding/json"
	"io"
	"net/url"
	"strings"
)

// RawBody is sent untouched with its own content type.
type RawBody struct {
	ContentType string
	Data        []byte
}

// DecodeBody decodes a response body: empty bodies give nil, JSON gives the
// parsed value, anything else gives the raw text. It never fails.
func DecodeBody(raw []byte) any {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}
	if json.Valid(trimmed) {
		var v any
		if err := json.Unmarshal(trimmed, &v); err == nil {
			return v
		}
	}
	return string(raw)
}

// encodeBody returns the request body reader and the content type to set.
// Pre-encoded payloads pass through; structured values are JSON-encoded.
func encodeBody(body any) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case RawBody:
		return bytes.NewReader(b.Data), b.ContentType, nil
	case *RawBody:
		if b == nil {
			return nil, "", nil
		}
		return bytes.NewReader(b.Data), b.ContentType, nil
	case json.RawMessage:
		return bytes.NewReader(b), "application/json", nil
	case []byte:
		return bytes.NewReader(b), "", nil
	case url.Values:
		return strings.NewReader(b.Encode()), "application/x-www-form-urlencoded", nil
	case io.Reader:
		return b, "", nil
	default:
		data, err := json.Marshal(body)
		if err != nil {
			return nil, "", ErrEncodeBody.Err(err)
		}
		return bytes.NewReader(data), "application/json", nil
	}
}
