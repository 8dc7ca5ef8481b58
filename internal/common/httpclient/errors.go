package httpclient

import (
	"errors"
	"net/http"

	"github.com/tansive/libdesk/internal/common/apperrors"
)

var (
	ErrDispatch apperrors.Error = apperrors.New("request dispatch error").SetStatusCode(http.StatusInternalServerError)

	ErrNetwork     apperrors.Error = ErrDispatch.New("network error: request failed").SetStatusCode(0).WithHint("check that the API URL is reachable (libdesk config show)")
	ErrInvalidURL  apperrors.Error = ErrDispatch.New("invalid server URL").SetStatusCode(http.StatusBadRequest).WithHint("set it with `libdesk config set-api-url`")
	ErrEncodeBody  apperrors.Error = ErrDispatch.New("unable to encode request body").SetStatusCode(http.StatusBadRequest)
	ErrReadBody    apperrors.Error = ErrDispatch.New("failed to read response body")
	ErrUnsupported apperrors.Error = ErrDispatch.New("unsupported request").SetStatusCode(http.StatusBadRequest)
)

// DefaultErrorMessage is used when neither the body nor the status line
// provide a message.
const DefaultErrorMessage = "request failed"

// HTTPError is the error envelope returned for non-2xx responses and for
// network failures. StatusCode is 0 when no response was received.
type HTTPError struct {
	StatusCode int    // HTTP status code, 0 for network failures
	Message    string // message from the body, the status text, or DefaultErrorMessage
	Details    any    // decoded response body (nil, parsed JSON or raw text)
	cause      error
}

// Error implements the error interface for HTTPError.
func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.cause
}

// IsNetworkError reports whether no response was received.
func (e *HTTPError) IsNetworkError() bool {
	return e.StatusCode == 0
}

// AsHTTPError unwraps err into an *HTTPError.
func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	if errors.As(err, &he) {
		return he, true
	}
	return nil, false
}

// errorMessage picks the message for a failed response: the first non-empty
// string among message, error and title, then the status text.
func errorMessage(decoded any, statusText string) string {
	if m, ok := decoded.(map[string]any); ok {
		for _, key := range []string{"message", "error", "title"} {
			if s, ok := m[key].(string); ok && s != "" {
				return s
			}
		}
	}
	if statusText != "" {
		return statusText
	}
	return DefaultErrorMessage
}
