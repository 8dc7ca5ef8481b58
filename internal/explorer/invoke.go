package explorer

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/tansive/libdesk/internal/common/httpclient"
)

// Result is the outcome of an invocation. Exactly one of Success and Err is
// meaningful: Err is empty on success.
type Result struct {
	Success    string `json:"success,omitempty"`    // pretty-printed response
	Err        string `json:"error,omitempty"`      // error message
	RawDetails string `json:"rawDetails,omitempty"` // pretty-printed error payload, if any
	Validation bool   `json:"validation,omitempty"` // rejected locally, nothing was sent
	StatusCode int    `json:"status,omitempty"`     // 0 when nothing was received
}

// Failed reports whether the invocation failed.
func (r Result) Failed() bool {
	return r.Err != ""
}

// Invoker sends explorer requests through the dispatcher.
type Invoker struct {
	client httpclient.Client
}

// NewInvoker returns an invoker using client.
func NewInvoker(client httpclient.Client) *Invoker {
	return &Invoker{client: client}
}

// Invoke calls ep. GET and DELETE never send a body whatever rawBody holds.
// For other methods a non-blank rawBody must be valid JSON; otherwise a
// validation result is returned and no request is made. rawQuery is appended
// to the path without its leading '?'.
func (inv *Invoker) Invoke(ctx context.Context, ep Endpoint, rawBody, rawQuery string) Result {
	var body any
	if ep.Method.SendsBody() {
		if b := strings.TrimSpace(rawBody); b != "" {
			if !json.Valid([]byte(b)) {
				return Result{Err: InvalidBodyMessage, Validation: true}
			}
			body = json.RawMessage(b)
		}
	}

	path := ep.Path
	if q := strings.TrimPrefix(strings.TrimSpace(rawQuery), "?"); q != "" {
		path += "?" + q
	}

	resp, err := inv.client.Do(ctx, httpclient.Request{
		Method: string(ep.Method),
		Path:   path,
		Body:   body,
	})
	if err != nil {
		log.Ctx(ctx).Debug().Err(err).Str("endpoint", ep.String()).Msg("explorer call failed")
		return failure(resp, err)
	}
	return Result{Success: render(resp), StatusCode: resp.StatusCode}
}

// render pretty-prints the decoded response. An empty body renders as null
// and a text body as a JSON string.
func render(resp *httpclient.Response) string {
	if json.Valid(resp.Raw) {
		return PrettyJSON(string(resp.Raw))
	}
	return prettyValue(resp.Body)
}

func failure(resp *httpclient.Response, err error) Result {
	r := Result{Err: err.Error()}
	he, ok := httpclient.AsHTTPError(err)
	if !ok {
		return r
	}
	r.StatusCode = he.StatusCode
	if r.Err == "" {
		r.Err = httpclient.DefaultErrorMessage
	}
	if he.Details == nil {
		return r
	}
	if resp != nil && json.Valid(resp.Raw) {
		r.RawDetails = PrettyJSON(string(resp.Raw))
	} else {
		r.RawDetails = prettyValue(he.Details)
	}
	return r
}
