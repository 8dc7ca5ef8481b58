package httpclient

import (
	"net/http"
	"net/http/httptest"
)

// HandlerTransport returns a RoundTripper that serves every request with h
// in-process, recording the response with httptest.NewRecorder. No network
// connection is made.
func HandlerTransport(h http.Handler) http.RoundTripper {
	return &handlerTransport{handler: h}
}

type handlerTransport struct {
	handler http.Handler
}

func (t *handlerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := req.Context().Err(); err != nil {
		return nil, err
	}
	in := req.Clone(req.Context())
	if in.Body == nil {
		in.Body = http.NoBody
	}
	rr := httptest.NewRecorder()
	t.handler.ServeHTTP(rr, in)
	resp := rr.Result()
	resp.Request = req
	return resp, nil
}
