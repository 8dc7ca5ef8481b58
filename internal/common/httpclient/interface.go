// Package httpclient is the request dispatcher shared by every libdesk command.
// It builds authenticated requests against the configured API, normalizes
// paths through a route table, encodes bodies, decodes responses leniently and
// maps failures to a structured HTTPError.
package httpclient

import (
	"context"
)

// Configurator supplies the server URL, the current bearer token and the
// route table. It is read on every request, so changes made by login/logout
// take effect immediately.
type Configurator interface {
	GetServerURL() string
	GetToken() string
	GetRouteTable() *RouteTable
}

// Client is implemented by Dispatcher. Consumers depend on it so tests can
// substitute a fake.
type Client interface {
	// Do sends the request and returns the decoded response. On a non-2xx
	// status both the response and an *HTTPError are returned.
	Do(ctx context.Context, r Request) (*Response, error)

	// Request is a shorthand for Do returning only the decoded body.
	Request(ctx context.Context, path, method string, body any) (any, error)
}

var _ Client = &Dispatcher{}
