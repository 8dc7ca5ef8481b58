// Package library is a typed client for the library backend: catalog,
// loans, statistics, members and the administrative endpoints.
package library

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	form "github.com/gorilla/schema"
	"github.com/mitchellh/mapstructure"

	"github.com/tansive/libdesk/internal/common/httpclient"
	"github.com/tansive/libdesk/internal/common/validate"
	"github.com/tansive/libdesk/internal/schema"
	"github.com/tansive/libdesk/pkg/api"
)

// SchemaSource supplies the API document used to locate resources.
type SchemaSource interface {
	Fetch(ctx context.Context, force bool) *schema.Document
}

// Client calls the library backend through the dispatcher.
type Client struct {
	http    httpclient.Client
	routes  *httpclient.RouteTable
	schema  SchemaSource
	now     func() time.Time
	encoder *form.Encoder
}

// Option configures a Client.
type Option func(*Client)

// WithSchema lets the client guess resource paths from the API document.
func WithSchema(src SchemaSource) Option {
	return func(c *Client) {
		c.schema = src
	}
}

// WithRouteTable sets the route table the dispatcher resolves paths with.
// It defaults to httpclient.DefaultRouteTable.
func WithRouteTable(t *httpclient.RouteTable) Option {
	return func(c *Client) {
		if t != nil {
			c.routes = t
		}
	}
}

// WithClock replaces time.Now, used for default date ranges.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// New returns a client sending requests through h.
func New(h httpclient.Client, opts ...Option) *Client {
	c := &Client{
		http:    h,
		routes:  httpclient.DefaultRouteTable(),
		now:     time.Now,
		encoder: form.NewEncoder(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// query encodes a struct with `schema` tags into URL values.
func (c *Client) query(q any) (url.Values, error) {
	if q == nil {
		return nil, nil
	}
	vals := url.Values{}
	if err := c.encoder.Encode(q, vals); err != nil {
		return nil, ErrEncodeQuery.Err(err)
	}
	return vals, nil
}

// call sends a request and returns the decoded body.
func (c *Client) call(ctx context.Context, method, path string, q any, body any) (*httpclient.Response, error) {
	vals, err := c.query(q)
	if err != nil {
		return nil, err
	}
	return c.http.Do(ctx, httpclient.Request{
		Method: method,
		Path:   path,
		Query:  vals,
		Body:   body,
	})
}

// fetch sends a request and decodes the response body into a new T. An empty
// body gives a nil result.
func fetch[T any](ctx context.Context, c *Client, method, path string, q any, body any) (*T, error) {
	resp, err := c.call(ctx, method, path, q, body)
	if err != nil {
		return nil, err
	}
	if resp.Body == nil {
		return nil, nil
	}
	out := new(T)
	if err := decode(resp.Body, out); err != nil {
		return nil, err
	}
	return out, nil
}

// fetchPage decodes a page response. A bare array is accepted as a single
// page holding every element.
func fetchPage[T any](ctx context.Context, c *Client, path string, q any) (*api.Page[T], error) {
	resp, err := c.call(ctx, http.MethodGet, path, q, nil)
	if err != nil {
		return nil, err
	}
	return decodePage[T](resp.Body)
}

// decode copies a decoded JSON value into out using the json field names.
func decode(in any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return ErrDecode.Err(err)
	}
	if err := dec.Decode(in); err != nil {
		return ErrDecode.Err(err)
	}
	return nil
}

func decodePage[T any](in any) (*api.Page[T], error) {
	page := &api.Page[T]{}
	if arr, ok := in.([]any); ok {
		if err := decode(arr, &page.Content); err != nil {
			return nil, err
		}
		page.TotalElements = int64(len(page.Content))
		page.Size = len(page.Content)
		if len(page.Content) > 0 {
			page.TotalPages = 1
		}
		return page, nil
	}
	if in == nil {
		return page, nil
	}
	if err := decode(in, page); err != nil {
		return nil, err
	}
	return page, nil
}

// checkInput validates a request DTO.
func checkInput(v any) error {
	msg, err := validate.Struct(v)
	if err == nil {
		return nil
	}
	return ErrInvalidInput.MsgErr(msg, err)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
