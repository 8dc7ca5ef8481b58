package schema

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tansive/libdesk/internal/common/httpclient"
)

type stubClient struct {
	mu    sync.Mutex
	calls int
	paths []string
	raw   string
	err   error
}

func (s *stubClient) Do(_ context.Context, r httpclient.Request) (*httpclient.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.paths = append(s.paths, r.Path)
	if s.err != nil {
		return nil, s.err
	}
	return &httpclient.Response{StatusCode: http.StatusOK, Raw: []byte(s.raw), Body: httpclient.DecodeBody([]byte(s.raw))}, nil
}

func (s *stubClient) Request(ctx context.Context, path, method string, body any) (any, error) {
	resp, err := s.Do(ctx, httpclient.Request{Method: method, Path: path, Body: body})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func (s *stubClient) set(raw string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw, s.err = raw, err
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestCacheFetchTTL(t *testing.T) {
	stub := &stubClient{raw: `{"openapi":"3.0.1","paths":{"/api/books":{}}}`}
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewCache(stub, "", WithClock(clock.Now))
	ctx := context.Background()

	first := c.Fetch(ctx, false)
	require.NotNil(t, first)
	assert.Equal(t, []string{DefaultPath}, stub.paths)

	clock.Advance(59 * time.Second)
	assert.Same(t, first, c.Fetch(ctx, false))
	assert.Equal(t, 1, stub.calls)

	clock.Advance(time.Second)
	second := c.Fetch(ctx, false)
	require.NotNil(t, second)
	assert.NotSame(t, first, second)
	assert.Equal(t, 2, stub.calls)

	forced := c.Fetch(ctx, true)
	require.NotNil(t, forced)
	assert.Equal(t, 3, stub.calls)
}

func TestCacheCustomTTLAndInvalidate(t *testing.T) {
	stub := &stubClient{raw: `{"openapi":"3.0.1","paths":{}}`}
	clock := &fakeClock{now: time.Unix(0, 0)}
	c := NewCache(stub, "/openapi.json", WithTTL(time.Hour), WithClock(clock.Now))
	ctx := context.Background()

	require.NotNil(t, c.Fetch(ctx, false))
	clock.Advance(30 * time.Minute)
	require.NotNil(t, c.Fetch(ctx, false))
	assert.Equal(t, 1, stub.calls)
	assert.Equal(t, []string{"/openapi.json"}, stub.paths)

	c.Invalidate()
	doc, at := c.Cached()
	assert.Nil(t, doc)
	assert.True(t, at.IsZero())
	require.NotNil(t, c.Fetch(ctx, false))
	assert.Equal(t, 2, stub.calls)
}

func TestCacheFailuresReturnNil(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		err  error
	}{
		{"network", "", &httpclient.HTTPError{StatusCode: 0, Message: "network error: request failed"}},
		{"not found", "", &httpclient.HTTPError{StatusCode: http.StatusNotFound, Message: "Not Found"}},
		{"other error", "", errors.New("boom")},
		{"empty body", "", nil},
		{"html", "<html>login</html>", nil},
		{"missing paths", `{"openapi":"3.0.1"}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubClient{raw: `{"openapi":"3.0.1","paths":{"/api/books":{}}}`}
			clock := &fakeClock{now: time.Unix(0, 0)}
			c := NewCache(stub, "", WithClock(clock.Now))
			ctx := context.Background()

			old := c.Fetch(ctx, false)
			require.NotNil(t, old)

			stub.set(tt.raw, tt.err)
			assert.Nil(t, c.Fetch(ctx, true), "a failed fetch does not return the older document")

			cached, _ := c.Cached()
			assert.Same(t, old, cached, "a failed fetch does not evict the older document")
			assert.Same(t, old, c.Fetch(ctx, false), "the older document is still served while fresh")
		})
	}
}

func TestCacheUnrecognizedVersionStillCached(t *testing.T) {
	stub := &stubClient{raw: `{"openapi":"9.9","paths":{"/x":{"get":{}}}}`}
	c := NewCache(stub, "")
	doc := c.Fetch(context.Background(), false)
	require.NotNil(t, doc)
	assert.Equal(t, []string{"/x"}, doc.PathNames())
}

func TestCacheConcurrentFetch(t *testing.T) {
	stub := &stubClient{raw: `{"openapi":"3.0.1","paths":{"/api/books":{}}}`}
	c := NewCache(stub, "")
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(force bool) {
			defer wg.Done()
			assert.NotNil(t, c.Fetch(ctx, force))
		}(i%4 == 0)
	}
	wg.Wait()
	doc, _ := c.Cached()
	assert.NotNil(t, doc)
}
