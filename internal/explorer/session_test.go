package explorer

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tansive/libdesk/internal/common/httpclient"
	"github.com/tansive/libdesk/internal/schema"
)

type staticSource struct {
	doc    *schema.Document
	forced []bool
}

func (s *staticSource) Fetch(_ context.Context, force bool) *schema.Document {
	s.forced = append(s.forced, force)
	return s.doc
}

// sequencedClient blocks call i until a body is sent on gates[i].
type sequencedClient struct {
	mu    sync.Mutex
	next  int
	gates []chan string
	calls chan int
}

func newSequencedClient(n int) *sequencedClient {
	c := &sequencedClient{calls: make(chan int, n)}
	for i := 0; i < n; i++ {
		c.gates = append(c.gates, make(chan string, 1))
	}
	return c
}

func (c *sequencedClient) Do(ctx context.Context, r httpclient.Request) (*httpclient.Response, error) {
	c.mu.Lock()
	i := c.next
	c.next++
	c.mu.Unlock()
	c.calls <- i
	body := <-c.gates[i]
	return &httpclient.Response{StatusCode: http.StatusOK, Raw: []byte(body), Body: httpclient.DecodeBody([]byte(body))}, nil
}

func (c *sequencedClient) Request(ctx context.Context, path, method string, body any) (any, error) {
	resp, err := c.Do(ctx, httpclient.Request{Method: method, Path: path, Body: body})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func TestSessionStateMachine(t *testing.T) {
	var seen seenRequest
	src := &staticSource{doc: mustParse(t, explorerDoc)}
	s := NewSession(src, newTestInvoker(t, &seen))
	ctx := context.Background()

	assert.Equal(t, Idle, s.State())
	_, err := s.Select("GET", "/api/books")
	assert.ErrorIs(t, err, ErrNotReady)
	_, _, err = s.Invoke(ctx, "", "")
	assert.ErrorIs(t, err, ErrNoSelection)

	assert.Equal(t, Ready, s.Load(ctx, true))
	assert.Equal(t, []bool{true}, src.forced)
	assert.Len(t, s.Endpoints(), 6)

	s.SetFilter("books")
	assert.Equal(t, Ready, s.State(), "filtering never changes state")
	assert.Len(t, s.Endpoints(), 3)
	assert.Equal(t, "books", s.Filter())

	_, err = s.Select("PUT", "/api/books")
	assert.ErrorIs(t, err, ErrUnknownEndpoint)
	assert.Equal(t, Ready, s.State())

	ep, err := s.Select("get", "/api/books")
	require.NoError(t, err)
	assert.Equal(t, "GET /api/books", ep.String())
	assert.Equal(t, EndpointSelected, s.State())
	require.NotNil(t, s.Selected())

	res, applied, err := s.Invoke(ctx, "", "")
	require.NoError(t, err)
	assert.True(t, applied)
	assert.False(t, res.Failed())
	assert.Equal(t, InvokeSucceeded, s.State())
	require.NotNil(t, s.Result())

	s.SetFilter("")
	assert.Equal(t, InvokeSucceeded, s.State())

	require.NoError(t, s.Dismiss())
	assert.Equal(t, EndpointSelected, s.State())
	assert.Nil(t, s.Result())
	assert.ErrorIs(t, s.Dismiss(), ErrInvalidTransition)

	_, err = s.Select("GET", "/api/books/{id}")
	require.NoError(t, err)
	res, _, err = s.Invoke(ctx, "", "")
	require.NoError(t, err)
	assert.True(t, res.Failed())
	assert.Equal(t, InvokeFailed, s.State())

	_, err = s.Select("POST", "/api/loans")
	require.NoError(t, err)
	res, _, err = s.Invoke(ctx, "{oops", "")
	require.NoError(t, err)
	assert.True(t, res.Validation)
	assert.Equal(t, InvokeFailed, s.State())

	s.SetFilter("loans")
	assert.Equal(t, Ready, s.Refresh(ctx))
	assert.Nil(t, s.Selected(), "refresh clears the selection")
	assert.Equal(t, []bool{true, true}, src.forced)
	assert.Equal(t, "loans", s.Filter(), "filter text survives a refresh")
	assert.Len(t, s.Endpoints(), 2)
}

func TestSessionUnavailable(t *testing.T) {
	src := &staticSource{}
	s := NewSession(src, NewInvoker(newSequencedClient(0)))
	assert.Equal(t, Unavailable, s.Load(context.Background(), false))
	assert.Empty(t, s.Endpoints())
	assert.Nil(t, s.Document())
	_, err := s.Select("GET", "/api/books")
	assert.ErrorIs(t, err, ErrNotReady)

	src.doc = mustParse(t, explorerDoc)
	assert.Equal(t, Ready, s.Refresh(context.Background()))
	assert.NotNil(t, s.Document())
}

func TestSessionDiscardsStaleInvocation(t *testing.T) {
	client := newSequencedClient(2)
	s := NewSession(&staticSource{doc: mustParse(t, explorerDoc)}, NewInvoker(client))
	ctx := context.Background()
	require.Equal(t, Ready, s.Load(ctx, false))
	_, err := s.Select("GET", "/api/books")
	require.NoError(t, err)

	type outcome struct {
		res     Result
		applied bool
	}
	first := make(chan outcome, 1)
	go func() {
		res, applied, _ := s.Invoke(ctx, "", "")
		first <- outcome{res, applied}
	}()
	require.Equal(t, 0, <-client.calls)
	assert.Equal(t, Invoking, s.State())

	second := make(chan outcome, 1)
	go func() {
		res, applied, _ := s.Invoke(ctx, "", "")
		second <- outcome{res, applied}
	}()
	require.Equal(t, 1, <-client.calls)

	client.gates[1] <- `{"call":"second"}`
	got2 := <-second
	assert.True(t, got2.applied)
	assert.Equal(t, InvokeSucceeded, s.State())

	client.gates[0] <- `{"call":"first"}`
	got1 := <-first
	assert.False(t, got1.applied, "the older invocation is discarded")
	assert.Contains(t, got1.res.Success, "first")

	require.NotNil(t, s.Result())
	assert.Contains(t, s.Result().Success, "second")
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "endpoint-selected", EndpointSelected.String())
	assert.Equal(t, "unknown", State(99).String())
}

func TestSessionInvokeWithParams(t *testing.T) {
	var seen seenRequest
	s := NewSession(&staticSource{doc: mustParse(t, explorerDoc)}, newTestInvoker(t, &seen))
	ctx := context.Background()
	require.Equal(t, Ready, s.Load(ctx, false))

	_, err := s.Select("GET", "/api/books/{id}")
	require.NoError(t, err)

	res, applied, err := s.InvokeWithParams(ctx, map[string]string{"id": "99"}, "", "")
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, "/api/books/99", seen.path)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, _, err = s.InvokeWithParams(ctx, map[string]string{"bookId": "1"}, "", "")
	require.NoError(t, err)
	assert.True(t, res.Validation)
	assert.Contains(t, res.Err, "id")
	assert.Equal(t, InvokeFailed, s.State())
	assert.Equal(t, 1, seen.count)
	assert.Equal(t, "/api/books/{id}", s.Selected().Path, "the selection keeps its template")
}
