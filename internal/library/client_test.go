package library

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tansive/libdesk/internal/common/httpclient"
	"github.com/tansive/libdesk/pkg/api"
)

type backendConfig struct{ url string }

func (c backendConfig) GetServerURL() string                  { return c.url }
func (c backendConfig) GetToken() string                      { return "tok" }
func (c backendConfig) GetRouteTable() *httpclient.RouteTable { return httpclient.DefaultRouteTable() }

type recorded struct {
	method string
	path   string
	query  url.Values
	body   string
	count  int
}

// reply answers every request with status and body, recording what it saw.
func reply(t *testing.T, seen *recorded, status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		data, err := io.ReadAll(req.Body)
		require.NoError(t, err)
		seen.method, seen.path, seen.query, seen.body = req.Method, req.URL.Path, req.URL.Query(), string(data)
		seen.count++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func newTestClient(routes func(r chi.Router), opts ...Option) *Client {
	r := chi.NewRouter()
	routes(r)
	d := httpclient.NewDispatcher(backendConfig{url: "http://library.test"},
		httpclient.WithTransport(httpclient.HandlerTransport(r)))
	return New(d, opts...)
}

func TestListBooks(t *testing.T) {
	var seen recorded
	c := newTestClient(func(r chi.Router) {
		r.Get("/api/books", reply(t, &seen, http.StatusOK, `{
			"content":[{"id":1,"title":"Dune","totalCopies":"3","availableCopies":2,
			  "authors":[{"id":7,"firstName":"Frank","lastName":"Herbert"}]}],
			"totalElements":1,"totalPages":1,"number":0,"size":200}`))
	})

	page, err := c.ListBooks(context.Background(), BookQuery{Title: "dune", AvailableOnly: true})
	require.NoError(t, err)
	assert.Equal(t, "0", seen.query.Get("page"))
	assert.Equal(t, "200", seen.query.Get("size"))
	assert.Equal(t, "dune", seen.query.Get("title"))
	assert.Equal(t, "true", seen.query.Get("availableOnly"))
	assert.False(t, seen.query.Has("author"))
	assert.False(t, seen.query.Has("categoryId"))

	require.Len(t, page.Content, 1)
	book := page.Content[0]
	assert.Equal(t, int64(1), book.ID)
	assert.Equal(t, 3, book.TotalCopies)
	assert.Equal(t, "Frank Herbert", FormatAuthors(book.Authors))
	assert.Equal(t, int64(1), page.TotalElements)
}

func TestDecodePage(t *testing.T) {
	tests := []struct {
		name  string
		in    any
		total int64
		pages int
	}{
		{"nil body", nil, 0, 0},
		{"bare array", []any{map[string]any{"id": 1.0}, map[string]any{"id": 2.0}}, 2, 1},
		{"empty array", []any{}, 0, 0},
		{"spring page", map[string]any{"content": []any{map[string]any{"id": 1.0}}, "totalElements": 40.0, "totalPages": 2.0}, 40, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := decodePage[api.Author](tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.total, page.TotalElements)
			assert.Equal(t, tt.pages, page.TotalPages)
		})
	}

	_, err := decodePage[api.Author]("plain text")
	assert.ErrorIs(t, err, ErrDecode)
}

func TestBorrowAndExtend(t *testing.T) {
	var seen recorded
	c := newTestClient(func(r chi.Router) {
		r.Post("/api/loans", reply(t, &seen, http.StatusCreated, `{"id":9,"status":"ACTIVE"}`))
		r.Post("/api/loans/{id}/extend", reply(t, &seen, http.StatusOK, `{"id":9,"status":"ACTIVE","extensionsCount":1}`))
		r.Post("/api/loans/{id}/return", reply(t, &seen, http.StatusOK, `{"id":9,"status":"RETURN_REQUESTED"}`))
	})
	ctx := context.Background()

	loan, err := c.Borrow(ctx, 5)
	require.NoError(t, err)
	assert.JSONEq(t, `{"bookId":5}`, seen.body)
	assert.Equal(t, api.LoanActive, loan.Status)

	loan, err = c.ExtendLoan(ctx, 9, 7)
	require.NoError(t, err)
	assert.Equal(t, "/api/loans/9/extend", seen.path)
	assert.JSONEq(t, `{"additionalDays":7}`, seen.body)
	assert.Equal(t, 1, loan.ExtensionsCount)

	loan, err = c.ReturnLoan(ctx, 9)
	require.NoError(t, err)
	assert.Empty(t, seen.body)
	assert.Equal(t, api.LoanReturnRequested, loan.Status)

	_, err = c.Borrow(ctx, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = c.ExtendLoan(ctx, 9, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, 3, seen.count)
}

func TestHTTPErrorPassesThrough(t *testing.T) {
	var seen recorded
	c := newTestClient(func(r chi.Router) {
		r.Get("/api/books/{id}", reply(t, &seen, http.StatusNotFound, `{"message":"Book not found"}`))
	})

	_, err := c.GetBook(context.Background(), 99)
	he, ok := httpclient.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.StatusCode)
	assert.Equal(t, "Book not found", he.Message)
}

func TestStatsRange(t *testing.T) {
	now := func() time.Time { return time.Date(2026, 3, 30, 18, 0, 0, 0, time.UTC) }
	var seen recorded
	c := newTestClient(func(r chi.Router) {
		r.Get("/api/admin/stats/summary", reply(t, &seen, http.StatusOK,
			`{"totalLoans":12,"overdueLoans":1,"mostPopularBooks":[{"bookId":1,"title":"Dune","loansCount":4}]}`))
		r.Get("/api/admin/stats/loans-per-day", reply(t, &seen, http.StatusOK,
			`[{"day":"2026-03-01","loansCount":2},{"day":"2026-03-02","loansCount":0}]`))
	}, WithClock(now))
	ctx := context.Background()

	assert.Equal(t, Range{From: "2026-03-01", To: "2026-03-30"}, c.DefaultRange())

	sum, err := c.StatsSummary(ctx, Range{})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", seen.query.Get("from"))
	assert.Equal(t, "2026-03-30", seen.query.Get("to"))
	assert.Equal(t, int64(12), sum.TotalLoans)
	require.Len(t, sum.MostPopularBooks, 1)

	days, err := c.LoansPerDay(ctx, Range{From: "2026-03-01", To: "2026-03-02"})
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, int64(2), days[0].LoansCount)

	for _, r := range []Range{
		{From: "03/01/2026"},
		{To: "tomorrow"},
		{From: "2026-03-10", To: "2026-03-01"},
	} {
		_, err := c.StatsSummary(ctx, r)
		assert.ErrorIs(t, err, ErrInvalidInput, "%+v", r)
	}
	assert.Equal(t, 2, seen.count)
}
