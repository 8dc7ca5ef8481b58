package explorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tansive/libdesk/internal/schema"
)

func mustParse(t *testing.T, raw string) *schema.Document {
	t.Helper()
	doc, err := schema.Parse([]byte(raw))
	require.NoError(t, err)
	return doc
}

const explorerDoc = `{
  "openapi": "3.0.1",
  "paths": {
    "/api/loans": {
      "post": {"tags": ["loans"], "summary": "Borrow a copy", "requestBody": {"content": {}}},
      "get": {"tags": ["loans"], "operationId": "listLoans"}
    },
    "/api/books/{id}": {
      "get": {"tags": ["books"], "summary": "Get book"},
      "delete": {"tags": ["books", "admin"], "summary": "Delete book"},
      "head": {"tags": ["books"]}
    },
    "/api/books": {
      "get": {"tags": ["books"], "summary": "List books"}
    },
    "/actuator/health": {
      "get": {"summary": "Health"}
    }
  }
}`

func TestListEndpointsOrdering(t *testing.T) {
	got := ListEndpoints(mustParse(t, explorerDoc))
	var names []string
	for _, e := range got {
		names = append(names, e.String())
	}
	assert.Equal(t, []string{
		"GET /actuator/health",
		"GET /api/books",
		"DELETE /api/books/{id}",
		"GET /api/books/{id}",
		"GET /api/loans",
		"POST /api/loans",
	}, names)

	assert.Equal(t, "listLoans", got[4].Summary, "operationId stands in for a missing summary")
	assert.True(t, got[5].HasRequestBody)
	assert.False(t, got[4].HasRequestBody)
	assert.Equal(t, "", got[0].FirstTag())
	assert.Equal(t, "books", got[2].FirstTag())
}

func TestListEndpointsRepeatedPathScenario(t *testing.T) {
	doc := mustParse(t, `{"paths": {"/books": {"get": {"tags": ["catalog"]}}, "/books": {"post": {}}}}`)
	got := ListEndpoints(doc)
	require.Len(t, got, 2)
	// the untagged POST sorts before the catalog-tagged GET
	assert.Equal(t, "POST /books", got[0].String())
	assert.Equal(t, "GET /books", got[1].String())
}

func TestListEndpointsSameTagSortsByMethod(t *testing.T) {
	doc := mustParse(t, `{"paths": {"/books": {"post": {"tags": ["catalog"]}, "get": {"tags": ["catalog"]}}}}`)
	got := ListEndpoints(doc)
	require.Len(t, got, 2)
	assert.Equal(t, "GET /books", got[0].String())
	assert.Equal(t, "POST /books", got[1].String())
}

func TestListEndpointsNilDocument(t *testing.T) {
	assert.Nil(t, ListEndpoints(nil))
}

func TestFilterEndpoints(t *testing.T) {
	list := ListEndpoints(mustParse(t, explorerDoc))

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"method", "delete", []string{"DELETE /api/books/{id}"}},
		{"path case insensitive", "  /API/LOANS ", []string{"GET /api/loans", "POST /api/loans"}},
		{"tag", "admin", []string{"DELETE /api/books/{id}"}},
		{"summary", "borrow a", []string{"POST /api/loans"}},
		{"no match", "penalties", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterEndpoints(list, tt.query)
			names := []string{}
			for _, e := range got {
				names = append(names, e.String())
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestFilterEndpointsBlankQueryIsIdentity(t *testing.T) {
	list := ListEndpoints(mustParse(t, explorerDoc))
	for _, q := range []string{"", "   ", "\t"} {
		got := FilterEndpoints(list, q)
		require.Len(t, got, len(list))
		assert.Same(t, &list[0], &got[0], "the input slice is returned unchanged")
	}
}

func TestFindEndpoint(t *testing.T) {
	list := ListEndpoints(mustParse(t, explorerDoc))
	ep, ok := FindEndpoint(list, "post", "/api/loans")
	require.True(t, ok)
	assert.Equal(t, schema.POST, ep.Method)

	_, ok = FindEndpoint(list, "HEAD", "/api/books/{id}")
	assert.False(t, ok)
	_, ok = FindEndpoint(list, "GET", "/api/nope")
	assert.False(t, ok)
}

func TestPrettyJSON(t *testing.T) {
	assert.Equal(t, "{\n  \"b\": 1,\n  \"a\": 2\n}", PrettyJSON(`{"b":1,"a":2}`))
	assert.Equal(t, "not json", PrettyJSON("not json"))
	assert.Equal(t, "", PrettyJSON(""))
	assert.Equal(t, `"text"`, prettyValue("text"))
	assert.Equal(t, `"a <b> & c"`, prettyValue("a <b> & c"))
	assert.Equal(t, "null", prettyValue(nil))
}

func TestEndpointExpand(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		params  map[string]string
		want    string
		wantErr bool
	}{
		{"no template", "/api/books", nil, "/api/books", false},
		{"one param", "/api/books/{id}", map[string]string{"id": "7"}, "/api/books/7", false},
		{"two params", "/api/loans/{loanId}/copies/{copyId}", map[string]string{"loanId": "1", "copyId": "2"}, "/api/loans/1/copies/2", false},
		{"escaped value", "/api/tags/{name}", map[string]string{"name": "sci fi/space"}, "/api/tags/sci%20fi%2Fspace", false},
		{"unclosed brace kept", "/api/odd/{id", nil, "/api/odd/{id", false},
		{"missing param", "/api/books/{id}", map[string]string{"other": "1"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Endpoint{Path: tt.path}.Expand(tt.params)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMissingParam)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
