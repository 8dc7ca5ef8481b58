// Package explorer lists the operations of the backend's API document and
// invokes them with user-supplied payloads.
package explorer

import (
	"cmp"
	"net/url"
	"slices"
	"strings"

	"github.com/tansive/libdesk/internal/schema"
)

// Endpoint is an invokable operation derived from the API document.
type Endpoint struct {
	Path           string      `json:"path"`
	Method         schema.Verb `json:"method"`
	Summary        string      `json:"summary,omitempty"`
	Tags           []string    `json:"tags,omitempty"`
	HasRequestBody bool        `json:"hasRequestBody,omitempty"`
}

// FirstTag returns the first declared tag, or "".
func (e Endpoint) FirstTag() string {
	if len(e.Tags) == 0 {
		return ""
	}
	return e.Tags[0]
}

// String renders "METHOD path".
func (e Endpoint) String() string {
	return string(e.Method) + " " + e.Path
}

// searchText is what FilterEndpoints matches against.
func (e Endpoint) searchText() string {
	return strings.ToLower(string(e.Method) + " " + e.Path + " " + strings.Join(e.Tags, " ") + " " + e.Summary)
}

// ListEndpoints flattens every path and verb of doc, sorted by first tag
// (untagged first), then path, then method. A nil document gives nil.
func ListEndpoints(doc *schema.Document) []Endpoint {
	if doc == nil {
		return nil
	}
	var out []Endpoint
	for _, item := range doc.Paths {
		for _, op := range item.Operations {
			summary := op.Summary
			if summary == "" {
				summary = op.OperationID
			}
			out = append(out, Endpoint{
				Path:           item.Path,
				Method:         op.Verb,
				Summary:        summary,
				Tags:           slices.Clone(op.Tags),
				HasRequestBody: op.HasRequestBody(),
			})
		}
	}
	slices.SortStableFunc(out, func(a, b Endpoint) int {
		return cmp.Or(
			cmp.Compare(a.FirstTag(), b.FirstTag()),
			cmp.Compare(a.Path, b.Path),
			cmp.Compare(a.Method, b.Method),
		)
	})
	return out
}

// FilterEndpoints keeps the endpoints whose method, path, tags or summary
// contain query, ignoring case. A blank query returns list itself.
func FilterEndpoints(list []Endpoint, query string) []Endpoint {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return list
	}
	out := make([]Endpoint, 0, len(list))
	for _, e := range list {
		if strings.Contains(e.searchText(), q) {
			out = append(out, e)
		}
	}
	return out
}

// FindEndpoint returns the endpoint with the given method and path.
func FindEndpoint(list []Endpoint, method, path string) (Endpoint, bool) {
	verb, ok := schema.ParseVerb(method)
	if !ok {
		return Endpoint{}, false
	}
	for _, e := range list {
		if e.Method == verb && e.Path == path {
			return e, true
		}
	}
	return Endpoint{}, false
}

// Expand substitutes {name} segments of the path with params, escaping each
// value. A template parameter missing from params is an error.
func (e Endpoint) Expand(params map[string]string) (string, error) {
	var b strings.Builder
	rest := e.Path
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			return b.String(), nil
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			b.WriteString(rest)
			return b.String(), nil
		}
		name := rest[open+1 : open+end]
		v, ok := params[name]
		if !ok {
			return "", ErrMissingParam.Msg("missing path parameter " + name)
		}
		b.WriteString(rest[:open])
		b.WriteString(url.PathEscape(v))
		rest = rest[open+end+1:]
	}
}
