package library

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"github.com/tansive/libdesk/internal/common/httpclient"
	"github.com/tansive/libdesk/internal/schema"
)

// Strategy is one place the member list may be served from.
type Strategy struct {
	Name string
	Path string
}

// FallbackMemberPaths are tried after the path guessed from the API document.
var FallbackMemberPaths = []string{"/api/admin/users", "/admin/users", "/users"}

// MaxMemberColumns caps the columns shown for member rows.
const MaxMemberColumns = 10

// PreferredMemberColumns come first, in this order, when present.
var PreferredMemberColumns = []string{"id", "email", "firstName", "lastName", "role", "status", "createdAt"}

// MemberStrategies returns the paths to try, schema-guessed first. A guessed
// path holding a template parameter is skipped. Paths resolving to the same
// route are tried once.
func (c *Client) MemberStrategies(ctx context.Context) []Strategy {
	var out []Strategy
	seen := map[string]bool{}
	add := func(name, p string) {
		p = httpclient.NormalizePath(p)
		if p == "" || p == "/" {
			return
		}
		route := c.routes.Resolve(p)
		if seen[route] {
			return
		}
		seen[route] = true
		out = append(out, Strategy{Name: name, Path: p})
	}
	if c.schema != nil {
		if doc := c.schema.Fetch(ctx, false); doc != nil {
			guessed := schema.GuessResourcePaths(doc).Members
			if !strings.Contains(guessed, "{") {
				add("schema", guessed)
			}
		}
	}
	for _, p := range FallbackMemberPaths {
		add("fallback", p)
	}
	return out
}

// Members is a member listing of unknown shape.
type Members struct {
	Strategy Strategy
	records  []gjson.Result
}

// ListMembers tries each strategy in order and returns the first listing
// that answers. When all fail the error carries every attempt.
func (c *Client) ListMembers(ctx context.Context) (*Members, error) {
	var errs []error
	for _, s := range c.MemberStrategies(ctx) {
		logger := log.Ctx(ctx).With().Str("strategy", s.Name).Str("path", s.Path).Logger()
		resp, err := c.call(ctx, http.MethodGet, s.Path, nil, nil)
		if err != nil {
			logger.Debug().Err(err).Msg("members strategy failed")
			errs = append(errs, ErrLibrary.MsgErr(s.Path, err))
			continue
		}
		logger.Debug().Msg("members strategy succeeded")
		return &Members{Strategy: s, records: records(resp.Raw)}, nil
	}
	return nil, ErrNoMembersPath.Err(errs...)
}

// records finds the row array in a raw body: the body itself, or its
// content, items or data field. Non-object rows are dropped.
func records(raw []byte) []gjson.Result {
	doc := gjson.ParseBytes(raw)
	if !doc.IsArray() {
		doc = gjson.Result{}
		for _, key := range []string{"content", "items", "data"} {
			if r := gjson.GetBytes(raw, key); r.IsArray() {
				doc = r
				break
			}
		}
	}
	var out []gjson.Result
	for _, r := range doc.Array() {
		if r.IsObject() {
			out = append(out, r)
		}
	}
	return out
}

// Rows extracts the row array from a decoded body: the body itself when it
// is an array, else its content, items or data field.
func Rows(v any) []map[string]any {
	var arr []any
	switch t := v.(type) {
	case []any:
		arr = t
	case map[string]any:
		for _, key := range []string{"content", "items", "data"} {
			if a, ok := t[key].([]any); ok {
				arr = a
				break
			}
		}
	}
	out := make([]map[string]any, 0, len(arr))
	for _, e := range arr {
		if m, ok := e.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// Len returns the number of rows.
func (m *Members) Len() int {
	return len(m.records)
}

// Rows returns the decoded rows.
func (m *Members) Rows() []map[string]any {
	out := make([]map[string]any, 0, len(m.records))
	for _, r := range m.records {
		if v, ok := r.Value().(map[string]any); ok {
			out = append(out, v)
		}
	}
	return out
}

// Columns lists the keys of the first row, preferred keys first and the rest
// in document order, capped at MaxMemberColumns.
func (m *Members) Columns() []string {
	if len(m.records) == 0 {
		return nil
	}
	var keys []string
	m.records[0].ForEach(func(k, _ gjson.Result) bool {
		keys = append(keys, k.String())
		return true
	})
	rank := func(k string) int {
		if i := slices.Index(PreferredMemberColumns, k); i >= 0 {
			return i
		}
		return len(PreferredMemberColumns)
	}
	slices.SortStableFunc(keys, func(a, b string) int {
		return rank(a) - rank(b)
	})
	if len(keys) > MaxMemberColumns {
		keys = keys[:MaxMemberColumns]
	}
	return keys
}

// Cell renders one field of row i; nested values stay as compact JSON.
func (m *Members) Cell(i int, column string) string {
	if i < 0 || i >= len(m.records) {
		return ""
	}
	r := m.records[i].Get(gjson.Escape(column))
	switch {
	case !r.Exists(), r.Type == gjson.Null:
		return ""
	case r.IsObject(), r.IsArray():
		return string(pretty.Ugly([]byte(r.Raw)))
	}
	return r.String()
}

// Filter keeps the rows whose compact JSON contains q, ignoring case. An
// empty query keeps every row.
func (m *Members) Filter(q string) *Members {
	needle := strings.ToLower(strings.TrimSpace(q))
	if needle == "" {
		return m
	}
	out := &Members{Strategy: m.Strategy}
	for _, r := range m.records {
		compact := strings.ToLower(string(pretty.Ugly([]byte(r.Raw))))
		if strings.Contains(compact, needle) {
			out.records = append(out.records, r)
		}
	}
	return out
}
