package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func docWithPaths(paths ...string) *Document {
	doc := &Document{}
	for _, p := range paths {
		doc.Paths = append(doc.Paths, PathItem{Path: p})
	}
	return doc
}

func TestGuessResourcePaths(t *testing.T) {
	tests := []struct {
		name string
		doc  *Document
		want ResourcePaths
	}{
		{
			name: "nil document",
			doc:  nil,
			want: ResourcePaths{},
		},
		{
			name: "no members path",
			doc:  docWithPaths("/api/books", "/api/loans"),
			want: ResourcePaths{Books: "/api/books", Loans: "/api/loans"},
		},
		{
			name: "keyword priority beats document order",
			doc:  docWithPaths("/api/book/{id}", "/api/books", "/api/users", "/api/members"),
			want: ResourcePaths{Books: "/api/books", Members: "/api/members"},
		},
		{
			name: "document order within one keyword",
			doc:  docWithPaths("/api/admin/users", "/api/users/{id}", "/api/me/loans/history", "/api/loans"),
			want: ResourcePaths{Members: "/api/admin/users", Loans: "/api/me/loans/history"},
		},
		{
			name: "case insensitive, original path returned",
			doc:  docWithPaths("/API/Catalog", "/Patrons", "/Rentals"),
			want: ResourcePaths{Books: "/API/Catalog", Members: "/Patrons", Loans: "/Rentals"},
		},
		{
			name: "borrow matches after borrows",
			doc:  docWithPaths("/borrow/now", "/borrows"),
			want: ResourcePaths{Loans: "/borrows"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GuessResourcePaths(tt.doc)
			assert.Equal(t, tt.want, got)
			for _, rk := range ResourceKeywords {
				p := got.Get(rk.Resource)
				if p != "" {
					assert.Contains(t, tt.doc.PathNames(), p)
				}
			}
		})
	}
}
