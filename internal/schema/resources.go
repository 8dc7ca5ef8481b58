package schema

import "strings"

// Resource is a category of backend collection the UI needs to locate.
type Resource string

const (
	Books   Resource = "books"
	Members Resource = "members"
	Loans   Resource = "loans"
)

// ResourceKeyword lists the substrings that identify a resource's path, in
// priority order.
type ResourceKeyword struct {
	Resource Resource
	Keywords []string
}

// ResourceKeywords drives GuessResourcePaths.
var ResourceKeywords = []ResourceKeyword{
	{Resource: Books, Keywords: []string{"books", "book", "catalog"}},
	{Resource: Members, Keywords: []string{"members", "readers", "users", "clients", "patrons"}},
	{Resource: Loans, Keywords: []string{"loans", "borrows", "borrow", "rentals", "lendings"}},
}

// ResourcePaths holds the guessed path per resource; "" when none matched.
type ResourcePaths struct {
	Books   string `json:"books" yaml:"books"`
	Members string `json:"members" yaml:"members"`
	Loans   string `json:"loans" yaml:"loans"`
}

// Get returns the path guessed for r.
func (p ResourcePaths) Get(r Resource) string {
	switch r {
	case Books:
		return p.Books
	case Members:
		return p.Members
	case Loans:
		return p.Loans
	}
	return ""
}

func (p *ResourcePaths) set(r Resource, path string) {
	switch r {
	case Books:
		p.Books = path
	case Members:
		p.Members = path
	case Loans:
		p.Loans = path
	}
}

// GuessResourcePaths picks, per resource, the first path in document order
// whose lowercase form contains a keyword, trying keywords in priority order.
// A nil document gives empty paths.
func GuessResourcePaths(doc *Document) ResourcePaths {
	var out ResourcePaths
	paths := doc.PathNames()
	lower := make([]string, len(paths))
	for i, p := range paths {
		lower[i] = strings.ToLower(p)
	}
	for _, rk := range ResourceKeywords {
		out.set(rk.Resource, pick(paths, lower, rk.Keywords))
	}
	return out
}

func pick(paths, lower, keywords []string) string {
	for _, k := range keywords {
		for i, p := range lower {
			if strings.Contains(p, k) {
				return paths[i]
			}
		}
	}
	return ""
}
