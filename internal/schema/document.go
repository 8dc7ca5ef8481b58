// Package schema fetches, caches and interprets the backend's OpenAPI
// document.
package schema

import (
	"encoding/json"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Verb is an HTTP method an operation can be declared under.
type Verb string

const (
	GET    Verb = "GET"
	POST   Verb = "POST"
	PUT    Verb = "PUT"
	PATCH  Verb = "PATCH"
	DELETE Verb = "DELETE"
)

// Verbs lists the supported verbs in their canonical order.
var Verbs = []Verb{GET, POST, PUT, PATCH, DELETE}

// ParseVerb maps a path-item key to a Verb. Keys such as "parameters",
// "summary", "head" or "options" are not verbs.
func ParseVerb(key string) (Verb, bool) {
	v := Verb(strings.ToUpper(key))
	for _, known := range Verbs {
		if v == known {
			return v, true
		}
	}
	return "", false
}

// SendsBody reports whether requests with this verb carry a body.
func (v Verb) SendsBody() bool {
	return v != GET && v != DELETE
}

func (v Verb) String() string {
	return string(v)
}

// Info is the document's info object.
type Info struct {
	Title       string `json:"title,omitempty"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`
}

// Server is an entry of the document's servers list.
type Server struct {
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// Parameter is a declared operation parameter.
type Parameter struct {
	Name     string `json:"name,omitempty"`
	In       string `json:"in,omitempty"`
	Required bool   `json:"required,omitempty"`
	Type     string `json:"type,omitempty"`
	Ref      string `json:"$ref,omitempty"`
}

// Operation is one verb declared under a path.
type Operation struct {
	Verb        Verb            `json:"method"`
	Summary     string          `json:"summary,omitempty"`
	Description string          `json:"description,omitempty"`
	OperationID string          `json:"operationId,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	Parameters  []Parameter     `json:"parameters,omitempty"`
	RequestBody json.RawMessage `json:"requestBody,omitempty"`
}

// HasRequestBody reports whether the operation declares a request body.
func (o *Operation) HasRequestBody() bool {
	return len(o.RequestBody) > 0
}

// PathItem is a path with the operations declared under it.
type PathItem struct {
	Path       string      `json:"path"`
	Operations []Operation `json:"operations,omitempty"`
}

// Document is the parsed API description. Paths keep the document's order.
type Document struct {
	OpenAPI    string          `json:"openapi,omitempty"`
	Swagger    string          `json:"swagger,omitempty"`
	Info       Info            `json:"info"`
	Servers    []Server        `json:"servers,omitempty"`
	Paths      []PathItem      `json:"paths"`
	Components json.RawMessage `json:"components,omitempty"`
}

// PathNames returns the declared paths in document order.
func (d *Document) PathNames() []string {
	if d == nil {
		return nil
	}
	names := make([]string, 0, len(d.Paths))
	for _, p := range d.Paths {
		names = append(names, p.Path)
	}
	return names
}

// Lookup returns the path item for path, or nil.
func (d *Document) Lookup(path string) *PathItem {
	if d == nil {
		return nil
	}
	for i := range d.Paths {
		if d.Paths[i].Path == path {
			return &d.Paths[i]
		}
	}
	return nil
}

// OperationCount returns the number of operations across all paths.
func (d *Document) OperationCount() int {
	if d == nil {
		return 0
	}
	n := 0
	for _, p := range d.Paths {
		n += len(p.Operations)
	}
	return n
}

// CheckVersion validates the declared openapi (3.x) or swagger (2.x) version.
func (d *Document) CheckVersion() error {
	declared, major := d.OpenAPI, uint64(3)
	if declared == "" {
		declared, major = d.Swagger, 2
	}
	if declared == "" {
		return ErrUnsupportedVersion.Msg("schema document declares no openapi or swagger version")
	}
	v, err := semver.NewVersion(declared)
	if err != nil {
		return ErrUnsupportedVersion.MsgErr("unparseable schema version "+declared, err)
	}
	if v.Major() != major {
		return ErrUnsupportedVersion.Msg("unexpected schema version " + declared)
	}
	return nil
}
