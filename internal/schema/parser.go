package schema

import (
	"bytes"
	"encoding/json"

	"github.com/tidwall/gjson"
)

// Parse builds a Document from raw JSON. The top level must be an object with
// a paths object. Path keys keep their document order; keys under a path
// that are not supported verbs, and verbs whose value is not an object, are
// skipped.
func Parse(data []byte) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyDocument
	}
	if !gjson.ValidBytes(data) {
		return nil, ErrMalformedDocument
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, ErrMalformedDocument
	}
	paths := root.Get("paths")
	if !paths.IsObject() {
		return nil, ErrMissingPaths
	}

	doc := &Document{
		OpenAPI: stringField(root, "openapi"),
		Swagger: stringField(root, "swagger"),
		Info: Info{
			Title:       stringField(root, "info.title"),
			Version:     stringField(root, "info.version"),
			Description: stringField(root, "info.description"),
		},
	}
	root.Get("servers").ForEach(func(_, s gjson.Result) bool {
		if u := stringField(s, "url"); u != "" {
			doc.Servers = append(doc.Servers, Server{URL: u, Description: stringField(s, "description")})
		}
		return true
	})
	if c := root.Get("components"); c.IsObject() {
		doc.Components = json.RawMessage(c.Raw)
	}

	// a path key repeated in the document is merged into its first occurrence
	index := make(map[string]int)
	paths.ForEach(func(key, value gjson.Result) bool {
		i, seen := index[key.String()]
		if !seen {
			i = len(doc.Paths)
			index[key.String()] = i
			doc.Paths = append(doc.Paths, PathItem{Path: key.String()})
		}
		if value.IsObject() {
			value.ForEach(func(k, v gjson.Result) bool {
				verb, ok := ParseVerb(k.String())
				if !ok || !v.IsObject() {
					return true
				}
				doc.Paths[i].setOperation(parseOperation(verb, v))
				return true
			})
		}
		return true
	})
	return doc, nil
}

// setOperation adds op, replacing an earlier declaration of the same verb.
func (p *PathItem) setOperation(op Operation) {
	for i := range p.Operations {
		if p.Operations[i].Verb == op.Verb {
			p.Operations[i] = op
			return
		}
	}
	p.Operations = append(p.Operations, op)
}

func parseOperation(verb Verb, v gjson.Result) Operation {
	op := Operation{
		Verb:        verb,
		Summary:     stringField(v, "summary"),
		Description: stringField(v, "description"),
		OperationID: stringField(v, "operationId"),
	}
	v.Get("tags").ForEach(func(_, t gjson.Result) bool {
		if t.Type == gjson.String {
			op.Tags = append(op.Tags, t.String())
		}
		return true
	})
	v.Get("parameters").ForEach(func(_, p gjson.Result) bool {
		if !p.IsObject() {
			return true
		}
		typ := stringField(p, "schema.type")
		if typ == "" {
			typ = stringField(p, "type")
		}
		op.Parameters = append(op.Parameters, Parameter{
			Name:     stringField(p, "name"),
			In:       stringField(p, "in"),
			Required: p.Get("required").Bool(),
			Type:     typ,
			Ref:      stringField(p, "$ref"),
		})
		return true
	})
	if rb := v.Get("requestBody"); rb.IsObject() {
		op.RequestBody = json.RawMessage(rb.Raw)
	} else {
		// swagger 2 declares the body as an "in: body" parameter
		for _, p := range op.Parameters {
			if p.In == "body" {
				op.RequestBody = json.RawMessage(`{}`)
				break
			}
		}
	}
	return op
}

func stringField(r gjson.Result, path string) string {
	f := r.Get(path)
	if f.Type != gjson.String {
		return ""
	}
	return f.String()
}
