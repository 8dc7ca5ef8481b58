package library

import (
	"context"
	"net/http"

	"github.com/tansive/libdesk/pkg/api"
)

// Paging selects a page of a Spring Data collection.
type Paging struct {
	Page int `schema:"page"`
	Size int `schema:"size,omitempty"`
}

// DefaultPageSize matches the catalog view's single large page.
const DefaultPageSize = 200

func (p Paging) orDefault() Paging {
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Page < 0 {
		p.Page = 0
	}
	return p
}

// BookQuery filters the public catalog.
type BookQuery struct {
	Paging
	Title               string `schema:"title,omitempty"`
	Author              string `schema:"author,omitempty"`
	CategoryID          int64  `schema:"categoryId,omitempty"`
	PublicationYearFrom int    `schema:"publicationYearFrom,omitempty"`
	PublicationYearTo   int    `schema:"publicationYearTo,omitempty"`
	AvailableOnly       bool   `schema:"availableOnly,omitempty"`
	ActiveOnly          bool   `schema:"activeOnly,omitempty"`
}

// ListBooks returns a page of the catalog.
func (c *Client) ListBooks(ctx context.Context, q BookQuery) (*api.Page[api.Book], error) {
	q.Paging = q.Paging.orDefault()
	return fetchPage[api.Book](ctx, c, "/books", q)
}

// GetBook returns a single catalog entry.
func (c *Client) GetBook(ctx context.Context, id int64) (*api.Book, error) {
	return fetch[api.Book](ctx, c, http.MethodGet, "/books/"+itoa(id), nil, nil)
}
