package schema

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tansive/libdesk/internal/common/httpclient"
)

const (
	// DefaultPath is where Spring-style backends serve their API document.
	DefaultPath = "/v3/api-docs"
	// DefaultTTL is how long a fetched document is served from memory.
	DefaultTTL = 60 * time.Second
)

// Cache holds the most recently fetched document. It is safe for concurrent
// use; concurrent misses may both fetch, and the last write wins.
type Cache struct {
	client httpclient.Client
	path   string
	ttl    time.Duration
	now    func() time.Time

	mu        sync.RWMutex
	doc       *Document
	fetchedAt time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL sets the freshness window. Non-positive values keep the default.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCache returns a cache fetching path through client. An empty path
// means DefaultPath.
func NewCache(client httpclient.Client, path string, opts ...Option) *Cache {
	if path == "" {
		path = DefaultPath
	}
	c := &Cache{
		client: client,
		path:   path,
		ttl:    DefaultTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Path returns the document path.
func (c *Cache) Path() string {
	return c.path
}

// Fetch returns the cached document while it is fresh, unless force is set.
// Otherwise the document is fetched again. Every failure is logged and gives
// nil; a failed fetch keeps an older document in the cache without returning
// it.
func (c *Cache) Fetch(ctx context.Context, force bool) *Document {
	now := c.now()
	if !force {
		c.mu.RLock()
		doc, at := c.doc, c.fetchedAt
		c.mu.RUnlock()
		if doc != nil && now.Sub(at) < c.ttl {
			return doc
		}
	}

	logger := log.Ctx(ctx).With().Str("path", c.path).Logger()
	resp, err := c.client.Do(ctx, httpclient.Request{Method: http.MethodGet, Path: c.path})
	if err != nil {
		logger.Warn().Err(err).Msg("schema fetch failed")
		return nil
	}
	doc, err := Parse(resp.Raw)
	if err != nil {
		logger.Warn().Err(err).Msg("schema document rejected")
		return nil
	}
	if err := doc.CheckVersion(); err != nil {
		logger.Warn().Err(err).Str("openapi", doc.OpenAPI).Str("swagger", doc.Swagger).Msg("schema version not recognized")
	}
	logger.Debug().Int("paths", len(doc.Paths)).Int("operations", doc.OperationCount()).Msg("schema fetched")

	c.mu.Lock()
	c.doc = doc
	c.fetchedAt = now
	c.mu.Unlock()
	return doc
}

// Invalidate drops the cached document.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.doc = nil
	c.fetchedAt = time.Time{}
}

// Cached returns the cached document and when it was fetched, fresh or not.
func (c *Cache) Cached() (*Document, time.Time) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.doc, c.fetchedAt
}
