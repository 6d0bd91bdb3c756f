package spacetraveling

import (
	"context"
	"sync"
	"time"

	"github.com/eringen/spacetraveling/content"
)

// ContentCache is an in-memory TTL cache in front of the listing and article
// controllers. The first listing page and the full post index are loaded
// together; articles are loaded on first request and kept for the window.
// Misses are never cached.
type ContentCache struct {
	mu       sync.RWMutex
	first    content.ListingState
	all      []content.ArticleSummary
	fetched  time.Time
	loaded   bool
	articles map[string]cachedArticle
	ttl      time.Duration

	listing *Listing
	source  *Articles
}

type cachedArticle struct {
	article content.Article
	fetched time.Time
}

// NewContentCache creates a ContentCache over the given controllers.
func NewContentCache(l *Listing, a *Articles, ttl time.Duration) *ContentCache {
	return &ContentCache{
		listing:  l,
		source:   a,
		ttl:      ttl,
		articles: make(map[string]cachedArticle),
	}
}

func (c *ContentCache) valid() bool {
	return c.loaded && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *ContentCache) Invalidate() {
	c.mu.Lock()
	c.loaded = false
	c.first = content.ListingState{}
	c.all = nil
	c.articles = make(map[string]cachedArticle)
	c.mu.Unlock()
}

// InvalidateArticle drops a single article.
func (c *ContentCache) InvalidateArticle(uid string) {
	c.mu.Lock()
	delete(c.articles, uid)
	c.mu.Unlock()
}

func (c *ContentCache) load(ctx context.Context) error {
	if c.valid() {
		return nil
	}
	first, err := c.listing.InitialPage(ctx)
	if err != nil {
		return err
	}
	all, err := c.source.Enumerate(ctx)
	if err != nil {
		return err
	}
	c.first = first
	c.all = all
	c.fetched = time.Now()
	c.loaded = true
	return nil
}

// ensureLoaded returns the cached listing data after ensuring it is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *ContentCache) ensureLoaded(ctx context.Context) (content.ListingState, []content.ArticleSummary, error) {
	c.mu.RLock()
	if c.valid() {
		first, all := c.first, c.all
		c.mu.RUnlock()
		return first, all, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(ctx); err != nil {
		return content.ListingState{}, nil, err
	}
	return c.first, c.all, nil
}

// FirstPage returns the listing's first page and cursor.
func (c *ContentCache) FirstPage(ctx context.Context) (content.ListingState, error) {
	first, _, err := c.ensureLoaded(ctx)
	return first, err
}

// Summaries returns the listing projection of every known post.
func (c *ContentCache) Summaries(ctx context.Context) ([]content.ArticleSummary, error) {
	_, all, err := c.ensureLoaded(ctx)
	return all, err
}

// Article returns a post, fetching it on first request.
func (c *ContentCache) Article(ctx context.Context, uid string) (content.Article, error) {
	c.mu.RLock()
	entry, ok := c.articles[uid]
	c.mu.RUnlock()
	if ok && time.Since(entry.fetched) < c.ttl {
		return entry.article, nil
	}

	a, err := c.source.ByIdentifier(ctx, uid)
	if err != nil {
		return content.Article{}, err
	}
	c.mu.Lock()
	c.articles[uid] = cachedArticle{article: a, fetched: time.Now()}
	c.mu.Unlock()
	return a, nil
}
