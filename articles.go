package spacetraveling

import (
	"context"
	"fmt"

	"github.com/eringen/spacetraveling/content"
	"github.com/eringen/spacetraveling/prismic"
)

// Articles resolves individual posts.
type Articles struct {
	store prismic.Store
}

// NewArticles creates an Articles reading from store.
func NewArticles(store prismic.Store) *Articles {
	return &Articles{store: store}
}

// Enumerate returns the listing projection of every post, following cursors
// until the store reports no further page. No page size is sent.
func (a *Articles) Enumerate(ctx context.Context) ([]content.ArticleSummary, error) {
	resp, err := a.store.Query(ctx, prismic.Query{
		Predicates: []prismic.Predicate{prismic.At("document.type", PostType)},
		Fetch:      listingFields,
	})
	if err != nil {
		return nil, fmt.Errorf("articles: enumerate: %w", err)
	}
	all := content.NormalizeSummaries(resp.Results)
	for next := resp.Next(); next != ""; next = resp.Next() {
		resp, err = a.store.FetchPage(ctx, next)
		if err != nil {
			return nil, fmt.Errorf("articles: enumerate: %w", err)
		}
		all = append(all, content.NormalizeSummaries(resp.Results)...)
	}
	return all, nil
}

// KnownIdentifiers returns the uid of every post.
func (a *Articles) KnownIdentifiers(ctx context.Context) ([]string, error) {
	summaries, err := a.Enumerate(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(summaries))
	for _, s := range summaries {
		ids = append(ids, s.UID)
	}
	return ids, nil
}

// ByIdentifier fetches one post with its full content. A missing uid
// returns an error matching prismic.ErrNotFound.
func (a *Articles) ByIdentifier(ctx context.Context, uid string) (content.Article, error) {
	doc, err := a.store.GetByUID(ctx, PostType, uid)
	if err != nil {
		return content.Article{}, fmt.Errorf("articles: %s: %w", uid, err)
	}
	return content.NormalizeArticle(*doc), nil
}
