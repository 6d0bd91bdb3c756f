package spacetraveling

import (
	"context"
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/eringen/spacetraveling/content"
	"github.com/eringen/spacetraveling/prismic"
)

const (
	// PostType is the document type every article is stored under.
	PostType = "post"

	// ListingPageSize is how many posts one listing page shows.
	ListingPageSize = 4
)

// listingFields is the listing projection requested from the store; content
// bodies are never fetched for the index.
var listingFields = []string{"post.title", "post.subtitle", "post.author"}

// Listing serves the post index and its "load more" pagination.
type Listing struct {
	store  prismic.Store
	logger echo.Logger
}

// NewListing creates a Listing reading from store.
func NewListing(store prismic.Store, logger echo.Logger) *Listing {
	return &Listing{store: store, logger: logger}
}

// InitialPage fetches the first page of posts and its cursor.
func (l *Listing) InitialPage(ctx context.Context) (content.ListingState, error) {
	resp, err := l.store.Query(ctx, prismic.Query{
		Predicates: []prismic.Predicate{prismic.At("document.type", PostType)},
		Fetch:      listingFields,
		PageSize:   ListingPageSize,
	})
	if err != nil {
		return content.ListingState{}, fmt.Errorf("listing: first page: %w", err)
	}
	return content.ListingState{}.Append(content.NormalizeSummaries(resp.Results), resp.Next()), nil
}

// LoadMore follows st's cursor and returns st extended by the next page, with
// the cursor replaced by that page's cursor. On any failure it logs and
// returns st unchanged with false; there is no retry and no partial append.
func (l *Listing) LoadMore(ctx context.Context, st content.ListingState) (content.ListingState, bool) {
	if !st.HasMore() {
		return st, false
	}
	resp, err := l.store.FetchPage(ctx, st.Cursor)
	if err != nil {
		l.logger.Errorf("listing: load more from %s: %v", st.Cursor, err)
		return st, false
	}
	return st.Append(content.NormalizeSummaries(resp.Results), resp.Next()), true
}
