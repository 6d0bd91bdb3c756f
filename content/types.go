// Package content holds the site's internal article shapes, the mapping from
// raw API documents into them, and the values derived from them.
package content

import "github.com/eringen/spacetraveling/richtext"

// ArticleSummary is the listing projection of a post.
type ArticleSummary struct {
	UID                  string
	FirstPublicationDate string // ISO-8601 as delivered; "" when unset
	Data                 SummaryData
}

// SummaryData holds the fields shown on the listing page.
type SummaryData struct {
	Title    string
	Subtitle string
	Author   string
}

// Article is the detail projection of a post.
type Article struct {
	UID                  string
	FirstPublicationDate string
	Data                 ArticleData
}

// ArticleData holds everything the article page renders.
type ArticleData struct {
	Title    string
	Subtitle string
	Author   string
	Banner   Banner
	Content  []Section
}

// Banner is the article's header image; URL is "" when the post has none.
type Banner struct {
	URL string
}

// Section is a heading followed by ordered rich-text body blocks.
// HasHeading distinguishes a missing heading from an empty one.
type Section struct {
	Heading    string
	HasHeading bool
	Body       []richtext.Block
}

// Summary returns the listing projection of a.
func (a Article) Summary() ArticleSummary {
	return ArticleSummary{
		UID:                  a.UID,
		FirstPublicationDate: a.FirstPublicationDate,
		Data: SummaryData{
			Title:    a.Data.Title,
			Subtitle: a.Data.Subtitle,
			Author:   a.Data.Author,
		},
	}
}

// ListingState is the listing page's article sequence and the cursor of the
// next page. It is a value: pagination returns a new state and never touches
// the one it was given.
type ListingState struct {
	Articles []ArticleSummary
	Cursor   string
}

// HasMore reports whether another page can be requested.
func (s ListingState) HasMore() bool {
	return s.Cursor != ""
}

// Append returns a new state with page added after the existing articles, in
// order, and the cursor replaced by next. Duplicate UIDs are kept.
func (s ListingState) Append(page []ArticleSummary, next string) ListingState {
	articles := make([]ArticleSummary, 0, len(s.Articles)+len(page))
	articles = append(articles, s.Articles...)
	articles = append(articles, page...)
	return ListingState{Articles: articles, Cursor: next}
}
