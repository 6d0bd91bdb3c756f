package content

import (
	"github.com/eringen/spacetraveling/prismic"
	"github.com/eringen/spacetraveling/richtext"
)

// NormalizeSummary maps a raw document to the listing projection. Anything
// beyond uid, publication date, title, subtitle and author is dropped.
func NormalizeSummary(doc prismic.Document) ArticleSummary {
	return ArticleSummary{
		UID:                  doc.UID,
		FirstPublicationDate: deref(doc.FirstPublicationDate),
		Data: SummaryData{
			Title:    doc.Data.Title,
			Subtitle: doc.Data.Subtitle,
			Author:   doc.Data.Author,
		},
	}
}

// NormalizeSummaries maps docs in order.
func NormalizeSummaries(docs []prismic.Document) []ArticleSummary {
	out := make([]ArticleSummary, 0, len(docs))
	for _, d := range docs {
		out = append(out, NormalizeSummary(d))
	}
	return out
}

// NormalizeArticle maps a raw document to the detail projection.
// A missing banner yields an empty URL; a missing heading leaves
// HasHeading false. Section and block order is preserved.
func NormalizeArticle(doc prismic.Document) Article {
	var banner Banner
	if doc.Data.Banner != nil {
		banner.URL = doc.Data.Banner.URL
	}

	sections := make([]Section, 0, len(doc.Data.Content))
	for _, s := range doc.Data.Content {
		body := make([]richtext.Block, len(s.Body))
		copy(body, s.Body)
		sections = append(sections, Section{
			Heading:    deref(s.Heading),
			HasHeading: s.Heading != nil,
			Body:       body,
		})
	}

	return Article{
		UID:                  doc.UID,
		FirstPublicationDate: deref(doc.FirstPublicationDate),
		Data: ArticleData{
			Title:    doc.Data.Title,
			Subtitle: doc.Data.Subtitle,
			Author:   doc.Data.Author,
			Banner:   banner,
			Content:  sections,
		},
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
