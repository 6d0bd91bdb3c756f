package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/eringen/spacetraveling/content"
)

// Home renders the listing page. The load-more button is present only while
// the state has a cursor.
func Home(site Site, state content.ListingState) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newWriter(ctx, w)
		hw.component(Header(80))
		hw.raw(`<main class="container"><div class="posts" id="posts">`)
		hw.component(PostList(state.Articles))
		hw.raw(`</div>`)
		if state.HasMore() {
			hw.raw(`<div class="load-more" id="load-more"><button type="button" data-endpoint="`)
			hw.text(site.LoadMoreEndpoint)
			hw.raw(`" data-cursor="`)
			hw.text(state.Cursor)
			hw.raw(`">Carregar mais posts</button></div>`)
		}
		hw.raw(`</main>`)
		return hw.err
	})
	meta := PageMeta{URL: buildURL(site.URL), JsonLD: WebsiteJsonLD(site)}
	return Layout(site, meta, body)
}

// PostList renders listing cards in order. It is also the fragment returned
// by the load-more endpoint.
func PostList(posts []content.ArticleSummary) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newWriter(ctx, w)
		for _, p := range posts {
			hw.raw(`<a class="post-card" href="`)
			hw.text(PostPath(p.UID))
			hw.raw(`"><strong>`)
			hw.text(p.Data.Title)
			hw.raw(`</strong><p>`)
			hw.text(p.Data.Subtitle)
			hw.raw(`</p><div class="meta"><span class="meta-date"><time datetime="`)
			hw.text(p.FirstPublicationDate)
			hw.raw(`">`)
			hw.text(content.FormatDate(p.FirstPublicationDate))
			hw.raw(`</time></span><span class="meta-author">`)
			hw.text(p.Data.Author)
			hw.raw(`</span></div></a>`)
		}
		return hw.err
	})
}
