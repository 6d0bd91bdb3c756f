package views

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/eringen/spacetraveling/content"
	"github.com/eringen/spacetraveling/richtext"
)

// Post renders an article page. bannerSrc is the image to show above the
// content; "" renders an empty banner area.
func Post(site Site, a content.Article, bannerSrc string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newWriter(ctx, w)
		hw.component(Header(40))
		hw.raw(`<div class="banner">`)
		if src := richtext.SafeURL(bannerSrc); src != "" {
			hw.raw(`<img src="`, src, `" alt="" />`)
		}
		hw.raw(`</div><article class="content"><div class="content-header"><h1>`)
		hw.text(a.Data.Title)
		hw.raw(`</h1><div class="meta"><span class="meta-date"><time datetime="`)
		hw.text(a.FirstPublicationDate)
		hw.raw(`">`)
		hw.text(content.FormatDate(a.FirstPublicationDate))
		hw.raw(`</time></span><span class="meta-author">`)
		hw.text(a.Data.Author)
		hw.raw(`</span><span class="meta-reading">`)
		hw.raw(strconv.Itoa(content.ReadingTime(a)), ` min</span></div></div><div class="content-body">`)
		for _, s := range a.Data.Content {
			hw.raw(`<section><h2>`)
			hw.text(s.Heading)
			hw.raw(`</h2><div>`)
			hw.component(richtext.AsHTML(s.Body))
			hw.raw(`</div></section>`)
		}
		hw.raw(`</div></article>`)
		return hw.err
	})
	meta := PageMeta{
		Title:       a.Data.Title,
		Description: a.Data.Subtitle,
		URL:         buildURL(site.URL, "post", a.UID),
		OGType:      "article",
		Image:       a.Data.Banner.URL,
		JsonLD:      ArticleJsonLD(site, a),
	}
	return Layout(site, meta, body)
}
