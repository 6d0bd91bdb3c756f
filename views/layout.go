package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Layout wraps body in the HTML document shell.
func Layout(site Site, meta PageMeta, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newWriter(ctx, w)
		title := site.Name
		if meta.Title != "" {
			title = meta.Title + " | " + site.Name
		}
		description := meta.Description
		if description == "" {
			description = site.Description
		}
		ogType := meta.OGType
		if ogType == "" {
			ogType = "website"
		}

		hw.raw(`<!DOCTYPE html><html lang="pt-BR"><head><meta charset="utf-8" />`)
		hw.raw(`<meta name="viewport" content="width=device-width, initial-scale=1" />`)
		hw.raw(`<title>`)
		hw.text(title)
		hw.raw(`</title><meta name="description" content="`)
		hw.text(description)
		hw.raw(`" /><meta property="og:title" content="`)
		hw.text(title)
		hw.raw(`" /><meta property="og:type" content="`)
		hw.text(ogType)
		hw.raw(`" />`)
		if meta.URL != "" {
			hw.raw(`<link rel="canonical" href="`)
			hw.text(meta.URL)
			hw.raw(`" /><meta property="og:url" content="`)
			hw.text(meta.URL)
			hw.raw(`" />`)
		}
		if meta.Image != "" {
			hw.raw(`<meta property="og:image" content="`)
			hw.text(meta.Image)
			hw.raw(`" />`)
		}
		hw.raw(`<link rel="alternate" type="application/rss+xml" href="/feed.xml" />`)
		hw.raw(`<link rel="icon" href="/favicon.svg" />`)
		hw.raw(`<link rel="stylesheet" href="/public/site.css" />`)
		if meta.JsonLD != "" {
			hw.raw(`<script type="application/ld+json">`, meta.JsonLD, `</script>`)
		}
		hw.raw(`</head><body>`)
		hw.component(body)
		hw.raw(`<script src="/public/loadmore.js" defer></script></body></html>`)
		return hw.err
	})
}
