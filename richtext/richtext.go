// Package richtext renders structured rich-text blocks, as delivered by the
// content API, into HTML as a templ component.
package richtext

import (
	"bytes"
	"context"
	"html"
	"io"
	"net/url"
	"sort"
	"strings"
	"unicode/utf16"

	"github.com/a-h/templ"
)

// Block is one rich-text fragment: a paragraph, heading, list item, image or embed.
type Block struct {
	Type   string `json:"type" yaml:"type"`
	Text   string `json:"text" yaml:"text"`
	Spans  []Span `json:"spans" yaml:"spans"`
	URL    string `json:"url,omitempty" yaml:"url,omitempty"`
	Alt    string `json:"alt,omitempty" yaml:"alt,omitempty"`
	Oembed *Embed `json:"oembed,omitempty" yaml:"oembed,omitempty"`
}

// Span marks up the [Start, End) range of a block's text. Offsets count
// UTF-16 code units, matching the API.
type Span struct {
	Start int      `json:"start" yaml:"start"`
	End   int      `json:"end" yaml:"end"`
	Type  string   `json:"type" yaml:"type"`
	Data  SpanData `json:"data" yaml:"data"`
}

// SpanData carries the payload of hyperlink and label spans.
type SpanData struct {
	URL    string `json:"url,omitempty" yaml:"url,omitempty"`
	Target string `json:"target,omitempty" yaml:"target,omitempty"`
	Label  string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Embed is the oEmbed payload of an embed block.
type Embed struct {
	EmbedURL string `json:"embed_url" yaml:"embed_url"`
	Type     string `json:"type" yaml:"type"`
	Title    string `json:"title,omitempty" yaml:"title,omitempty"`
}

// AsHTML returns a templ.Component that renders blocks as HTML.
func AsHTML(blocks []Block) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		Render(&buf, blocks)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// Render writes the HTML representation of blocks to buf. Consecutive list
// items are grouped into a single <ul> or <ol>.
func Render(buf *bytes.Buffer, blocks []Block) {
	inList := false
	inOrderedList := false

	flushList := func() {
		if inList {
			buf.WriteString("</ul>")
			inList = false
		}
	}
	flushOrderedList := func() {
		if inOrderedList {
			buf.WriteString("</ol>")
			inOrderedList = false
		}
	}

	for _, b := range blocks {
		switch b.Type {
		case "list-item":
			flushOrderedList()
			if !inList {
				buf.WriteString("<ul>")
				inList = true
			}
			buf.WriteString("<li>")
			buf.WriteString(FormatSpans(b.Text, b.Spans))
			buf.WriteString("</li>")
			continue
		case "o-list-item":
			flushList()
			if !inOrderedList {
				buf.WriteString("<ol>")
				inOrderedList = true
			}
			buf.WriteString("<li>")
			buf.WriteString(FormatSpans(b.Text, b.Spans))
			buf.WriteString("</li>")
			continue
		}
		flushList()
		flushOrderedList()

		switch b.Type {
		case "heading1", "heading2", "heading3", "heading4", "heading5", "heading6":
			tag := "h" + strings.TrimPrefix(b.Type, "heading")
			buf.WriteString("<" + tag + ">")
			buf.WriteString(FormatSpans(b.Text, b.Spans))
			buf.WriteString("</" + tag + ">")
		case "preformatted":
			buf.WriteString("<pre>")
			buf.WriteString(html.EscapeString(b.Text))
			buf.WriteString("</pre>")
		case "image":
			src := SafeURL(b.URL)
			if src == "" {
				continue
			}
			buf.WriteString(`<p class="block-img"><img src="`)
			buf.WriteString(src)
			buf.WriteString(`" alt="`)
			buf.WriteString(html.EscapeString(b.Alt))
			buf.WriteString(`" loading="lazy" /></p>`)
		case "embed":
			if b.Oembed == nil {
				continue
			}
			href := SafeURL(b.Oembed.EmbedURL)
			if href == "" {
				continue
			}
			title := b.Oembed.Title
			if title == "" {
				title = b.Oembed.EmbedURL
			}
			buf.WriteString(`<div data-oembed="`)
			buf.WriteString(href)
			buf.WriteString(`" data-oembed-type="`)
			buf.WriteString(html.EscapeString(b.Oembed.Type))
			buf.WriteString(`"><a href="`)
			buf.WriteString(href)
			buf.WriteString(`" target="_blank" rel="noopener noreferrer">`)
			buf.WriteString(html.EscapeString(title))
			buf.WriteString("</a></div>")
		default:
			buf.WriteString("<p>")
			buf.WriteString(FormatSpans(b.Text, b.Spans))
			buf.WriteString("</p>")
		}
	}
	flushList()
	flushOrderedList()
}

// FormatSpans escapes text and wraps the ranges covered by spans in their
// tags. Overlapping spans are closed and reopened at every boundary so the
// output is always well nested. Newlines become <br />.
func FormatSpans(text string, spans []Span) string {
	units := utf16.Encode([]rune(text))
	n := len(units)

	valid := make([]Span, 0, len(spans))
	for _, s := range spans {
		if s.Start < 0 || s.End > n || s.Start >= s.End {
			continue
		}
		valid = append(valid, s)
	}
	sort.SliceStable(valid, func(i, j int) bool {
		if valid[i].Start != valid[j].Start {
			return valid[i].Start < valid[j].Start
		}
		return valid[i].End > valid[j].End
	})

	bounds := map[int]struct{}{0: {}, n: {}}
	for _, s := range valid {
		bounds[s.Start] = struct{}{}
		bounds[s.End] = struct{}{}
	}
	points := make([]int, 0, len(bounds))
	for p := range bounds {
		points = append(points, p)
	}
	sort.Ints(points)

	var b strings.Builder
	for i := 0; i+1 < len(points); i++ {
		from, to := points[i], points[i+1]
		var active []Span
		for _, s := range valid {
			if s.Start <= from && s.End >= to {
				active = append(active, s)
			}
		}
		for _, s := range active {
			b.WriteString(openTag(s))
		}
		segment := string(utf16.Decode(units[from:to]))
		b.WriteString(strings.ReplaceAll(html.EscapeString(segment), "\n", "<br />"))
		for j := len(active) - 1; j >= 0; j-- {
			b.WriteString(closeTag(active[j]))
		}
	}
	return b.String()
}

func openTag(s Span) string {
	switch s.Type {
	case "strong":
		return "<strong>"
	case "em":
		return "<em>"
	case "hyperlink":
		href := SafeURL(s.Data.URL)
		if href == "" {
			return "<span>"
		}
		if s.Data.Target == "_blank" {
			return `<a href="` + href + `" target="_blank" rel="noopener noreferrer">`
		}
		return `<a href="` + href + `">`
	case "label":
		return `<span class="` + html.EscapeString(s.Data.Label) + `">`
	default:
		return "<span>"
	}
}

func closeTag(s Span) string {
	switch s.Type {
	case "strong":
		return "</strong>"
	case "em":
		return "</em>"
	case "hyperlink":
		if SafeURL(s.Data.URL) == "" {
			return "</span>"
		}
		return "</a>"
	default:
		return "</span>"
	}
}

// AsText joins the plain text of blocks with sep.
func AsText(blocks []Block, sep string) string {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		parts = append(parts, b.Text)
	}
	return strings.Join(parts, sep)
}

// SafeURL validates and sanitizes a URL for use in HTML attributes.
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return html.EscapeString(val)
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return html.EscapeString(val)
	default:
		return ""
	}
}
