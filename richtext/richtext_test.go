package richtext

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func render(blocks []Block) string {
	var buf bytes.Buffer
	Render(&buf, blocks)
	return buf.String()
}

func TestRenderParagraph(t *testing.T) {
	got := render([]Block{{Type: "paragraph", Text: "Hello <world>"}})
	want := "<p>Hello &lt;world&gt;</p>"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderHeadings(t *testing.T) {
	tests := []struct {
		typ      string
		expected string
	}{
		{"heading1", "<h1>Title</h1>"},
		{"heading2", "<h2>Title</h2>"},
		{"heading6", "<h6>Title</h6>"},
	}
	for _, tt := range tests {
		got := render([]Block{{Type: tt.typ, Text: "Title"}})
		if got != tt.expected {
			t.Errorf("Render(%s) = %q, want %q", tt.typ, got, tt.expected)
		}
	}
}

func TestRenderGroupsListItems(t *testing.T) {
	got := render([]Block{
		{Type: "list-item", Text: "a"},
		{Type: "list-item", Text: "b"},
		{Type: "o-list-item", Text: "one"},
		{Type: "paragraph", Text: "end"},
	})
	want := "<ul><li>a</li><li>b</li></ul><ol><li>one</li></ol><p>end</p>"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderListAtEnd(t *testing.T) {
	got := render([]Block{{Type: "o-list-item", Text: "last"}})
	if got != "<ol><li>last</li></ol>" {
		t.Errorf("unclosed list: %q", got)
	}
}

func TestRenderPreformattedIgnoresSpans(t *testing.T) {
	got := render([]Block{{Type: "preformatted", Text: "x < y", Spans: []Span{{Start: 0, End: 1, Type: "strong"}}}})
	if got != "<pre>x &lt; y</pre>" {
		t.Errorf("Render() = %q", got)
	}
}

func TestRenderImage(t *testing.T) {
	got := render([]Block{{Type: "image", URL: "https://images.example.com/a.png", Alt: "a \"cat\""}})
	if !strings.Contains(got, `src="https://images.example.com/a.png"`) {
		t.Errorf("missing src: %q", got)
	}
	if !strings.Contains(got, `alt="a &#34;cat&#34;"`) {
		t.Errorf("alt not escaped: %q", got)
	}

	if got := render([]Block{{Type: "image", URL: "javascript:alert(1)"}}); got != "" {
		t.Errorf("unsafe image should be dropped, got %q", got)
	}
}

func TestRenderEmbed(t *testing.T) {
	got := render([]Block{{Type: "embed", Oembed: &Embed{EmbedURL: "https://youtu.be/x", Type: "video"}}})
	if !strings.Contains(got, `data-oembed="https://youtu.be/x"`) || !strings.Contains(got, `data-oembed-type="video"`) {
		t.Errorf("Render() = %q", got)
	}
}

func TestFormatSpans(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		spans    []Span
		expected string
	}{
		{"none", "plain", nil, "plain"},
		{"strong", "a bold b", []Span{{Start: 2, End: 6, Type: "strong"}}, "a <strong>bold</strong> b"},
		{"em whole", "all", []Span{{Start: 0, End: 3, Type: "em"}}, "<em>all</em>"},
		{
			"nested",
			"abcd",
			[]Span{{Start: 0, End: 4, Type: "strong"}, {Start: 1, End: 3, Type: "em"}},
			"<strong>a</strong><strong><em>bc</em></strong><strong>d</strong>",
		},
		{
			"hyperlink",
			"go here",
			[]Span{{Start: 3, End: 7, Type: "hyperlink", Data: SpanData{URL: "https://example.com", Target: "_blank"}}},
			`go <a href="https://example.com" target="_blank" rel="noopener noreferrer">here</a>`,
		},
		{
			"unsafe hyperlink",
			"x",
			[]Span{{Start: 0, End: 1, Type: "hyperlink", Data: SpanData{URL: "javascript:void(0)"}}},
			"<span>x</span>",
		},
		{"out of range", "ab", []Span{{Start: 1, End: 9, Type: "strong"}}, "ab"},
		{"newline", "a\nb", nil, "a<br />b"},
	}
	for _, tt := range tests {
		got := FormatSpans(tt.text, tt.spans)
		if got != tt.expected {
			t.Errorf("%s: FormatSpans(%q) = %q, want %q", tt.name, tt.text, got, tt.expected)
		}
	}
}

func TestFormatSpansUTF16Offsets(t *testing.T) {
	// The emoji occupies two UTF-16 code units.
	got := FormatSpans("😀 hi", []Span{{Start: 3, End: 5, Type: "strong"}})
	want := "😀 <strong>hi</strong>"
	if got != want {
		t.Errorf("FormatSpans() = %q, want %q", got, want)
	}
}

func TestAsHTMLComponent(t *testing.T) {
	var buf bytes.Buffer
	if err := AsHTML([]Block{{Type: "paragraph", Text: "x"}}).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if buf.String() != "<p>x</p>" {
		t.Errorf("AsHTML = %q", buf.String())
	}
}

func TestAsText(t *testing.T) {
	got := AsText([]Block{{Text: "a"}, {Text: "b"}}, " ")
	if got != "a b" {
		t.Errorf("AsText = %q", got)
	}
}

func TestSafeURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://example.com", "https://example.com"},
		{"/local", "/local"},
		{"#anchor", "#anchor"},
		{"mailto:a@b.c", "mailto:a@b.c"},
		{"javascript:alert(1)", ""},
		{"relative/path", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SafeURL(tt.input); got != tt.expected {
			t.Errorf("SafeURL(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
