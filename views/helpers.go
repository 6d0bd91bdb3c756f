package views

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"

	"github.com/eringen/spacetraveling/content"
)

// buildURL joins path segments onto a base URL, ensuring a trailing slash.
func buildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// PostPath is the site-relative link to an article.
func PostPath(uid string) string {
	return "/post/" + url.PathEscape(uid) + "/"
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block.
func WebsiteJsonLD(site Site) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     site.Name,
		"url":      buildURL(site.URL),
	}
	if site.Description != "" {
		data["description"] = site.Description
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// ArticleJsonLD produces a Schema.org BlogPosting JSON-LD block for an article.
func ArticleJsonLD(site Site, a content.Article) string {
	postURL := buildURL(site.URL, "post", a.UID)
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "BlogPosting",
		"headline":    a.Data.Title,
		"description": a.Data.Subtitle,
		"url":         postURL,
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  site.Name,
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if a.FirstPublicationDate != "" {
		data["datePublished"] = a.FirstPublicationDate
	}
	if a.Data.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  a.Data.Author,
		}
	}
	if a.Data.Banner.URL != "" {
		data["image"] = a.Data.Banner.URL
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
