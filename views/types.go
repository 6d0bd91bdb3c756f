package views

// Site holds site-wide settings. Every page component receives it so nothing
// is hardcoded.
type Site struct {
	Name             string // SITE_NAME
	URL              string // SITE_URL
	Description      string // SITE_DESCRIPTION
	Author           string // SITE_AUTHOR
	LoadMoreEndpoint string // where the listing fetches further pages
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head>.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string // og:image, optional
	JsonLD      string
}

// StoredPage describes a rendered page held in the page store, for the admin dashboard.
type StoredPage struct {
	Path       string
	Status     int
	Size       int
	RenderedAt string
	Stale      bool
}
