package prismic

import (
	"context"

	"github.com/eringen/spacetraveling/richtext"
)

// Store is the read-only document API the site is built from.
type Store interface {
	// Query returns the first page of documents matching q.
	Query(ctx context.Context, q Query) (*Response, error)
	// GetByUID returns the document of docType with the given uid, or ErrNotFound.
	GetByUID(ctx context.Context, docType, uid string) (*Document, error)
	// FetchPage follows a next_page cursor previously returned by the store.
	FetchPage(ctx context.Context, cursor string) (*Response, error)
	// Owns reports whether cursor was issued by this store, so a cursor
	// supplied by a browser is never followed to a foreign host.
	Owns(cursor string) bool
}

// Query describes a document search. A zero PageSize leaves the store default.
type Query struct {
	Predicates []Predicate
	Fetch      []string
	PageSize   int
	Page       int
}

// Response is one page of search results. NextPage is nil on the last page.
type Response struct {
	Page             int        `json:"page"`
	ResultsPerPage   int        `json:"results_per_page"`
	ResultsSize      int        `json:"results_size"`
	TotalResultsSize int        `json:"total_results_size"`
	TotalPages       int        `json:"total_pages"`
	NextPage         *string    `json:"next_page"`
	PrevPage         *string    `json:"prev_page"`
	Results          []Document `json:"results"`
}

// Next returns the cursor for the following page, or "" when exhausted.
func (r *Response) Next() string {
	if r == nil || r.NextPage == nil {
		return ""
	}
	return *r.NextPage
}

// Document is a raw record as the API returns it. Fields the site does not
// request may be missing, so every optional part is a pointer or a slice.
type Document struct {
	ID                   string   `json:"id" yaml:"id"`
	UID                  string   `json:"uid" yaml:"uid"`
	Type                 string   `json:"type" yaml:"type"`
	Tags                 []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	FirstPublicationDate *string  `json:"first_publication_date" yaml:"first_publication_date"`
	LastPublicationDate  *string  `json:"last_publication_date" yaml:"last_publication_date"`
	Data                 PostData `json:"data" yaml:"data"`
}

// PostData is the custom-type payload of a post document.
type PostData struct {
	Title    string  `json:"title" yaml:"title"`
	Subtitle string  `json:"subtitle" yaml:"subtitle"`
	Author   string  `json:"author" yaml:"author"`
	Banner   *Image  `json:"banner,omitempty" yaml:"banner,omitempty"`
	Content  []Slice `json:"content,omitempty" yaml:"content,omitempty"`
}

// Image is an image field. An unset image field arrives as an empty object.
type Image struct {
	URL        string      `json:"url,omitempty" yaml:"url,omitempty"`
	Alt        string      `json:"alt,omitempty" yaml:"alt,omitempty"`
	Dimensions *Dimensions `json:"dimensions,omitempty" yaml:"dimensions,omitempty"`
}

// Dimensions of an image in pixels.
type Dimensions struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Slice is one entry of the content group: an optional heading and its body.
type Slice struct {
	Heading *string          `json:"heading" yaml:"heading"`
	Body    []richtext.Block `json:"body" yaml:"body"`
}
