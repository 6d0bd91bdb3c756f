package prismic

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	fixtureScheme      = "fixture"
	fixtureDefaultSize = 20
	fixtureMaxSize     = 100
	fixtureMaxPage     = 1 << 20
)

// FixtureStore serves documents from memory with the same paging and
// projection rules as the API. Cursors use the fixture:// scheme.
type FixtureStore struct {
	docs []Document
}

type fixtureFile struct {
	Documents []Document `yaml:"documents"`
}

// LoadFixtures reads a YAML file with a top-level documents list.
func LoadFixtures(path string) (*FixtureStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f fixtureFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures %s: %w", path, err)
	}
	return NewFixtureStore(f.Documents), nil
}

// NewFixtureStore serves docs in the given order.
func NewFixtureStore(docs []Document) *FixtureStore {
	return &FixtureStore{docs: docs}
}

// Query returns the requested page of matching documents.
func (s *FixtureStore) Query(ctx context.Context, q Query) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, &UnavailableError{URL: fixtureScheme + ":", Err: err}
	}
	size := q.PageSize
	if size <= 0 {
		size = fixtureDefaultSize
	}
	size = min(size, fixtureMaxSize)
	page := q.Page
	if page <= 0 {
		page = 1
	}

	var matched []Document
	for _, d := range s.docs {
		ok := true
		for _, p := range q.Predicates {
			if !p.matches(d) {
				ok = false
				break
			}
		}
		if ok {
			matched = append(matched, project(d, q.Fetch))
		}
	}

	total := len(matched)
	pages := (total + size - 1) / size
	start := total
	if page-1 < pages {
		start = (page - 1) * size
	}
	end := min(start+size, total)

	resp := &Response{
		Page:             page,
		ResultsPerPage:   size,
		ResultsSize:      end - start,
		TotalResultsSize: total,
		TotalPages:       pages,
		Results:          matched[start:end],
	}
	if page < pages {
		next := fixtureCursor(Query{Predicates: q.Predicates, Fetch: q.Fetch, PageSize: size, Page: page + 1})
		resp.NextPage = &next
	}
	if page > 1 {
		prev := fixtureCursor(Query{Predicates: q.Predicates, Fetch: q.Fetch, PageSize: size, Page: page - 1})
		resp.PrevPage = &prev
	}
	return resp, nil
}

// GetByUID returns the document of docType with uid, or ErrNotFound.
func (s *FixtureStore) GetByUID(ctx context.Context, docType, uid string) (*Document, error) {
	resp, err := s.Query(ctx, Query{Predicates: []Predicate{At("my."+docType+".uid", uid)}, PageSize: 1})
	if err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, fmt.Errorf("%w: %s %q", ErrNotFound, docType, uid)
	}
	return &resp.Results[0], nil
}

// FetchPage decodes a fixture:// cursor and runs the query it describes.
func (s *FixtureStore) FetchPage(ctx context.Context, cursor string) (*Response, error) {
	q, err := parseFixtureCursor(cursor)
	if err != nil {
		return nil, &UnavailableError{URL: cursor, Err: err}
	}
	return s.Query(ctx, q)
}

// Owns reports whether cursor uses the fixture scheme.
func (s *FixtureStore) Owns(cursor string) bool {
	u, err := url.Parse(cursor)
	return err == nil && u.Scheme == fixtureScheme
}

func fixtureCursor(q Query) string {
	v := url.Values{}
	for _, p := range q.Predicates {
		v.Add("pred", p.Op+"|"+p.Path+"|"+p.Value)
	}
	if len(q.Fetch) > 0 {
		v.Set("fetch", strings.Join(q.Fetch, ","))
	}
	v.Set("pageSize", strconv.Itoa(q.PageSize))
	v.Set("page", strconv.Itoa(q.Page))
	return fixtureScheme + ":///documents/search?" + v.Encode()
}

func parseFixtureCursor(cursor string) (Query, error) {
	u, err := url.Parse(cursor)
	if err != nil {
		return Query{}, err
	}
	if u.Scheme != fixtureScheme {
		return Query{}, fmt.Errorf("not a fixture cursor: %q", cursor)
	}
	v := u.Query()
	var q Query
	for _, raw := range v["pred"] {
		parts := strings.SplitN(raw, "|", 3)
		if len(parts) != 3 {
			return Query{}, fmt.Errorf("bad predicate %q", raw)
		}
		q.Predicates = append(q.Predicates, Predicate{Op: parts[0], Path: parts[1], Value: parts[2]})
	}
	if f := v.Get("fetch"); f != "" {
		q.Fetch = strings.Split(f, ",")
	}
	if q.PageSize, err = strconv.Atoi(v.Get("pageSize")); err != nil {
		return Query{}, fmt.Errorf("bad pageSize: %w", err)
	}
	if q.PageSize < 1 || q.PageSize > fixtureMaxSize {
		return Query{}, fmt.Errorf("pageSize %d out of range", q.PageSize)
	}
	if q.Page, err = strconv.Atoi(v.Get("page")); err != nil {
		return Query{}, fmt.Errorf("bad page: %w", err)
	}
	if q.Page < 1 || q.Page > fixtureMaxPage {
		return Query{}, fmt.Errorf("page %d out of range", q.Page)
	}
	return q, nil
}

// project drops data fields not named in fetch ("post.title", ...), the way
// the API does. An empty fetch keeps everything.
func project(d Document, fetch []string) Document {
	if len(fetch) == 0 {
		return d
	}
	keep := make(map[string]bool, len(fetch))
	for _, f := range fetch {
		if i := strings.IndexByte(f, '.'); i >= 0 {
			f = f[i+1:]
		}
		keep[f] = true
	}
	var data PostData
	if keep["title"] {
		data.Title = d.Data.Title
	}
	if keep["subtitle"] {
		data.Subtitle = d.Data.Subtitle
	}
	if keep["author"] {
		data.Author = d.Data.Author
	}
	if keep["banner"] {
		data.Banner = d.Data.Banner
	}
	if keep["content"] {
		data.Content = d.Data.Content
	}
	d.Data = data
	return d
}
