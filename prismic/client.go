// Package prismic is a small client for a Prismic-style headless content API:
// master-ref resolution, predicate search, lookup by uid and next_page
// cursor pagination. It also ships a YAML-backed FixtureStore for local work.
package prismic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// DefaultRefTTL is how long a resolved master ref is reused.
const DefaultRefTTL = time.Minute

// Client talks to the content API over HTTP. Every call is a single request,
// plus a master-ref lookup at most once per ref TTL; there are no retries.
type Client struct {
	endpoint    string
	accessToken string
	httpClient  *http.Client
	refTTL      time.Duration
	now         func() time.Time

	mu      sync.Mutex
	ref     string
	refTime time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithAccessToken sets the token sent with every search.
func WithAccessToken(token string) Option {
	return func(c *Client) {
		c.accessToken = token
	}
}

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRefTTL sets how long the master ref is reused. Zero or less resolves
// it before every search.
func WithRefTTL(d time.Duration) Option {
	return func(c *Client) {
		c.refTTL = d
	}
}

// NewClient creates a client for the API rooted at endpoint,
// e.g. https://repo.cdn.prismic.io/api/v2.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: http.DefaultClient,
		refTTL:     DefaultRefTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type apiInfo struct {
	Refs []struct {
		ID          string `json:"id"`
		Ref         string `json:"ref"`
		IsMasterRef bool   `json:"isMasterRef"`
	} `json:"refs"`
}

// Refresh forgets the cached master ref, so the next search sees the latest
// published content.
func (c *Client) Refresh() {
	c.mu.Lock()
	c.ref = ""
	c.mu.Unlock()
}

func (c *Client) masterRef(ctx context.Context) (string, error) {
	c.mu.Lock()
	ref, at := c.ref, c.refTime
	c.mu.Unlock()
	if ref != "" && c.refTTL > 0 && c.now().Sub(at) < c.refTTL {
		return ref, nil
	}

	ref, err := c.fetchMasterRef(ctx)
	if err != nil {
		return "", err
	}
	c.mu.Lock()
	c.ref, c.refTime = ref, c.now()
	c.mu.Unlock()
	return ref, nil
}

func (c *Client) fetchMasterRef(ctx context.Context) (string, error) {
	u := c.endpoint
	if c.accessToken != "" {
		u += "?access_token=" + url.QueryEscape(c.accessToken)
	}
	var info apiInfo
	if err := c.getJSON(ctx, u, &info); err != nil {
		return "", err
	}
	for _, r := range info.Refs {
		if r.IsMasterRef {
			return r.Ref, nil
		}
	}
	return "", &UnavailableError{URL: c.endpoint, Err: fmt.Errorf("no master ref")}
}

// Query resolves the master ref and runs the search.
func (c *Client) Query(ctx context.Context, q Query) (*Response, error) {
	ref, err := c.masterRef(ctx)
	if err != nil {
		return nil, err
	}
	v := url.Values{}
	v.Set("ref", ref)
	if len(q.Predicates) > 0 {
		v.Set("q", encodePredicates(q.Predicates))
	}
	if len(q.Fetch) > 0 {
		v.Set("fetch", strings.Join(q.Fetch, ","))
	}
	if q.PageSize > 0 {
		v.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if c.accessToken != "" {
		v.Set("access_token", c.accessToken)
	}
	resp, err := c.FetchPage(ctx, c.endpoint+"/documents/search?"+v.Encode())
	if err != nil {
		// The ref may have expired; resolve it again next time.
		c.Refresh()
		return nil, err
	}
	return resp, nil
}

// GetByUID looks up a single document by its uid.
func (c *Client) GetByUID(ctx context.Context, docType, uid string) (*Document, error) {
	resp, err := c.Query(ctx, Query{
		Predicates: []Predicate{At("my."+docType+".uid", uid)},
		PageSize:   1,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, fmt.Errorf("%w: %s %q", ErrNotFound, docType, uid)
	}
	return &resp.Results[0], nil
}

// FetchPage issues a plain GET to cursor and decodes the result page. A body
// without a results list is not a page and counts as unavailable.
func (c *Client) FetchPage(ctx context.Context, cursor string) (*Response, error) {
	var page struct {
		Response
		Results *[]Document `json:"results"`
	}
	if err := c.getJSON(ctx, cursor, &page); err != nil {
		return nil, err
	}
	if page.Results == nil {
		return nil, &UnavailableError{URL: cursor, Err: fmt.Errorf("decode: response has no results")}
	}
	resp := page.Response
	resp.Results = *page.Results
	return &resp, nil
}

// Owns reports whether cursor points at this client's API host.
func (c *Client) Owns(cursor string) bool {
	return sameOrigin(c.endpoint, cursor)
}

func (c *Client) getJSON(ctx context.Context, u string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &UnavailableError{URL: u, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &UnavailableError{URL: u, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &UnavailableError{URL: u, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &UnavailableError{URL: u, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}

func sameOrigin(base, raw string) bool {
	b, err := url.Parse(base)
	if err != nil {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme == b.Scheme && u.Host != "" && strings.EqualFold(u.Host, b.Host)
}
