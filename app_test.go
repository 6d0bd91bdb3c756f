package spacetraveling

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/eringen/spacetraveling/prismic"
	"github.com/eringen/spacetraveling/richtext"
)

// testStore wraps a FixtureStore, counting calls and failing on demand.
type testStore struct {
	*prismic.FixtureStore

	mu        sync.Mutex
	fail      bool
	failFetch bool
	queries   int
	fetches   int
	gets      int
	refreshes int
}

func newTestStore(docs []prismic.Document) *testStore {
	return &testStore{FixtureStore: prismic.NewFixtureStore(docs)}
}

var errStoreDown = &prismic.UnavailableError{URL: "test://store", Err: errors.New("store down")}

func (s *testStore) setFail(fail bool) {
	s.mu.Lock()
	s.fail = fail
	s.mu.Unlock()
}

func (s *testStore) Query(ctx context.Context, q prismic.Query) (*prismic.Response, error) {
	s.mu.Lock()
	s.queries++
	fail := s.fail
	s.mu.Unlock()
	if fail {
		return nil, errStoreDown
	}
	return s.FixtureStore.Query(ctx, q)
}

func (s *testStore) FetchPage(ctx context.Context, cursor string) (*prismic.Response, error) {
	s.mu.Lock()
	s.fetches++
	fail := s.fail || s.failFetch
	s.mu.Unlock()
	if fail {
		return nil, errStoreDown
	}
	return s.FixtureStore.FetchPage(ctx, cursor)
}

func (s *testStore) GetByUID(ctx context.Context, docType, uid string) (*prismic.Document, error) {
	s.mu.Lock()
	s.gets++
	fail := s.fail
	s.mu.Unlock()
	if fail {
		return nil, errStoreDown
	}
	return s.FixtureStore.GetByUID(ctx, docType, uid)
}

func (s *testStore) Refresh() {
	s.mu.Lock()
	s.refreshes++
	s.mu.Unlock()
}

func (s *testStore) counts() (queries, fetches, gets int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queries, s.fetches, s.gets
}

// testPosts returns n post documents, post-1 being the newest.
func testPosts(n int) []prismic.Document {
	docs := make([]prismic.Document, 0, n)
	for i := 1; i <= n; i++ {
		date := time.Date(2021, 3, 30-i, 12, 0, 0, 0, time.UTC).Format("2006-01-02T15:04:05-0700")
		heading := fmt.Sprintf("Section %d", i)
		docs = append(docs, prismic.Document{
			ID:                   fmt.Sprintf("id-%d", i),
			UID:                  fmt.Sprintf("post-%d", i),
			Type:                 PostType,
			FirstPublicationDate: &date,
			Data: prismic.PostData{
				Title:    fmt.Sprintf("Post %d", i),
				Subtitle: fmt.Sprintf("Subtitle %d", i),
				Author:   "Joseph Oliveira",
				Content: []prismic.Slice{{
					Heading: &heading,
					Body:    []richtext.Block{{Type: "paragraph", Text: "Lorem ipsum dolor sit amet"}},
				}},
			},
		})
	}
	return docs
}

// newTestApp returns an initialized App over store with all state kept in
// a temp dir.
func newTestApp(t *testing.T, store prismic.Store, configure ...func(*SiteConfig)) *App {
	t.Helper()
	dir := t.TempDir()
	cfg := SiteConfig{
		Name:         "spacetraveling",
		URL:          "https://blog.example.com",
		DatabasePath: filepath.Join(dir, "pages.db"),
		BannerDir:    filepath.Join(dir, "banners"),
	}
	for _, fn := range configure {
		fn(&cfg)
	}
	a := New(cfg, DefaultViews(), WithStore(store), WithStaticDir(filepath.Join(dir, "public")))
	a.Logger().SetOutput(io.Discard)
	if err := a.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return a
}

// newServedApp is newTestApp plus what Start sets up, without listening.
func newServedApp(t *testing.T, store prismic.Store, configure ...func(*SiteConfig)) *App {
	t.Helper()
	a := newTestApp(t, store, configure...)
	pages, err := NewPageStore(a.Config.DatabasePath)
	if err != nil {
		t.Fatalf("NewPageStore failed: %v", err)
	}
	a.Pages = pages
	a.loginLimiter = NewRateLimiter(5, time.Minute)
	a.moreLimiter = NewRateLimiter(30, time.Minute)
	a.setupMiddleware()
	a.setupRoutes()
	t.Cleanup(func() { a.Close() })
	return a
}

func doRequest(a *App, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}
