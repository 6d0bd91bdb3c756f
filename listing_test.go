package spacetraveling

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/gommon/log"

	"github.com/eringen/spacetraveling/content"
	"github.com/eringen/spacetraveling/prismic"
)

func quietLogger() *log.Logger {
	l := log.New("test")
	l.SetOutput(io.Discard)
	return l
}

func TestInitialPage(t *testing.T) {
	l := NewListing(newTestStore(testPosts(6)), quietLogger())
	st, err := l.InitialPage(context.Background())
	if err != nil {
		t.Fatalf("InitialPage failed: %v", err)
	}
	if len(st.Articles) != ListingPageSize {
		t.Fatalf("expected %d articles, got %d", ListingPageSize, len(st.Articles))
	}
	if !st.HasMore() {
		t.Error("expected a cursor after the first page")
	}
	first := st.Articles[0]
	if first.UID != "post-1" || first.Data.Title != "Post 1" || first.Data.Author != "Joseph Oliveira" {
		t.Errorf("first = %+v", first)
	}
}

func TestInitialPageSinglePage(t *testing.T) {
	l := NewListing(newTestStore(testPosts(3)), quietLogger())
	st, err := l.InitialPage(context.Background())
	if err != nil {
		t.Fatalf("InitialPage failed: %v", err)
	}
	if len(st.Articles) != 3 || st.HasMore() {
		t.Errorf("expected 3 articles and no cursor, got %d/%q", len(st.Articles), st.Cursor)
	}
}

func TestInitialPageStoreDown(t *testing.T) {
	store := newTestStore(testPosts(6))
	store.setFail(true)
	if _, err := NewListing(store, quietLogger()).InitialPage(context.Background()); err == nil {
		t.Fatal("expected an error when the store is down")
	}
}

func TestLoadMore(t *testing.T) {
	l := NewListing(newTestStore(testPosts(6)), quietLogger())
	ctx := context.Background()
	st, err := l.InitialPage(ctx)
	if err != nil {
		t.Fatalf("InitialPage failed: %v", err)
	}

	next, ok := l.LoadMore(ctx, st)
	if !ok {
		t.Fatal("LoadMore failed")
	}
	if len(next.Articles) != 6 {
		t.Fatalf("expected 6 articles, got %d", len(next.Articles))
	}
	if next.HasMore() {
		t.Errorf("expected no cursor after the last page, got %q", next.Cursor)
	}
	for i, a := range next.Articles {
		if want := testPosts(6)[i].UID; a.UID != want {
			t.Errorf("article %d = %s, want %s", i, a.UID, want)
		}
	}
	if len(st.Articles) != 4 || !st.HasMore() {
		t.Error("LoadMore modified its input state")
	}

	if again, ok := l.LoadMore(ctx, next); ok || len(again.Articles) != 6 {
		t.Error("LoadMore without a cursor should be a no-op")
	}
}

func TestLoadMoreFailureKeepsState(t *testing.T) {
	store := newTestStore(testPosts(6))
	l := NewListing(store, quietLogger())
	ctx := context.Background()
	st, err := l.InitialPage(ctx)
	if err != nil {
		t.Fatalf("InitialPage failed: %v", err)
	}

	store.failFetch = true
	got, ok := l.LoadMore(ctx, st)
	if ok {
		t.Fatal("expected LoadMore to fail")
	}
	if len(got.Articles) != 4 || got.Cursor != st.Cursor {
		t.Errorf("state changed on failure: %d articles, cursor %q", len(got.Articles), got.Cursor)
	}

	store.failFetch = false
	if got, ok = l.LoadMore(ctx, got); !ok || len(got.Articles) != 6 {
		t.Errorf("retry after failure: ok=%v, %d articles", ok, len(got.Articles))
	}
}

func TestLoadMoreOutOfRangeCursor(t *testing.T) {
	l := NewListing(newTestStore(testPosts(6)), quietLogger())
	st := content.ListingState{
		Cursor: "fixture:///documents/search?pageSize=20&page=500000000000000000&pred=at|document.type|post",
	}
	got, ok := l.LoadMore(context.Background(), st)
	if ok || got.Cursor != st.Cursor || len(got.Articles) != 0 {
		t.Errorf("LoadMore = %+v, %v; want the input back and false", got, ok)
	}
}

func TestLoadMoreNotAPage(t *testing.T) {
	for _, body := range []string{"null", "{}"} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))
		l := NewListing(prismic.NewClient(srv.URL+"/api/v2"), quietLogger())
		st := content.ListingState{
			Articles: []content.ArticleSummary{{UID: "a"}},
			Cursor:   srv.URL + "/api/v2/documents/search?page=2",
		}
		got, ok := l.LoadMore(context.Background(), st)
		srv.Close()
		if ok || len(got.Articles) != 1 || got.Cursor != st.Cursor {
			t.Errorf("body %s: ok=%v, %d articles, cursor %q", body, ok, len(got.Articles), got.Cursor)
		}
	}
}

// TestListingOverAPI runs the listing against a fake content API: four posts
// with a cursor, then two more with a null cursor.
func TestListingOverAPI(t *testing.T) {
	var srv *httptest.Server
	doc := func(uid, title string) map[string]any {
		return map[string]any{
			"uid":                    uid,
			"type":                   "post",
			"first_publication_date": "2021-03-15T19:25:28+0000",
			"data":                   map[string]any{"title": title, "subtitle": "Sub", "author": "Danilo Vieira"},
		}
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v2", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"refs": []map[string]any{{"id": "master", "ref": "master-ref", "isMasterRef": true}},
		})
	})
	mux.HandleFunc("/api/v2/documents/search", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			json.NewEncoder(w).Encode(map[string]any{
				"page":      2,
				"results":   []any{doc("e", "E"), doc("f", "F")},
				"next_page": nil,
			})
			return
		}
		if r.URL.Query().Get("pageSize") != "4" {
			t.Errorf("pageSize = %q, want 4", r.URL.Query().Get("pageSize"))
		}
		json.NewEncoder(w).Encode(map[string]any{
			"page":      1,
			"results":   []any{doc("a", "A"), doc("b", "B"), doc("c", "C"), doc("d", "D")},
			"next_page": srv.URL + "/api/v2/documents/search?page=2&ref=master-ref",
		})
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	l := NewListing(prismic.NewClient(srv.URL+"/api/v2"), quietLogger())
	ctx := context.Background()
	st, err := l.InitialPage(ctx)
	if err != nil {
		t.Fatalf("InitialPage failed: %v", err)
	}
	if len(st.Articles) != 4 || st.Cursor == "" {
		t.Fatalf("first page: %d articles, cursor %q", len(st.Articles), st.Cursor)
	}
	st, ok := l.LoadMore(ctx, st)
	if !ok {
		t.Fatal("LoadMore failed")
	}
	var uids []string
	for _, a := range st.Articles {
		uids = append(uids, a.UID)
	}
	if len(uids) != 6 || uids[4] != "e" || uids[5] != "f" || st.Cursor != "" {
		t.Errorf("after load more: %v, cursor %q", uids, st.Cursor)
	}
	if st.Articles[0].FirstPublicationDate != "2021-03-15T19:25:28+0000" {
		t.Errorf("date = %q", st.Articles[0].FirstPublicationDate)
	}
	if content.FormatDate(st.Articles[0].FirstPublicationDate) != "15 mar 2021" {
		t.Errorf("formatted date = %q", content.FormatDate(st.Articles[0].FirstPublicationDate))
	}
}
