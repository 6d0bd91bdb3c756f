package spacetraveling

import (
	"context"
	"testing"
	"time"
)

func TestStaticRoutes(t *testing.T) {
	a := newTestApp(t, newTestStore(nil), func(cfg *SiteConfig) { cfg.Revalidate = time.Hour })

	listing := a.route(routeListing)
	if listing.Fallback != FallbackBlocking || listing.Revalidate != time.Hour || listing.Pattern != "/" {
		t.Errorf("listing route = %+v", listing)
	}
	article := a.route(routeArticle)
	if article.Fallback != FallbackTrue || article.Revalidate != 0 {
		t.Errorf("article route = %+v", article)
	}
	if r := a.route("unknown"); r.Fallback != FallbackNone {
		t.Errorf("unknown route = %+v", r)
	}
}

func TestStaticPaths(t *testing.T) {
	a := newTestApp(t, newTestStore(testPosts(3)))
	ctx := context.Background()

	paths, err := a.StaticPaths(ctx, a.route(routeListing))
	if err != nil || len(paths) != 1 || paths[0] != "/" {
		t.Errorf("listing paths = %v (%v)", paths, err)
	}
	paths, err = a.StaticPaths(ctx, a.route(routeArticle))
	if err != nil {
		t.Fatalf("StaticPaths failed: %v", err)
	}
	want := []string{"/post/post-1/", "/post/post-2/", "/post/post-3/"}
	if len(paths) != len(want) {
		t.Fatalf("article paths = %v", paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("path %d = %s, want %s", i, paths[i], want[i])
		}
	}
}

func TestUIDFromPath(t *testing.T) {
	tests := []struct {
		path string
		uid  string
		ok   bool
	}{
		{"/post/como-utilizar-hooks/", "como-utilizar-hooks", true},
		{"/post/como-utilizar-hooks", "como-utilizar-hooks", true},
		{"/post/a%20b/", "a b", true},
		{"/post/", "", false},
		{"/post/a/b/", "", false},
		{"/", "", false},
		{"/banner/x/", "", false},
	}
	for _, tt := range tests {
		uid, ok := uidFromPath(tt.path)
		if uid != tt.uid || ok != tt.ok {
			t.Errorf("uidFromPath(%q) = %q, %v; want %q, %v", tt.path, uid, ok, tt.uid, tt.ok)
		}
	}
}
