package spacetraveling

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/spacetraveling/content"
	"github.com/eringen/spacetraveling/prismic"
	"github.com/eringen/spacetraveling/views"
)

const (
	headerPageCache = "X-Page-Cache"
	headerNextPage  = "X-Next-Page"
)

// renderFunc produces the component and status for one page.
type renderFunc func(ctx context.Context) (templ.Component, int, error)

// servePage answers path from the page store while the stored copy is fresh
// for route, and renders and stores it otherwise. Only 200 responses are
// stored. When rendering fails and a stale copy exists, the stale copy is
// served.
func (a *App) servePage(c echo.Context, route RouteConfig, path string, render renderFunc) error {
	var stored StoredPage
	haveStored := false
	if a.Pages != nil {
		p, err := a.Pages.Get(path)
		switch {
		case err == nil:
			stored, haveStored = p, true
		case !isPageNotStored(err):
			c.Logger().Errorf("page store get %s: %v", path, err)
		}
	}
	if haveStored && (route.Revalidate == 0 || stored.Fresh(route.Revalidate)) {
		c.Response().Header().Set(headerPageCache, "HIT")
		return c.HTMLBlob(stored.Status, stored.HTML)
	}
	if !haveStored && route.Fallback == FallbackNone {
		return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.site()))
	}

	ctx := c.Request().Context()
	cmp, status, err := render(ctx)
	var buf bytes.Buffer
	if err == nil {
		err = cmp.Render(ctx, &buf)
	}
	if err != nil {
		if haveStored {
			c.Logger().Warnf("render %s failed, serving stored copy: %v", path, err)
			c.Response().Header().Set(headerPageCache, "STALE")
			return c.HTMLBlob(stored.Status, stored.HTML)
		}
		return err
	}

	if status == http.StatusOK && a.Pages != nil {
		if err := a.Pages.Save(StoredPage{Path: path, Status: status, HTML: buf.Bytes()}); err != nil {
			c.Logger().Errorf("page store save %s: %v", path, err)
		}
	}
	c.Response().Header().Set(headerPageCache, "MISS")
	return c.HTMLBlob(status, buf.Bytes())
}

func (a *App) handleHome(c echo.Context) error {
	return a.servePage(c, a.route(routeListing), "/", func(ctx context.Context) (templ.Component, int, error) {
		state, err := a.Cache.FirstPage(ctx)
		if err != nil {
			return nil, 0, err
		}
		return a.Views.Home(a.site(), state), http.StatusOK, nil
	})
}

func (a *App) handlePost(c echo.Context) error {
	uid := c.Param("uid")
	return a.servePage(c, a.route(routeArticle), views.PostPath(uid), func(ctx context.Context) (templ.Component, int, error) {
		article, err := a.Cache.Article(ctx, uid)
		if errors.Is(err, prismic.ErrNotFound) {
			return a.Views.NotFound(a.site()), http.StatusNotFound, nil
		}
		if err != nil {
			return nil, 0, err
		}
		return a.Views.Post(a.site(), article, bannerPath(article)), http.StatusOK, nil
	})
}

// bannerPath points the article page at the optimized banner route, or at
// nothing when the article has no banner.
func bannerPath(article content.Article) string {
	if article.Data.Banner.URL == "" {
		return ""
	}
	return "/banner/" + url.PathEscape(article.UID) + "/"
}

// handleLoadMore answers the listing's "load more" request. The cursor must
// belong to the content store. On success it responds with the next page's
// cards and the following cursor in X-Next-Page (empty on the last page).
// A failed fetch answers 204 so the client keeps its current state.
func (a *App) handleLoadMore(c echo.Context) error {
	if a.moreLimiter != nil && !a.moreLimiter.Allow(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many requests. Try again later.")
	}
	cursor := c.QueryParam("cursor")
	if cursor == "" || !a.Content.Owns(cursor) {
		return c.String(http.StatusBadRequest, "invalid cursor")
	}
	next, ok := a.listing.LoadMore(c.Request().Context(), content.ListingState{Cursor: cursor})
	if !ok {
		return c.NoContent(http.StatusNoContent)
	}
	c.Response().Header().Set(headerNextPage, next.Cursor)
	return Render(c, a.Views.PostList(next.Articles))
}

// handleBanner serves the resized banner of a post, falling back to a
// redirect to the original image when it cannot be optimized.
func (a *App) handleBanner(c echo.Context) error {
	uid := c.Param("uid")
	ctx := c.Request().Context()
	article, err := a.Cache.Article(ctx, uid)
	if err != nil {
		return err
	}
	src := article.Data.Banner.URL
	if src == "" {
		return echo.ErrNotFound
	}
	path, err := a.Banners.Ensure(ctx, uid, src)
	if err != nil {
		c.Logger().Warnf("banner %s: %v", uid, err)
		return c.Redirect(http.StatusFound, src)
	}
	return c.File(path)
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.Summaries(c.Request().Context())
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return a.writeSitemap(c.Response(), posts)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.Summaries(c.Request().Context())
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return a.writeFeed(c.Response(), posts)
}

// handleFavicon serves favicon.svg from the static dir, or the embedded logo.
func (a *App) handleFavicon(c echo.Context) error {
	if name := filepath.Join(a.staticDir, "favicon.svg"); fileExists(name) {
		return c.File(name)
	}
	data, err := EmbeddedAssets.ReadFile("embedded/logo.svg")
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "image/svg+xml", data)
}

// handleRobots serves robots.txt from the static dir, or a permissive
// default pointing at the sitemap.
func (a *App) handleRobots(c echo.Context) error {
	if name := filepath.Join(a.staticDir, "robots.txt"); fileExists(name) {
		return c.File(name)
	}
	return c.String(http.StatusOK, robotsTxt(a.Config.URL))
}

func robotsTxt(base string) string {
	return fmt.Sprintf("User-agent: *\nAllow: /\n\nSitemap: %s/sitemap.xml\n", strings.TrimRight(base, "/"))
}

func fileExists(name string) bool {
	info, err := os.Stat(name)
	return err == nil && !info.IsDir()
}

// revalidateAll drops every cached listing, article and stored page so the
// next request renders from fresh content.
func (a *App) revalidateAll() (int64, error) {
	a.refreshContent()
	a.Cache.Invalidate()
	if a.Pages == nil {
		return 0, nil
	}
	start := time.Now()
	n, err := a.Pages.Purge()
	if err != nil {
		return 0, fmt.Errorf("spacetraveling: purge pages: %w", err)
	}
	a.Logger().Infof("revalidated %d pages in %s", n, time.Since(start))
	return n, nil
}

// revalidatePath drops the stored page at path together with the cached
// content it was rendered from.
func (a *App) revalidatePath(path string) error {
	a.refreshContent()
	switch uid, ok := uidFromPath(path); {
	case ok:
		a.Cache.InvalidateArticle(uid)
		if err := a.Banners.Remove(uid); err != nil {
			a.Logger().Warnf("remove banner %s: %v", uid, err)
		}
	case path == "/":
		a.Cache.Invalidate()
	}
	if a.Pages == nil {
		return nil
	}
	return a.Pages.Delete(path)
}

// refreshContent makes the content store resolve its ref again, when it
// caches one.
func (a *App) refreshContent() {
	if r, ok := a.Content.(interface{ Refresh() }); ok {
		r.Refresh()
	}
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if (ok && he.Code == http.StatusNotFound) || errors.Is(err, prismic.ErrNotFound) {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.site()))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError(a.site()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
