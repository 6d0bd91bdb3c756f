package spacetraveling

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/eringen/spacetraveling/views"
)

// Fallback says what happens when a path was not prerendered.
type Fallback string

const (
	// FallbackNone answers unknown paths with 404.
	FallbackNone Fallback = "false"
	// FallbackTrue renders unknown paths on first request and stores the result.
	FallbackTrue Fallback = "true"
	// FallbackBlocking renders on first request and stores the result; the
	// first visitor waits for the render.
	FallbackBlocking Fallback = "blocking"
)

// RouteConfig is the routing policy handed to the hosting layer for one page route.
type RouteConfig struct {
	Name       string
	Pattern    string
	Fallback   Fallback
	Revalidate time.Duration // zero means stored pages never expire
}

const (
	routeListing = "listing"
	routeArticle = "article"
)

// StaticRoutes returns the policy of every page route.
func (a *App) StaticRoutes() []RouteConfig {
	return []RouteConfig{
		{Name: routeListing, Pattern: "/", Fallback: FallbackBlocking, Revalidate: a.Config.Revalidate},
		{Name: routeArticle, Pattern: "/post/:uid/", Fallback: FallbackTrue},
	}
}

func (a *App) route(name string) RouteConfig {
	for _, r := range a.StaticRoutes() {
		if r.Name == name {
			return r
		}
	}
	return RouteConfig{Name: name, Fallback: FallbackNone}
}

// StaticPaths returns the paths of route to prerender at build time.
// The listing has a single path; articles have one per known identifier.
func (a *App) StaticPaths(ctx context.Context, route RouteConfig) ([]string, error) {
	switch route.Name {
	case routeListing:
		return []string{"/"}, nil
	case routeArticle:
		ids, err := a.articles.KnownIdentifiers(ctx)
		if err != nil {
			return nil, err
		}
		paths := make([]string, 0, len(ids))
		for _, id := range ids {
			paths = append(paths, views.PostPath(id))
		}
		return paths, nil
	default:
		return nil, nil
	}
}

// uidFromPath extracts the post uid from an article path such as "/post/abc/".
func uidFromPath(path string) (string, bool) {
	rest, ok := strings.CutPrefix(path, "/post/")
	if !ok {
		return "", false
	}
	rest = strings.TrimSuffix(rest, "/")
	if rest == "" || strings.Contains(rest, "/") {
		return "", false
	}
	uid, err := url.PathUnescape(rest)
	if err != nil {
		return "", false
	}
	return uid, true
}
