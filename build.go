package spacetraveling

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/eringen/spacetraveling/content"
)

// BuildResult summarizes a static build.
type BuildResult struct {
	Pages   int
	Banners int
}

// Build prerenders every static path into outDir: the listing, one page per
// known post, 404.html, sitemap.xml, feed.xml, routes.json and the public
// assets. Any content store failure aborts the build, including a post that
// was enumerated but can no longer be fetched. Banners that cannot be
// optimized fall back to their original URL.
func (a *App) Build(ctx context.Context, outDir string) (BuildResult, error) {
	if err := a.Init(); err != nil {
		return BuildResult{}, err
	}
	start := time.Now()
	site := a.site()
	var res BuildResult

	for _, route := range a.StaticRoutes() {
		paths, err := a.StaticPaths(ctx, route)
		if err != nil {
			return res, fmt.Errorf("build: %s paths: %w", route.Name, err)
		}
		switch route.Name {
		case routeListing:
			state, err := a.listing.InitialPage(ctx)
			if err != nil {
				return res, fmt.Errorf("build: %w", err)
			}
			if err := RenderFile(ctx, filepath.Join(outDir, "index.html"), a.Views.Home(site, state)); err != nil {
				return res, fmt.Errorf("build: index: %w", err)
			}
			res.Pages++
		case routeArticle:
			summaries, banners, err := a.buildArticles(ctx, outDir, paths)
			if err != nil {
				return res, err
			}
			res.Pages += len(summaries)
			res.Banners = banners
			if err := a.writeIndexes(outDir, summaries); err != nil {
				return res, err
			}
		}
	}

	if err := RenderFile(ctx, filepath.Join(outDir, "404.html"), a.Views.NotFound(site)); err != nil {
		return res, fmt.Errorf("build: 404: %w", err)
	}
	if err := a.writeRoutes(outDir); err != nil {
		return res, err
	}
	if err := a.copyAssets(outDir); err != nil {
		return res, err
	}

	a.Logger().Infof("built %d pages and %d banners into %s in %s", res.Pages, res.Banners, outDir, time.Since(start))
	return res, nil
}

// buildArticles fetches and renders the posts at paths, BuildConcurrency at
// a time. A uid listed twice is built once. The returned summaries keep the
// order of first appearance.
func (a *App) buildArticles(ctx context.Context, outDir string, paths []string) ([]content.ArticleSummary, int, error) {
	site := a.site()
	banners := NewBannerOptimizer(filepath.Join(outDir, "banners"), a.httpClient)
	var optimized atomic.Int64

	var uids, kept []string
	seen := make(map[string]bool, len(paths))
	for _, path := range paths {
		uid, ok := uidFromPath(path)
		if !ok || !safeSegment(uid) {
			return nil, 0, fmt.Errorf("build: %q is not a safe post path", path)
		}
		if seen[uid] {
			a.Logger().Warnf("build: %s listed more than once", path)
			continue
		}
		seen[uid] = true
		uids = append(uids, uid)
		kept = append(kept, path)
	}
	summaries := make([]content.ArticleSummary, len(uids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.Config.BuildConcurrency)
	for i, uid := range uids {
		path := kept[i]
		g.Go(func() error {
			article, err := a.articles.ByIdentifier(gctx, uid)
			if err != nil {
				return fmt.Errorf("build: %w", err)
			}
			src := article.Data.Banner.URL
			if src != "" {
				file, err := banners.Ensure(gctx, uid, src)
				if err != nil {
					a.Logger().Warnf("build: %v; using original banner", err)
				} else {
					src = "/banners/" + filepath.Base(file)
					optimized.Add(1)
				}
			}
			summaries[i] = article.Summary()
			name := filepath.Join(outDir, "post", uid, "index.html")
			if err := RenderFile(gctx, name, a.Views.Post(site, article, src)); err != nil {
				return fmt.Errorf("build: %s: %w", path, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return summaries, int(optimized.Load()), nil
}

// safeSegment reports whether uid can be used as a single directory name.
func safeSegment(uid string) bool {
	return uid != "" && uid != "." && uid != ".." && !strings.ContainsAny(uid, `/\`)
}

func (a *App) writeIndexes(outDir string, posts []content.ArticleSummary) error {
	if err := writeOutput(filepath.Join(outDir, "sitemap.xml"), func(w io.Writer) error {
		return a.writeSitemap(w, posts)
	}); err != nil {
		return fmt.Errorf("build: sitemap: %w", err)
	}
	if err := writeOutput(filepath.Join(outDir, "feed.xml"), func(w io.Writer) error {
		return a.writeFeed(w, posts)
	}); err != nil {
		return fmt.Errorf("build: feed: %w", err)
	}
	return nil
}

// routeManifest is the routes.json entry handed to the hosting layer.
type routeManifest struct {
	Pattern           string `json:"pattern"`
	Fallback          string `json:"fallback"`
	RevalidateSeconds int64  `json:"revalidate"`
}

func (a *App) writeRoutes(outDir string) error {
	routes := a.StaticRoutes()
	manifest := make(map[string]routeManifest, len(routes))
	for _, r := range routes {
		manifest[r.Name] = routeManifest{
			Pattern:           r.Pattern,
			Fallback:          string(r.Fallback),
			RevalidateSeconds: int64(r.Revalidate / time.Second),
		}
	}
	err := writeOutput(filepath.Join(outDir, "routes.json"), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(manifest)
	})
	if err != nil {
		return fmt.Errorf("build: routes: %w", err)
	}
	return nil
}

// copyAssets copies the embedded assets and then the user's static dir,
// if present, into outDir/public.
func (a *App) copyAssets(outDir string) error {
	dst := filepath.Join(outDir, "public")
	embedded, err := fs.Sub(EmbeddedAssets, "embedded")
	if err != nil {
		return err
	}
	if err := copyTree(dst, embedded); err != nil {
		return fmt.Errorf("build: assets: %w", err)
	}
	if info, err := os.Stat(a.staticDir); err == nil && info.IsDir() {
		if err := copyTree(dst, os.DirFS(a.staticDir)); err != nil {
			return fmt.Errorf("build: static dir: %w", err)
		}
	}
	return nil
}

// copyTree copies every regular file of src into dst, overwriting.
func copyTree(dst string, src fs.FS) error {
	return fs.WalkDir(src, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(src, path)
		if err != nil {
			return err
		}
		return writeOutput(filepath.Join(dst, filepath.FromSlash(path)), func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		})
	})
}

func writeOutput(name string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return err
	}
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
