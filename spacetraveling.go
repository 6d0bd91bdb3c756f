// Package spacetraveling is a blog front-end for a headless content API,
// built with Go, Echo, and templ. It renders the post listing with cursor
// based "load more" pagination and article pages with a reading-time
// estimate, either on demand or as a static build.
//
// Templates are supplied through ViewFuncs; DefaultViews returns the stock set.
package spacetraveling

import (
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/robfig/cron"

	"github.com/eringen/spacetraveling/content"
	"github.com/eringen/spacetraveling/prismic"
	"github.com/eringen/spacetraveling/views"
)

// ViewFuncs holds the templ components the app calls when rendering pages.
type ViewFuncs struct {
	Home           func(site views.Site, state content.ListingState) templ.Component
	PostList       func(posts []content.ArticleSummary) templ.Component
	Post           func(site views.Site, article content.Article, bannerSrc string) templ.Component
	AdminLogin     func(site views.Site, showError bool, csrfToken string) templ.Component
	AdminDashboard func(site views.Site, pages []views.StoredPage, message string, csrfToken string) templ.Component
	NotFound       func(site views.Site) templ.Component
	ServerError    func(site views.Site) templ.Component
}

// DefaultViews returns the components from the views package.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		Home:           views.Home,
		PostList:       views.PostList,
		Post:           views.Post,
		AdminLogin:     views.AdminLogin,
		AdminDashboard: views.AdminDashboard,
		NotFound:       views.NotFound,
		ServerError:    views.ServerError,
	}
}

// App is the central application. It wires together the content store,
// controllers, caches, handlers, and middleware.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Content prismic.Store
	Cache   *ContentCache
	Pages   *PageStore
	Banners *BannerOptimizer
	Views   ViewFuncs

	listing      *Listing
	articles     *Articles
	loginLimiter *RateLimiter
	moreLimiter  *RateLimiter
	scheduler    *cron.Cron
	httpClient   *http.Client
	customRoutes []func(*App)
	staticDir    string
	initialized  bool
}

// New creates an App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	e := echo.New()
	e.HideBanner = true
	logger := log.New("spacetraveling")
	logger.SetLevel(log.INFO)
	e.Logger = logger

	a := &App{
		Config:     cfg,
		Echo:       e,
		Views:      views,
		httpClient: http.DefaultClient,
		staticDir:  "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Logger returns the application logger.
func (a *App) Logger() echo.Logger {
	return a.Echo.Logger
}

// Init connects the content store and builds the controllers and caches.
// Build and Start call it; calling it again is a no-op.
func (a *App) Init() error {
	if a.initialized {
		return nil
	}
	if a.Content == nil {
		if err := a.Config.validate(); err != nil {
			return err
		}
		if a.Config.FixturesPath != "" {
			store, err := prismic.LoadFixtures(a.Config.FixturesPath)
			if err != nil {
				return fmt.Errorf("spacetraveling: load fixtures: %w", err)
			}
			a.Content = store
		} else {
			a.Content = prismic.NewClient(a.Config.PrismicEndpoint,
				prismic.WithAccessToken(a.Config.PrismicAccessToken),
				prismic.WithHTTPClient(a.httpClient),
				prismic.WithRefTTL(a.Config.PrismicRefTTL),
			)
		}
	}

	a.listing = NewListing(a.Content, a.Logger())
	a.articles = NewArticles(a.Content)
	a.Cache = NewContentCache(a.listing, a.articles, a.Config.Revalidate)
	a.Banners = NewBannerOptimizer(a.Config.BannerDir, a.httpClient)
	a.initialized = true
	return nil
}

// Start initializes the app, opens the page store, sets up middleware and
// routes, and starts the server.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	if a.Config.AdminPassword != "" && a.Config.SessionSecret == "" {
		return fmt.Errorf("spacetraveling: SessionSecret is required with AdminPassword")
	}

	pages, err := NewPageStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("spacetraveling: init page store: %w", err)
	}
	a.Pages = pages

	a.loginLimiter = NewRateLimiter(5, time.Minute)
	a.moreLimiter = NewRateLimiter(30, time.Minute)

	if err := a.startRevalidation(); err != nil {
		return err
	}

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Framework assets (logo.svg, site.css, loadmore.js) are served under
	// /public/ ahead of the user's static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	for _, name := range embeddedAssetNames {
		e.GET("/public/"+name, echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))
	}

	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/", a.handleHome)
	e.GET("/post/:uid/", a.handlePost)
	e.GET("/banner/:uid/", a.handleBanner)
	e.GET(a.Config.LoadMoreEndpoint, a.handleLoadMore)

	if a.Config.AdminPassword != "" {
		g := e.Group("/admin", a.adminMiddleware()...)
		g.GET("/", a.handleAdmin)
		g.POST("/login/", a.handleAdminLogin)
		g.POST("/logout/", handleAdminLogout)
		g.POST("/purge/", a.handleAdminPurge)
	}
}

// startRevalidation schedules a purge of every stored page when
// RevalidateCron is set. Specs use robfig/cron syntax with a seconds field,
// e.g. "0 0 3 * * *", or descriptors such as "@daily".
func (a *App) startRevalidation() error {
	if a.Config.RevalidateCron == "" {
		return nil
	}
	c := cron.New()
	if err := c.AddFunc(a.Config.RevalidateCron, func() {
		if _, err := a.revalidateAll(); err != nil {
			a.Logger().Errorf("scheduled revalidation: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("spacetraveling: REVALIDATE_CRON: %w", err)
	}
	c.Start()
	a.scheduler = c
	return nil
}

// site returns the template view of the configuration.
func (a *App) site() views.Site {
	return views.Site{
		Name:             a.Config.Name,
		URL:              a.Config.URL,
		Description:      a.Config.Description,
		Author:           a.Config.Author,
		LoadMoreEndpoint: a.Config.LoadMoreEndpoint,
	}
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.moreLimiter != nil {
		a.moreLimiter.Stop()
	}
	if a.Pages != nil {
		return a.Pages.Close()
	}
	return nil
}
