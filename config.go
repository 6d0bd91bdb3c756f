package spacetraveling

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/eringen/spacetraveling/prismic"
)

// SiteConfig holds all configuration for a spacetraveling site.
type SiteConfig struct {
	Name        string `envconfig:"SITE_NAME"`        // Site name (default "spacetraveling")
	URL         string `envconfig:"SITE_URL"`         // Canonical URL (default "http://localhost:3000")
	Description string `envconfig:"SITE_DESCRIPTION"` // Site description for RSS and meta tags
	Author      string `envconfig:"SITE_AUTHOR"`      // Author name for the feed

	Addr         string `envconfig:"ADDR"`          // Listen address (default ":3000")
	DatabasePath string `envconfig:"DATABASE_PATH"` // SQLite page store path (default "data/pages.db")

	PrismicEndpoint    string        `envconfig:"PRISMIC_API_ENDPOINT"` // Content API root, e.g. https://repo.cdn.prismic.io/api/v2
	PrismicAccessToken string        `envconfig:"PRISMIC_ACCESS_TOKEN"`
	FixturesPath       string        `envconfig:"CONTENT_FIXTURES"` // YAML fixtures used instead of the API when set
	PrismicRefTTL      time.Duration `envconfig:"PRISMIC_REF_TTL"`  // How long the master ref is reused (default 1m)

	Revalidate       time.Duration `envconfig:"REVALIDATE"`         // Listing and page freshness window (default 24h)
	RevalidateCron   string        `envconfig:"REVALIDATE_CRON"`    // Optional cron spec that purges stored pages
	BuildConcurrency int           `envconfig:"BUILD_CONCURRENCY"`  // Parallel article fetches during build (default 4)
	BannerDir        string        `envconfig:"BANNER_DIR"`         // Optimized banner cache (default "data/banners")
	LoadMoreEndpoint string        `envconfig:"LOAD_MORE_ENDPOINT"` // Listing pagination endpoint (default "/posts/more")

	AdminPassword string `envconfig:"ADMIN_PASSWORD"` // Enables the admin dashboard when set
	SessionSecret string `envconfig:"SESSION_SECRET"` // Required with AdminPassword
	CookieSecure  bool   `envconfig:"COOKIE_SECURE"`  // Set true for HTTPS
}

// LoadConfig reads an optional .env file and then the environment.
func LoadConfig() (SiteConfig, error) {
	_ = godotenv.Load()
	var cfg SiteConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("spacetraveling: read config: %w", err)
	}
	cfg.setDefaults()
	return cfg, nil
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "spacetraveling"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/pages.db"
	}
	if c.Revalidate == 0 {
		c.Revalidate = 24 * time.Hour
	}
	if c.PrismicRefTTL == 0 {
		c.PrismicRefTTL = prismic.DefaultRefTTL
	}
	if c.BuildConcurrency <= 0 {
		c.BuildConcurrency = 4
	}
	if c.BannerDir == "" {
		c.BannerDir = "data/banners"
	}
	if c.LoadMoreEndpoint == "" {
		c.LoadMoreEndpoint = "/posts/more"
	}
}

func (c SiteConfig) validate() error {
	if c.PrismicEndpoint == "" && c.FixturesPath == "" {
		return fmt.Errorf("spacetraveling: PRISMIC_API_ENDPOINT or CONTENT_FIXTURES is required")
	}
	if c.AdminPassword != "" && c.SessionSecret == "" {
		return fmt.Errorf("spacetraveling: SESSION_SECRET is required when ADMIN_PASSWORD is set")
	}
	return nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithStore replaces the content store built from the config.
func WithStore(s prismic.Store) Option {
	return func(a *App) {
		a.Content = s
	}
}
