package spacetraveling

import (
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("SITE_NAME", "Space Traveling")
	t.Setenv("PRISMIC_API_ENDPOINT", "https://spacetraveling.cdn.prismic.io/api/v2")
	t.Setenv("REVALIDATE", "30m")
	t.Setenv("BUILD_CONCURRENCY", "8")
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "Space Traveling" {
		t.Errorf("Name = %q", cfg.Name)
	}
	if cfg.Revalidate != 30*time.Minute {
		t.Errorf("Revalidate = %s", cfg.Revalidate)
	}
	if cfg.BuildConcurrency != 8 || !cfg.CookieSecure {
		t.Errorf("BuildConcurrency = %d, CookieSecure = %v", cfg.BuildConcurrency, cfg.CookieSecure)
	}
	if cfg.Addr != ":3000" || cfg.LoadMoreEndpoint != "/posts/more" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if err := cfg.validate(); err != nil {
		t.Errorf("validate failed: %v", err)
	}
}

func TestLoadConfigBadDuration(t *testing.T) {
	t.Setenv("REVALIDATE", "soon")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected an error for an invalid duration")
	}
}

func TestConfigDefaults(t *testing.T) {
	var cfg SiteConfig
	cfg.setDefaults()
	if cfg.Name != "spacetraveling" || cfg.URL != "http://localhost:3000" {
		t.Errorf("site defaults = %q %q", cfg.Name, cfg.URL)
	}
	if cfg.Revalidate != 24*time.Hour || cfg.BuildConcurrency != 4 {
		t.Errorf("Revalidate = %s, BuildConcurrency = %d", cfg.Revalidate, cfg.BuildConcurrency)
	}
	if cfg.DatabasePath != "data/pages.db" || cfg.BannerDir != "data/banners" {
		t.Errorf("paths = %q %q", cfg.DatabasePath, cfg.BannerDir)
	}
	if cfg.PrismicRefTTL != time.Minute {
		t.Errorf("PrismicRefTTL = %s", cfg.PrismicRefTTL)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     SiteConfig
		wantErr bool
	}{
		{"no source", SiteConfig{}, true},
		{"endpoint", SiteConfig{PrismicEndpoint: "https://x.cdn.prismic.io/api/v2"}, false},
		{"fixtures", SiteConfig{FixturesPath: "content.yaml"}, false},
		{"admin without secret", SiteConfig{FixturesPath: "c.yaml", AdminPassword: "pw"}, true},
		{"admin with secret", SiteConfig{FixturesPath: "c.yaml", AdminPassword: "pw", SessionSecret: "s"}, false},
	}
	for _, tt := range tests {
		if err := tt.cfg.validate(); (err != nil) != tt.wantErr {
			t.Errorf("%s: validate() = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestStartRevalidationBadCron(t *testing.T) {
	a := newTestApp(t, newTestStore(nil), func(cfg *SiteConfig) { cfg.RevalidateCron = "not a spec" })
	if err := a.startRevalidation(); err == nil {
		t.Fatal("expected an error for an invalid cron spec")
	}
}

func TestStartRevalidation(t *testing.T) {
	a := newTestApp(t, newTestStore(nil), func(cfg *SiteConfig) { cfg.RevalidateCron = "@daily" })
	if err := a.startRevalidation(); err != nil {
		t.Fatalf("startRevalidation failed: %v", err)
	}
	if a.scheduler == nil {
		t.Fatal("expected a scheduler")
	}
	a.Close()
}
