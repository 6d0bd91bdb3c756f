package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eringen/spacetraveling"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := runServe(); err != nil {
			log.Fatal(err)
		}
	case "build":
		outDir := "out"
		if len(os.Args) > 2 {
			outDir = os.Args[2]
		}
		if err := runBuild(outDir); err != nil {
			log.Fatal(err)
		}
	case "version":
		fmt.Printf("spacetraveling %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func newApp() (*spacetraveling.App, error) {
	cfg, err := spacetraveling.LoadConfig()
	if err != nil {
		return nil, err
	}
	return spacetraveling.New(cfg, spacetraveling.DefaultViews()), nil
}

func runServe() error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- app.Start() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Echo.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func runBuild(outDir string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	res, err := app.Build(context.Background(), outDir)
	if err != nil {
		return err
	}
	fmt.Printf("Built %d pages (%d optimized banners) into %s\n", res.Pages, res.Banners, outDir)
	return nil
}

func printUsage() {
	fmt.Println(`spacetraveling - A blog front-end for a headless content API

Usage:
  spacetraveling <command> [arguments]

Commands:
  serve         Serve the site, rendering pages on demand
  build [dir]   Prerender every page into dir (default "out")
  version       Print the spacetraveling version
  help          Show this help message

Configuration is read from the environment and an optional .env file:
  PRISMIC_API_ENDPOINT, PRISMIC_ACCESS_TOKEN, CONTENT_FIXTURES,
  SITE_NAME, SITE_URL, ADDR, DATABASE_PATH, REVALIDATE, REVALIDATE_CRON,
  BUILD_CONCURRENCY, BANNER_DIR, LOAD_MORE_ENDPOINT, ADMIN_PASSWORD,
  SESSION_SECRET, COOKIE_SECURE`)
}
