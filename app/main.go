package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/yearbook/app/api"
	"github.com/lysyi3m/yearbook/app/cfg"
	"github.com/lysyi3m/yearbook/app/config"
	"github.com/lysyi3m/yearbook/app/feed"
	"github.com/lysyi3m/yearbook/app/httpcache"
	"github.com/lysyi3m/yearbook/app/tasks"
	"github.com/lysyi3m/yearbook/app/wiki"
	"github.com/lysyi3m/yearbook/app/year"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Yearbook server", "version", appCfg.Version)

	site, err := config.NewLoader(appCfg.SiteConfig).Load()
	if err != nil {
		slog.Error("Failed to load site configuration", "path", appCfg.SiteConfig, "error", err)
		os.Exit(1)
	}

	var transport http.RoundTripper = http.DefaultTransport
	var cacheStats api.CacheStatsProvider
	if !appCfg.DisableHTTPCache {
		cached := httpcache.NewTransport(transport, appCfg.HTTPCacheTTL)
		transport = cached
		cacheStats = cached
		slog.Info("Response cache enabled", "ttl", appCfg.HTTPCacheTTL.String())
	}

	fetcher := wiki.NewRestyFetcher(wiki.FetcherOptions{
		UserAgent:         appCfg.UserAgent,
		Timeout:           appCfg.RequestTimeout,
		Transport:         transport,
		RequestsPerSecond: appCfg.RateLimit,
		Burst:             appCfg.RateBurst,
	})
	client := wiki.NewClient(fetcher, appCfg.WikiAPIURL, appCfg.WikiSummaryURL)

	yearService, err := year.NewService(client, appCfg.MemoSize, site.ItemLimit)
	if err != nil {
		slog.Error("Failed to create year service", "error", err)
		os.Exit(1)
	}

	if appCfg.WarmPresets {
		slog.Info("Warming preset years", "workers", appCfg.WorkerCount, "presets", site.Presets)
		scheduler := tasks.NewScheduler(yearService, site.Presets, appCfg.WorkerCount)
		scheduler.Start()
		defer scheduler.Stop()
	}

	generator := feed.NewGenerator(appCfg.PublicBaseURL(), appCfg.Version)
	handler := api.NewHandler(yearService, generator, site, cacheStats, appCfg.Version)
	server := api.NewServer(handler)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port, "base_url", appCfg.PublicBaseURL())

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}
}
